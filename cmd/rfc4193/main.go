// Command rfc4193 generates a Unique Local IPv6 Unicast Address prefix, as
// described in RFC4193, or parses an existing one.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/mdlayher/eui64calc/eui64"
	"github.com/mdlayher/eui64calc/rfc4193"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rfc4193: %v\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "rfc4193",
		Usage:     "generate or parse an RFC 4193 Unique Local Address prefix",
		ArgsUsage: "[prefix]",
		Writer:    w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mac",
				Usage: "MAC address used to seed the global ID; defaults to the first Ethernet interface, then random data",
			},
			&cli.UintFlag{
				Name:  "subnet",
				Usage: "print the /64 with this subnet ID instead of the /48",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			// If an argument is passed, parse it as a RFC4193 prefix.
			if s := cmd.Args().First(); s != "" {
				return parse(w, s)
			}

			p, err := generate(cmd.String("mac"))
			if err != nil {
				return err
			}

			if cmd.IsSet("subnet") {
				id := cmd.Uint("subnet")
				if id > 0xffff {
					return fmt.Errorf("subnet ID %d does not fit in 16 bits", id)
				}
				p = p.Subnet(uint16(id))
			}

			fmt.Fprintln(w, p)
			return nil
		},
	}
}

func parse(w io.Writer, s string) error {
	p, err := rfc4193.Parse(s)
	if err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}

	r := p.Range()
	fmt.Fprintf(w, "local: %v, global ID: %#0x, subnet ID: %#04x, prefix: /%d, range: %s-%s\n",
		p.Local, p.GlobalID, p.SubnetID, p.Bits(), r.From(), r.To())
	return nil
}

func generate(mac string) (rfc4193.Prefix, error) {
	if mac != "" {
		hw, err := eui64.ParseMAC(mac)
		if err != nil {
			return rfc4193.Prefix{}, err
		}

		return rfc4193.GenerateFromMAC(hw), nil
	}

	ifis, err := net.Interfaces()
	if err != nil {
		return rfc4193.Prefix{}, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	// Try to choose a suitable interface MAC address as a seed, but also fall
	// back to random data if a suitable address isn't found.
	for _, ifi := range ifis {
		// Must be Ethernet address, must be non-zero (skip loopback).
		var hw eui64.HardwareAddr
		if len(ifi.HardwareAddr) != len(hw) {
			continue
		}
		copy(hw[:], ifi.HardwareAddr)
		if hw == (eui64.HardwareAddr{}) {
			continue
		}

		return rfc4193.GenerateFromMAC(hw), nil
	}

	p, err := rfc4193.Generate()
	if err != nil {
		return rfc4193.Prefix{}, fmt.Errorf("failed to generate RFC4193 prefix: %w", err)
	}

	return p, nil
}

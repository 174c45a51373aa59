package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/netip"

	"github.com/mdlayher/eui64calc/eui64"
	"github.com/mdlayher/eui64calc/rfc4193"
	"github.com/urfave/cli/v3"
)

const (
	codeRejected = 1
	codeUsage    = 2
)

func policyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "reject-multicast",
			Usage: "reject hardware addresses with the multicast bit set",
		},
		&cli.BoolFlag{
			Name:  "reject-host-bits",
			Usage: "reject prefixes with non-zero bits beyond /64",
		},
	}
}

// calculator builds an eui64.Calculator from the policy flags of cmd.
func calculator(cmd *cli.Command) eui64.Calculator {
	var c eui64.Calculator
	if cmd.Bool("reject-multicast") {
		c.Multicast = eui64.RejectMulticast
	}
	if cmd.Bool("reject-host-bits") {
		c.HostBits = eui64.RejectHostBits
	}

	return c
}

func calcCommand() *cli.Command {
	return &cli.Command{
		Name:  "calc",
		Usage: "derive the interface ID and IPv6 address for a MAC address",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "mac",
				Aliases:  []string{"m"},
				Usage:    "EUI-48 MAC address, ':' or '-' separated",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "prefix",
				Aliases: []string{"p"},
				Usage:   "IPv6 /64 prefix; if empty only the interface ID is derived",
			},
			&cli.BoolFlag{
				Name:  "ula",
				Usage: "use an RFC 4193 prefix generated from the MAC address",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the result as JSON",
			},
		}, policyFlags()...),
		Action: func(_ context.Context, cmd *cli.Command) error {
			return calc(cmd.Root().Writer, calculator(cmd), cmd.String("mac"), cmd.String("prefix"), cmd.Bool("ula"), cmd.Bool("json"))
		},
	}
}

func calc(w io.Writer, c eui64.Calculator, mac, prefix string, ula, asJSON bool) error {
	if ula && prefix != "" {
		return cli.Exit("eui64: --ula and --prefix are mutually exclusive", codeUsage)
	}

	if ula {
		hw, err := c.ParseMAC(mac)
		if err != nil {
			return report(w, eui64.NewOutcome(eui64.Result{}, err), asJSON)
		}

		p := rfc4193.GenerateFromMAC(hw)
		if !asJSON {
			fmt.Fprintf(w, "ULA prefix: %s\n", p)
		}
		prefix = p.Netip().Addr().String()
	}

	if prefix == "" {
		return report(w, c.InterfaceOutcome(mac), asJSON)
	}

	return report(w, c.Outcome(mac, prefix), asJSON)
}

// A jsonOutcome is the JSON form of an eui64.Outcome, matching the HTTP API.
type jsonOutcome struct {
	OK          bool       `json:"ok"`
	InterfaceID string     `json:"interface_id,omitempty"`
	FullIP      string     `json:"full_ip,omitempty"`
	Error       *jsonError `json:"error,omitempty"`
}

type jsonError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// report prints o and returns a non-nil error for a Failure.
func report(w io.Writer, o eui64.Outcome, asJSON bool) error {
	switch o := o.(type) {
	case eui64.Success:
		if asJSON {
			return writeJSON(w, jsonOutcome{OK: true, InterfaceID: o.InterfaceID, FullIP: o.FullIP})
		}

		fmt.Fprintf(w, "Interface ID: %s\n", o.InterfaceID)
		if o.FullIP != "" {
			fmt.Fprintf(w, "          IP: %s\n", o.FullIP)
		}
		return nil
	case eui64.Failure:
		if !asJSON {
			return cli.Exit(o.Message, codeRejected)
		}

		out := jsonOutcome{Error: &jsonError{Kind: o.Kind.String(), Message: o.Message}}
		if err := writeJSON(w, out); err != nil {
			return err
		}
		return cli.Exit("", codeRejected)
	default:
		panic(fmt.Sprintf("eui64: unhandled outcome %T", o))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "split an EUI-64 derived IPv6 address into its prefix and MAC address",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ip",
				Aliases:  []string{"i"},
				Usage:    "EUI-64 derived IPv6 address",
				Required: true,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			ip, err := netip.ParseAddr(cmd.String("ip"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("eui64: invalid IP address: %v", err), codeRejected)
			}

			prefix, mac, err := eui64.ParseIP(ip)
			if err != nil {
				return cli.Exit(err.Error(), codeRejected)
			}

			fmt.Fprintf(cmd.Root().Writer, "Prefix: %s\n   MAC: %s\n", prefix, mac)
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check a MAC address or IPv6 prefix",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "mac",
				Aliases: []string{"m"},
				Usage:   "EUI-48 MAC address to check",
			},
			&cli.StringFlag{
				Name:    "prefix",
				Aliases: []string{"p"},
				Usage:   "IPv6 prefix to check",
			},
		}, policyFlags()...),
		Action: func(_ context.Context, cmd *cli.Command) error {
			c := calculator(cmd)

			var err error
			switch mac, prefix := cmd.IsSet("mac"), cmd.IsSet("prefix"); {
			case mac == prefix:
				return cli.Exit("eui64: exactly one of --mac or --prefix is required", codeUsage)
			case mac:
				err = c.ValidateMAC(cmd.String("mac"))
			default:
				err = c.ValidateIPv6Prefix(cmd.String("prefix"))
			}
			if err != nil {
				return cli.Exit(err.Error(), codeRejected)
			}

			fmt.Fprintln(cmd.Root().Writer, "ok")
			return nil
		},
	}
}

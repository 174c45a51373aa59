// Command eui64 derives EUI-64 IPv6 addresses from hardware addresses and
// prefixes, validates either input, or converts an EUI-64 derived IPv6
// address back to its prefix and hardware address.
//
// Exit codes:
//
//	0: success
//	1: an input was rejected
//	2: usage error
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"
)

// Build information, set with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &cli.Command{
		Name:      "eui64",
		Usage:     "derive and inspect EUI-64 IPv6 addresses",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			calcCommand(),
			parseCommand(),
			validateCommand(),
		},
		// Exit codes are mapped below rather than by os.Exit in the library.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	err := app.Run(ctx, args)
	if err == nil {
		return 0
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return ec.ExitCode()
	}

	// Anything else was produced while parsing the command line.
	fmt.Fprintf(stderr, "eui64: %v\n", err)
	return 2
}

// Command eui64d serves the EUI-64 calculator HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdlayher/eui64calc/internal/config"
	"github.com/mdlayher/eui64calc/internal/logging"
	"github.com/mdlayher/eui64calc/internal/server"
	"github.com/mdlayher/eui64calc/multinet"
	"github.com/urfave/cli/v3"
)

// Build information, set with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:    "eui64d",
		Usage:   "serve the EUI-64 calculator HTTP API",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML or JSON configuration file",
				Sources: cli.EnvVars("EUI64_CONFIG"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd.String("config"), os.Getenv)
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "eui64d: %v\n", err)
		os.Exit(1)
	}
}

// run serves the API configured by the file at path until ctx is canceled.
func run(ctx context.Context, path string, getenv func(string) string) error {
	cfg, err := config.Load(path, getenv)
	if err != nil {
		return err
	}

	ll, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	l, err := multinet.ListenAddrs(ctx, cfg.Listen...)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Calculator:        cfg.Policy.Calculator(),
		Logger:            ll,
		Metrics:           cfg.Metrics.Enabled,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.ShutdownTimeout,
	})

	ll.Info("starting server",
		"version", version,
		"commit", commit,
		"addr", l.Addr().String(),
		"reject_multicast", cfg.Policy.RejectMulticast,
		"reject_host_bits", cfg.Policy.RejectHostBits,
	)

	if err := srv.Serve(ctx, l); err != nil {
		ll.Error("server stopped", "error", err)
		return err
	}

	ll.Info("server stopped")
	return nil
}

// idp is a mock identity provider for the header: seeded accounts, a
// WebSocket session stream and a small HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/tplgallery/header/internal/config"
	"github.com/tplgallery/header/internal/idp"
	"github.com/tplgallery/header/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("idp", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML or TOML config file")
	port := flags.Int("port", 0, "override server port")
	mockMode := flags.Bool("mock", false, "sign accounts in and out on a timer")
	signIn := flags.String("sign-in", "", "start with this account signed in")
	maxClients := flags.Int("max-clients", 64, "maximum concurrent WebSocket clients (0 = unlimited)")
	logLevel := flags.String("log-level", "info", "log level")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	logging.Init("idp", os.Stdout, logging.ParseLevel(*logLevel))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	store := idp.NewStore(cfg.Accounts)
	broadcaster := idp.NewBroadcaster(store, cfg.Server.SnapshotInterval, *maxClients)
	defer broadcaster.Close()
	server := idp.NewServer(store, broadcaster, cfg.Server.AllowedOrigins, cfg.Server.Token)

	if *signIn != "" {
		if err := server.Start(*signIn); err != nil {
			return fmt.Errorf("sign in %q: %w", *signIn, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *mockMode {
		log.Info().Dur("interval", cfg.Server.MockInterval).Msg("starting in mock mode")
		idp.NewCycler(server, cfg.Server.MockInterval).Start(ctx)
	}

	if err := idp.ListenAndServe(ctx, cfg.Server.Host, cfg.Server.Port, server.Handler()); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info().Msg("shut down")
	return nil
}

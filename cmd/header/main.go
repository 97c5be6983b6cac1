// header runs the template gallery header in the terminal against an
// identity provider (see cmd/idp), or against an in-process one with
// --offline.
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/tplgallery/header/internal/app"
	"github.com/tplgallery/header/internal/cache"
	"github.com/tplgallery/header/internal/client"
	"github.com/tplgallery/header/internal/config"
	"github.com/tplgallery/header/internal/logging"
	"github.com/tplgallery/header/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("header", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML or TOML config file")
	wsURL := flags.String("url", "", "WebSocket URL of the identity provider (overrides config)")
	token := flags.String("token", "", "auth token for the identity provider (overrides config)")
	logPath := flags.String("log", "header.log", "log file")
	logLevel := flags.String("log-level", "info", "log level")
	offline := flags.Bool("offline", false, "use an in-process identity provider")
	noMotion := flags.Bool("no-motion", false, "show and hide elements without animation")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *wsURL != "" {
		cfg.Provider.URL = *wsURL
	}
	if *token != "" {
		cfg.Provider.Token = *token
	}
	if *noMotion {
		cfg.Motion.Instant = true
	}

	logFile, err := logging.OpenFile(*logPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logging.Init("header", logFile, logging.ParseLevel(*logLevel))

	var provider session.Provider
	if *offline {
		provider = client.NewMemory(cfg.Accounts...)
		log.Info().Int("accounts", len(cfg.Accounts)).Msg("offline identity provider")
	} else {
		provider = client.NewIdentityProvider(cfg.Provider.URL, cfg.Provider.Token)
		log.Info().Str("url", cfg.Provider.URL).Msg("identity provider")
	}

	err = app.Run(cache.New(), provider, cfg, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if err != nil {
		log.Error().Err(err).Msg("exit")
	}
	return err
}

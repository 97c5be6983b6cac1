package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tplgallery/header/internal/session"
)

// ErrUnknownFormat is returned for config files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown config format")

type Config struct {
	Provider ProviderConfig    `yaml:"provider" toml:"provider"`
	Admins   []string          `yaml:"admins" toml:"admins"`
	Search   SearchConfig      `yaml:"search" toml:"search"`
	Motion   MotionConfig      `yaml:"motion" toml:"motion"`
	Catalog  []string          `yaml:"catalog" toml:"catalog"`
	Server   ServerConfig      `yaml:"server" toml:"server"`
	Accounts []session.Session `yaml:"accounts" toml:"accounts"`
}

type ProviderConfig struct {
	URL            string        `yaml:"url" toml:"url" env:"URL"`
	Token          string        `yaml:"token" toml:"token" env:"TOKEN"`
	ResolveTimeout time.Duration `yaml:"resolve_timeout" toml:"resolve_timeout" env:"RESOLVE_TIMEOUT"`
	SignOutTimeout time.Duration `yaml:"signout_timeout" toml:"signout_timeout" env:"SIGNOUT_TIMEOUT"`
}

type SearchConfig struct {
	Placeholder string `yaml:"placeholder" toml:"placeholder"`
}

type MotionConfig struct {
	Instant bool `yaml:"instant" toml:"instant" env:"INSTANT"`
}

type ServerConfig struct {
	Host             string        `yaml:"host" toml:"host" env:"HOST"`
	Port             int           `yaml:"port" toml:"port" env:"PORT"`
	Token            string        `yaml:"token" toml:"token" env:"TOKEN"`
	AllowedOrigins   []string      `yaml:"allowed_origins" toml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	SnapshotInterval time.Duration `yaml:"snapshot_interval" toml:"snapshot_interval" env:"SNAPSHOT_INTERVAL"`
	MockInterval     time.Duration `yaml:"mock_interval" toml:"mock_interval" env:"MOCK_INTERVAL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			URL:            "ws://127.0.0.1:8080/ws",
			ResolveTimeout: session.DefaultResolveTimeout,
			SignOutTimeout: session.DefaultSignOutTimeout,
		},
		Search: SearchConfig{
			Placeholder: "Search here.......",
		},
		Catalog: []string{
			"Classic Professional",
			"Modern Minimal",
			"Creative Portfolio",
			"Academic CV",
			"Executive Summary",
			"Two Column Tech",
		},
		Server: ServerConfig{
			Port:             8080,
			Host:             "127.0.0.1",
			SnapshotInterval: 30 * time.Second,
			MockInterval:     5 * time.Second,
		},
		Accounts: []session.Session{
			{UID: "demo-user", Email: "demo@example.com", DisplayName: "Demo User"},
			{UID: "demo-admin", Email: "admin@example.com", DisplayName: "Demo Admin"},
		},
		Admins: []string{"demo-admin"},
	}
}

// Load reads path over the defaults, choosing the decoder by extension,
// then applies .env and environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, cfg)
		case ".toml":
			err = toml.Unmarshal(data, cfg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	return cfg, nil
}

type adminsEnv struct {
	Admins []string `env:"HEADER_ADMINS" envSeparator:","`
}

// applyEnv loads .env, if present, and overrides cfg from the environment.
// Variables that are not set leave the current values alone.
func applyEnv(cfg *Config) error {
	_ = godotenv.Load()

	sections := []struct {
		prefix string
		v      any
	}{
		{"HEADER_PROVIDER_", &cfg.Provider},
		{"HEADER_MOTION_", &cfg.Motion},
		{"IDP_", &cfg.Server},
	}
	for _, s := range sections {
		if err := env.ParseWithOptions(s.v, env.Options{Prefix: s.prefix}); err != nil {
			return err
		}
	}

	var admins adminsEnv
	if err := env.Parse(&admins); err != nil {
		return err
	}
	if len(admins.Admins) > 0 {
		cfg.Admins = admins.Admins
	}
	return nil
}

// Allowlist returns the admin allowlist.
func (c *Config) Allowlist() session.Allowlist {
	return session.NewAllowlist(c.Admins)
}

// SessionOptions returns the observer timeouts.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		ResolveTimeout: c.Provider.ResolveTimeout,
		SignOutTimeout: c.Provider.SignOutTimeout,
	}
}

// Account looks up a seeded account by uid.
func (c *Config) Account(uid string) (session.Session, bool) {
	for _, a := range c.Accounts {
		if a.UID == uid {
			return a, true
		}
	}
	return session.Session{}, false
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package config loads and validates Gatehouse configuration.
//
// Precedence, lowest to highest: built-in defaults, YAML config file,
// command-line flags. The resulting Config is built once at startup and
// passed explicitly to the components that need it.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values.
const (
	DefaultListenAddr  = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultTokenTTL    = 24 * time.Hour
	DefaultCookieName  = "gatehouse_session"
	DefaultCookiePath  = "/auth"

	minSecretKeyLen = 32
)

// AuthConfig holds the credential and token settings.
type AuthConfig struct {
	// SecretKey signs session tokens. Process-wide, loaded once, never
	// rotated at runtime.
	SecretKey    string        `koanf:"secret_key"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	CookieName   string        `koanf:"cookie_name"`
	CookiePath   string        `koanf:"cookie_path"`
	CookieSecure bool          `koanf:"cookie_secure"`
}

// Config is the full Gatehouse configuration.
type Config struct {
	ListenAddr  string     `koanf:"listen_addr"`
	MetricsAddr string     `koanf:"metrics_addr"`
	DatabaseURL string     `koanf:"database_url"`
	LogFormat   string     `koanf:"log_format"`
	AutoMigrate bool       `koanf:"auto_migrate"`
	Auth        AuthConfig `koanf:"auth"`
}

// Default returns a Config populated with built-in defaults. SecretKey and
// DatabaseURL have no defaults and must come from file, flags, or
// environment.
func Default() *Config {
	return &Config{
		ListenAddr:  DefaultListenAddr,
		MetricsAddr: DefaultMetricsAddr,
		LogFormat:   DefaultLogFormat,
		Auth: AuthConfig{
			TokenTTL:   DefaultTokenTTL,
			CookieName: DefaultCookieName,
			CookiePath: DefaultCookiePath,
		},
	}
}

// Load builds a Config by layering an optional YAML file and an optional
// flag set over the defaults. Flag names must match koanf key paths
// (e.g. "auth.secret_key").
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	return cfg, nil
}

// Validate checks that the configuration can run a server.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen_addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log_format must be 'json' or 'text'")
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}
	if len(c.Auth.SecretKey) < minSecretKeyLen {
		return oops.Code("CONFIG_INVALID").
			With("min_bytes", minSecretKeyLen).
			Errorf("auth.secret_key must be at least %d bytes", minSecretKeyLen)
	}
	if c.Auth.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.token_ttl must be positive")
	}
	if c.Auth.CookieName == "" {
		return oops.Code("CONFIG_INVALID").Errorf("auth.cookie_name is required")
	}
	return nil
}

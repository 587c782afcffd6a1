// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/auth"
	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/httpapi"
	"github.com/gatehouse/gatehouse/internal/logging"
	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/internal/store"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
//
// Flag names double as koanf key paths, so the same setting can come from
// the YAML config file or the command line, flags winning.
func NewServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the auth HTTP server",
		Long: `Start the auth HTTP server and the metrics/health endpoint.

The signing secret and database URL may come from the config file, flags,
or the GATEHOUSE_SECRET_KEY and DATABASE_URL environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServeConfig(configPath, cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path (YAML)")
	cmd.Flags().String("listen_addr", config.DefaultListenAddr, "auth HTTP listen address")
	cmd.Flags().String("metrics_addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database_url", "", "PostgreSQL connection URL")
	cmd.Flags().String("log_format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().Bool("auto_migrate", false, "apply pending schema migrations on startup")
	cmd.Flags().String("auth.secret_key", "", "token signing secret")
	cmd.Flags().Duration("auth.token_ttl", config.DefaultTokenTTL, "session token lifetime")
	cmd.Flags().String("auth.cookie_name", config.DefaultCookieName, "session cookie name")
	cmd.Flags().String("auth.cookie_path", config.DefaultCookiePath, "session cookie path")
	cmd.Flags().Bool("auth.cookie_secure", false, "set the Secure cookie attribute")

	return cmd
}

// loadServeConfig layers file and flags, fills secrets from the environment,
// and validates.
func loadServeConfig(configPath string, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = os.Getenv("GATEHOUSE_SECRET_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("gatehouse", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		migrator, err := store.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := migrator.Up(); err != nil {
			_ = migrator.Close() //nolint:errcheck // migration error takes precedence
			return err
		}
		if err := migrator.Close(); err != nil {
			return err
		}
		logger.Info("schema migrations applied")
	}

	// Assemble the auth core. Everything is constructed once here and
	// passed explicitly; no component reads ambient configuration.
	accounts := authpg.NewAccountRepository(pool)
	hasher := auth.NewArgon2idHasher()
	codec, err := auth.NewJWTCodec([]byte(cfg.Auth.SecretKey))
	if err != nil {
		return err
	}
	cookies := auth.NewSessionCookie(cfg.Auth.CookieName, cfg.Auth.CookiePath, cfg.Auth.CookieSecure)
	svc, err := auth.NewService(accounts, hasher, codec, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	var obsErrCh <-chan error
	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, err = obsServer.Start()
		if err != nil {
			return err
		}
		metrics = obsServer.Metrics()
	}

	apiServer, err := httpapi.NewServer(cfg.ListenAddr, svc, codec, cookies, logger, metrics)
	if err != nil {
		return err
	}
	apiErrCh, err := apiServer.Start()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-apiErrCh:
		if err != nil {
			errutil.LogError(logger, "auth server failed", err)
		}
	case err = <-obsErrCh:
		if err != nil {
			errutil.LogError(logger, "observability server failed", err)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if stopErr := apiServer.Stop(stopCtx); stopErr != nil {
		errutil.LogError(logger, "auth server shutdown failed", stopErr)
	}
	if obsServer != nil {
		if stopErr := obsServer.Stop(stopCtx); stopErr != nil {
			errutil.LogError(logger, "observability server shutdown failed", stopErr)
		}
	}

	if err != nil {
		return oops.Code("SERVE_FAILED").Wrap(err)
	}
	return nil
}

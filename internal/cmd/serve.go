package cmd

import (
	"context"
	"net/http"
	"os/exec"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/clibridge/clibridge/internal/config"
	errwrap "github.com/clibridge/clibridge/internal/errors"
	"github.com/clibridge/clibridge/internal/observability"
	"github.com/clibridge/clibridge/internal/runner"
	"github.com/clibridge/clibridge/internal/server"
	"github.com/clibridge/clibridge/internal/server/handlers"
	"github.com/clibridge/clibridge/internal/store"
)

var (
	serverPort int
	serverHost string
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// cliBinaryHealthChecker verifies the generator binary is still on PATH.
type cliBinaryHealthChecker struct {
	binary string
}

func (c cliBinaryHealthChecker) CheckHealth(ctx context.Context) error {
	if c.binary == "" {
		return errwrap.NewConfigInvalidError("cli binary is not configured")
	}
	if _, err := exec.LookPath(c.binary); err != nil {
		return errwrap.NewConfigInvalidError("cli binary not found: " + c.binary)
	}
	return nil
}

// storeHealthChecker pings the session store.
type storeHealthChecker struct {
	store *store.Store
}

func (s storeHealthChecker) CheckHealth(ctx context.Context) error {
	return s.store.Ping(ctx)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the OpenAI-compatible HTTP server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)

The server will cleanly shut down the HTTP server and flush logs on shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		logLevel := cfg.Logging.Level
		observability.InitServerLogger(config.AppName, logLevel)

		if cfg.Metrics.Enabled {
			metricsPort := cfg.Metrics.Port
			if metricsPort == 0 {
				metricsPort = 9090
			}

			if err := observability.InitMetrics(config.AppName, metricsPort); err != nil {
				observability.ServerLogger.Error("Failed to initialize metrics",
					zap.Error(err))
				return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
			}
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("service", config.AppName),
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.String("cli_binary", cfg.CLI.Binary),
			zap.Bool("sessions_enabled", cfg.Sessions.Enabled),
			zap.Int("metrics_port", observability.GetMetricsPort()))

		// Initialize health manager. With health disabled the endpoints stay
		// registered but answer 503.
		var hm *handlers.HealthManager
		if cfg.Health.Enabled {
			handlers.InitHealthManager(versionInfo.Version)
			hm = handlers.GetHealthManager()
			if cfg.Metrics.Enabled {
				hm.RegisterChecker("telemetry", telemetryHealthChecker{})
			}
			hm.RegisterChecker("cli_binary", cliBinaryHealthChecker{binary: cfg.CLI.Binary})
		}

		// Open the session store when enabled
		var sessions runner.SessionResolver
		var sessionStore *store.Store
		if cfg.Sessions.Enabled {
			st, err := store.Open(cmd.Context(), cfg.Sessions)
			if err != nil {
				observability.ServerLogger.Error("Failed to open session store",
					zap.Error(err))
				return errwrap.WrapDatabaseError(cmd.Context(), err, "session store initialization failed")
			}
			sessionStore = st
			sessions = st
			if hm != nil {
				hm.RegisterChecker("session_store", storeHealthChecker{store: st})
			}
		}

		gen := runner.New(cfg.CLI, sessions)
		srv := server.New(cfg.Server, handlers.NewChatHandler(gen))

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Graceful shutdown handlers run LIFO: server first, then store, then
		// the log flush.
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		if sessionStore != nil {
			signals.OnShutdown(func(ctx context.Context) error {
				observability.ServerLogger.Info("Closing session store...")
				return sessionStore.Close()
			})
		}

		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		// Config reload handler (SIGHUP)
		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					observability.ServerLogger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				observability.ServerLogger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			if _, err := config.Load(); err != nil {
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			observability.ServerLogger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))

			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", cfg.Server.Host),
				zap.Int("port", cfg.Server.Port))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

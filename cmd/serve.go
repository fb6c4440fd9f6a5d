// -- cmd/serve.go --
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/varkai/a11yprobe/internal/browser"
	"github.com/varkai/a11yprobe/internal/checker"
	"github.com/varkai/a11yprobe/internal/config"
	"github.com/varkai/a11yprobe/internal/observability"
	"github.com/varkai/a11yprobe/internal/server"
)

// newServeCmd creates and configures the `serve` command.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the accessibility checker as an HTTP service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return fmt.Errorf("failed to resolve config with flag overrides: %w", err)
			}

			manager := browser.NewManager(cfg, logger)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), browserShutdownTimeout)
				defer cancel()
				if err := manager.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Browser manager shutdown error.", zap.Error(err))
				}
			}()

			chk, err := checker.New(cfg, manager, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize checker: %w", err)
			}

			srv, err := server.New(cfg, chk, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}

			logger.Info("Serving accessibility checks.",
				zap.String("addr", cfg.Server.Addr),
				zap.Int64("max_sessions", cfg.Server.MaxSessions),
				zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout),
			)
			start := time.Now()
			err = srv.Run(ctx)
			logger.Info("Server stopped.", zap.Duration("uptime", time.Since(start)))
			return err
		},
	}

	serveCmd.Flags().String("addr", "", "Listen address for the HTTP API. (Overrides config/env)")

	return serveCmd
}

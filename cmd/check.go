// -- cmd/check.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/varkai/a11yprobe/internal/browser"
	"github.com/varkai/a11yprobe/internal/checker"
	"github.com/varkai/a11yprobe/internal/config"
	"github.com/varkai/a11yprobe/internal/observability"
	"github.com/varkai/a11yprobe/internal/reporting"
)

const browserShutdownTimeout = 30 * time.Second

// newCheckCmd creates and configures the `check` command.
func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [url]",
		Short: "Runs an accessibility smoke test against a single page",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their corresponding Viper keys so command-line
			// flags correctly override config file and environment values.
			if err := viper.BindPFlag("walker.max_tab_steps", cmd.Flags().Lookup("max-tab-steps")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main.go (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Re-resolve the config now that flags are bound in PreRunE, so
			// overrides apply with the right precedence.
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return fmt.Errorf("failed to resolve config with flag overrides: %w", err)
			}
			if len(args) > 0 {
				cfg.Check.URL = args[0]
			}
			cfg.Check.Output = viper.GetString("output")
			cfg.Check.Format = viper.GetString("format")

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

			state := chk.Check(ctx, cfg.Check.URL)

			reporter, err := reporting.New(cfg.Check.Format, cfg.Check.Output, Version)
			if err != nil {
				return err
			}
			if err := reporter.Write(state); err != nil {
				reporter.Close()
				return err
			}
			if err := reporter.Close(); err != nil {
				return err
			}

			if !state.OK {
				if ctx.Err() != nil {
					return errors.New("check aborted by user signal")
				}
				return fmt.Errorf("accessibility check failed: %s", strings.Join(state.Errors, "; "))
			}
			logger.Info("Check completed.", zap.String("summary", state.Summary))
			return nil
		},
	}

	// Reporting flags
	checkCmd.Flags().StringP("output", "o", "", "Output file path for the report. If unset, the report is written to stdout.")
	checkCmd.Flags().StringP("format", "f", "json", "Format for the output report ('json', 'junit').")

	// Check configuration override flags.
	checkCmd.Flags().Int("max-tab-steps", 0, "Maximum number of Tab presses during the walk. (Overrides config/env)")
	checkCmd.Flags().Bool("headless", true, "Run the browser headless. (Overrides config/env)")

	return checkCmd
}

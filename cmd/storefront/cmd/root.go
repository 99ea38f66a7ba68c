// Package cmd provides the CLI commands for storefront.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/storefront/internal/config"
	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/logging"
	"github.com/Aman-CERP/storefront/internal/storefront"
	"github.com/Aman-CERP/storefront/internal/theme"
	"github.com/Aman-CERP/storefront/internal/ui"
	"github.com/Aman-CERP/storefront/pkg/version"
)

// Global flags
var (
	debugMode      bool
	configDir      string
	loggingCleanup func()
)

// NewRootCmd creates the root command for the storefront CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Search and browse the Abou3yta phone catalog",
		Long: `storefront searches a phone catalog in Arabic or Latin script, keeps
your favorites and theme across restarts, and serves the catalog to AI
assistants over MCP.

Run 'storefront browse' for the interactive screen.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("storefront version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.storefront/logs/")
	cmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing .storefront.yaml")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newBrandsCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newFavCmd())
	cmd.AddCommand(newThemeCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newOrderCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging enables debug file logging when --debug is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug_logging_enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Version))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("debug_logging_stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command, canceling on interrupt.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads configuration for --config-dir.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, sferrors.New(sferrors.ErrCodeConfigInvalid, "failed to load configuration", err).
			WithDetail("dir", configDir).
			WithSuggestion("Run 'storefront config show' to inspect the effective configuration")
	}
	return cfg, nil
}

// openSession loads configuration and opens the shared session.
func openSession() (*storefront.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storefront.Open(storefront.Options{
		Config:      cfg,
		AmbientDark: ui.AmbientDark,
		ApplyTheme:  applyTheme,
	})
}

func applyTheme(t theme.Theme) {
	ui.ApplyTheme(t)
	slog.Debug("theme_applied", slog.String("theme", t.String()))
}

package cmd

import (
	"github.com/spf13/cobra"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/output"
	"github.com/Aman-CERP/storefront/internal/preflight"
)

func newDoctorCmd() *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, catalog and storage",
		Long: `Run diagnostics to ensure the storefront can start and keep state.

Checks:
  - Configuration values
  - Catalog source (parses and validates)
  - Storage directory write permissions
  - Storage backend opens and accepts writes
  - Disk space next to the storage file

Storage checks are non-critical: without usable storage the storefront
keeps favorites and theme in memory for the session.`,
		Example: `  # Run diagnostics
  storefront doctor

  # JSON output for scripting
  storefront doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			checker := preflight.New(
				preflight.WithVerbose(verbose),
				preflight.WithOutput(cmd.OutOrStdout()),
			)
			results := checker.RunAll(cmd.Context(), cfg)

			if jsonOutput {
				if err := output.New(cmd.OutOrStdout()).JSON(map[string]any{
					"status": checker.SummaryStatus(results),
					"checks": results,
				}); err != nil {
					return err
				}
			} else {
				checker.PrintResults(results)
			}

			if checker.HasCriticalFailures(results) {
				return sferrors.New(sferrors.ErrCodeInternal, "system check failed", nil).
					WithSuggestion("Fix the errors reported by 'storefront doctor --verbose'")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

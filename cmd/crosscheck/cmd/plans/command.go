// Package plans provides the command that displays the commission plan book.
package plans

import (
	"github.com/spf13/cobra"

	"github.com/revenueops/crosscheck/cmd/application"
	"github.com/revenueops/crosscheck/internal/cmd/output"
	"github.com/revenueops/crosscheck/pkg/commission"
)

// NewCommand creates the plans command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	var plansFile string

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Show the commission plan book",
		Long: `Plans displays the commission plan book that reconciliation prices
deals with: per-type rates, annual quotas, and kicker ladders by year.

Without --plans this shows the configured plan book, falling back to
the built-in plans.`,
		Example: `  crosscheck plans
  crosscheck plans --plans plans.yaml
  crosscheck plans -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			format = output.DetectFormat(string(format))

			book, err := resolveBook(app, plansFile)
			if err != nil {
				return err
			}

			return output.FormatPlans(cmd.OutOrStdout(), book, format)
		},
	}

	cmd.Flags().StringVar(&plansFile, "plans", "", "commission plan book YAML to display")

	return cmd
}

// resolveBook returns the plan book to display. An explicit --plans file
// wins over the app configuration.
func resolveBook(app application.Application, path string) (*commission.Book, error) {
	if path != "" {
		return commission.LoadFile(path)
	}
	return app.Book()
}

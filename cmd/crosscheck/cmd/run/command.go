// Package run provides the command that executes a full reconciliation.
package run

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/revenueops/crosscheck"
	"github.com/revenueops/crosscheck/cmd/application"
	"github.com/revenueops/crosscheck/internal/cmd/output"
	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/constants"
	"github.com/revenueops/crosscheck/pkg/errors"
	"github.com/revenueops/crosscheck/pkg/report"
)

// flags holds the parsed run command flags.
type flags struct {
	dealsFile        string
	transactionFiles []string
	transactionsDir  string
	plansFile        string
	outputFile       string
	indicators       []string
	amountEpsilon    float64
}

// NewCommand creates the run command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile deal exports against commission statements",
		Long: `Run executes a full reconciliation of a CRM deal export against one or
more commission statement exports.

Statement files are categorized by name: files containing "withholding"
are treated as withholding statements, files containing "estimated" or
"forecast" as forecast statements, and everything else as regular
commission statements. Split statements are recognized the same way.

The result prints to stdout in the selected output format. Pass
--output to additionally write a multi-sheet xlsx workbook.`,
		Example: `  crosscheck run --deals deals.csv --transactions-dir exports/
  crosscheck run --deals deals.csv --transactions commissions.csv --transactions withholding.csv
  crosscheck run --deals deals.csv --transactions-dir exports/ --output report.xlsx
  crosscheck run --deals deals.csv --transactions-dir exports/ -o json > result.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReconciliation(cmd, app, &f)
		},
	}

	cmd.Flags().StringVar(&f.dealsFile, "deals", "", "CRM deal export CSV (required)")
	cmd.Flags().StringArrayVar(&f.transactionFiles, "transactions", nil, "commission statement CSV (repeatable)")
	cmd.Flags().StringVar(&f.transactionsDir, "transactions-dir", "", "directory of commission statement CSVs")
	cmd.Flags().StringVar(&f.plansFile, "plans", "", "commission plan book YAML (overrides configured plans)")
	cmd.Flags().StringVar(&f.outputFile, "output", "", "write an xlsx workbook to this path (a directory gets "+constants.DefaultReportName+")")
	cmd.Flags().StringArrayVar(&f.indicators, "indicator", nil, "central processing indicator (repeatable, overrides configured indicators)")
	cmd.Flags().Float64Var(&f.amountEpsilon, "amount-epsilon", constants.AmountEpsilon, "absolute commission difference treated as equal")
	_ = cmd.MarkFlagRequired("deals")

	return cmd
}

// runReconciliation reads the inputs, runs the engine, and renders the result.
func runReconciliation(cmd *cobra.Command, app application.Application, f *flags) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	if len(f.transactionFiles) == 0 && f.transactionsDir == "" {
		return errors.NewValidationError("transactions", nil,
			"at least one --transactions file or a --transactions-dir is required")
	}

	book, err := resolveBook(app, f.plansFile)
	if err != nil {
		return err
	}

	opts := []crosscheck.Option{
		crosscheck.WithDealsFile(f.dealsFile),
		crosscheck.WithBook(book),
		crosscheck.WithAmountEpsilon(f.amountEpsilon),
		crosscheck.WithLogger(*app.Logger()),
	}
	if f.transactionsDir != "" {
		opts = append(opts, crosscheck.WithTransactionsDir(f.transactionsDir))
	}
	if len(f.transactionFiles) > 0 {
		opts = append(opts, crosscheck.WithTransactionFiles(f.transactionFiles...))
	}
	markers := app.Indicators()
	if len(f.indicators) > 0 {
		markers = f.indicators
	}
	if len(markers) > 0 {
		opts = append(opts, crosscheck.WithIndicators(markers...))
	}

	cc, err := crosscheck.New(opts...)
	if err != nil {
		return err
	}

	res, err := cc.Reconcile()
	if err != nil {
		return err
	}

	if err := output.FormatResult(cmd.OutOrStdout(), res, format); err != nil {
		return err
	}

	if f.outputFile != "" {
		path := reportPath(f.outputFile)
		if err := report.WriteFile(path, res); err != nil {
			return err
		}
		app.Logger().Info().Str("path", path).Msg("Wrote reconciliation workbook")
	}

	return nil
}

// resolveBook returns the plan book for this run. An explicit --plans file
// wins over the app configuration.
func resolveBook(app application.Application, path string) (*commission.Book, error) {
	if path != "" {
		return commission.LoadFile(path)
	}
	return app.Book()
}

// reportPath resolves the workbook destination. An existing directory gets
// the conventional report name appended.
func reportPath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, constants.DefaultReportName)
	}
	return path
}

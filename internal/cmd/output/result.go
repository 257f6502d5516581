package output

import (
	"fmt"
	"io"

	"github.com/revenueops/crosscheck/internal/cmd/table"
	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/constants"
	"github.com/revenueops/crosscheck/pkg/reconcile"
)

// FormatResult writes a reconciliation result in the requested format.
// Table output renders the console report: the run summary, the top
// discrepancies, and (wide only) the data quality warnings. JSON and YAML
// emit the result itself.
func FormatResult(w io.Writer, res *reconcile.Result, format Format) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, res)
	}

	formatter := NewFormatter(format)
	wide := format == FormatWide

	fmt.Fprintf(w, "Reconciliation %s\n\n", res.Fingerprint)
	if err := formatter.Format(w, table.SummaryToTableData(res)); err != nil {
		return err
	}

	if len(res.Discrepancies) > 0 {
		limit := constants.MaxDiscrepancyRows
		if wide {
			limit = 0
		}
		fmt.Fprintf(w, "\nDiscrepancies\n")
		if err := formatter.Format(w, table.DiscrepanciesToTableData(res.Discrepancies, limit)); err != nil {
			return err
		}
		if hidden := len(res.Discrepancies) - limit; limit > 0 && hidden > 0 {
			fmt.Fprintf(w, "... and %d more\n", hidden)
		}
	}

	if wide && len(res.Quality.Warnings) > 0 {
		fmt.Fprintf(w, "\nData Quality Warnings\n")
		if err := formatter.Format(w, table.WarningsToTableData(res.Quality.Warnings)); err != nil {
			return err
		}
	}

	return nil
}

// FormatPlans writes the commission plan book in the requested format.
func FormatPlans(w io.Writer, book *commission.Book, format Format) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, book.Plans())
	}
	return NewFormatter(format).Format(w, table.PlansToTableData(book))
}

// Package table builds console table data for CLI commands.
package table

import (
	"strings"

	"github.com/revenueops/crosscheck/pkg/reconcile"
	"github.com/revenueops/crosscheck/pkg/records"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// SummaryToTableData converts a result's run summary to metric/value rows.
func SummaryToTableData(res *reconcile.Result) Data {
	rows := [][]string{
		{"Deals", FormatCount(res.Summary.Deals)},
		{"Transactions", FormatCount(res.Summary.Transactions)},
	}
	for _, category := range []records.TransactionCategory{
		records.CategoryRegular,
		records.CategoryWithholding,
		records.CategoryForecast,
		records.CategorySplit,
	} {
		if n := res.Summary.ByCategory[category]; n > 0 {
			rows = append(rows, []string{"  " + Title(category.String()), FormatCount(n)})
		}
	}
	rows = append(rows,
		[]string{"Matched Deals", FormatCount(res.Summary.Matches)},
		[]string{"Centrally Processed", FormatCount(res.Central.Count)},
		[]string{"Unmatched Deals", FormatCount(res.Summary.UnmatchedDeals)},
		[]string{"Unmatched Transactions", FormatCount(res.Summary.UnmatchedTransactions)},
		[]string{"Discrepancies", FormatCount(res.Summary.Discrepancies)},
		[]string{"Total Impact", FormatMoney(res.Summary.TotalImpact)},
		[]string{"Data Quality Score", FormatScore(res.Quality.Score)},
	)

	return Data{
		Headers:         []string{"Metric", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// DiscrepanciesToTableData converts discrepancies to table rows, at most
// limit rows when limit is positive.
func DiscrepanciesToTableData(discrepancies []reconcile.Discrepancy, limit int) Data {
	n := len(discrepancies)
	if limit > 0 && n > limit {
		n = limit
	}

	rows := make([][]string, 0, n)
	for _, d := range discrepancies[:n] {
		rows = append(rows, []string{
			Title(d.Kind.String()),
			strings.ToUpper(d.Severity.String()),
			discrepancySubject(d),
			FormatMoney(d.Expected),
			FormatMoney(d.Actual),
			FormatMoney(d.Impact),
			Truncate(d.Detail, 60),
		})
	}

	return Data{
		Headers: []string{"Kind", "Severity", "Deal", "Expected", "Actual", "Impact", "Detail"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignDefault, // Kind
			AlignCenter,  // Severity
			AlignDefault, // Deal
			AlignRight,   // Expected
			AlignRight,   // Actual
			AlignRight,   // Impact
			AlignDefault, // Detail
		},
	}
}

// discrepancySubject labels the deal a discrepancy points at, preferring the
// name over the identifier.
func discrepancySubject(d reconcile.Discrepancy) string {
	if d.DealName != "" {
		return Truncate(d.DealName, 40)
	}
	return d.DealID
}

// WarningsToTableData converts data quality warnings to table rows.
func WarningsToTableData(warnings []reconcile.Warning) Data {
	rows := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		rows = append(rows, []string{Truncate(w.Subject, 40), w.Field, w.Message})
	}

	return Data{
		Headers: []string{"Subject", "Field", "Message"},
		Rows:    rows,
	}
}

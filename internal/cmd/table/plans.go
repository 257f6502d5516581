package table

import (
	"fmt"
	"strings"

	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/records"
)

// PlansToTableData converts a commission plan book to one row per year.
func PlansToTableData(book *commission.Book) Data {
	plans := book.Plans()
	rows := make([][]string, 0, len(plans))
	for i := range plans {
		p := &plans[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Year),
			FormatRate(p.Rate(records.DealTypeSoftware)),
			FormatRate(p.Rate(records.DealTypeManagedServicesPublic)),
			FormatRate(p.Rate(records.DealTypeManagedServicesPrivate)),
			FormatRate(p.Rate(records.DealTypeRecurringServices)),
			FormatRate(p.Rate(records.DealTypeIndexation)),
			FormatRate(p.Rate(records.DealTypeChurn)),
			FormatRate(p.PSRate),
			FormatMoney(p.AnnualQuota),
			kickerLadder(p.Kickers),
		})
	}

	return Data{
		Headers: []string{
			"Year", "Software", "Managed (Public)", "Managed (Private)",
			"Recurring PS", "Indexation", "Churn", "PS Flat", "Annual Quota", "Kickers",
		},
		Rows: rows,
		ColumnAlignment: []Align{
			AlignDefault, // Year
			AlignRight,   // Software
			AlignRight,   // Managed (Public)
			AlignRight,   // Managed (Private)
			AlignRight,   // Recurring PS
			AlignRight,   // Indexation
			AlignRight,   // Churn
			AlignRight,   // PS Flat
			AlignRight,   // Annual Quota
			AlignDefault, // Kickers
		},
	}
}

// kickerLadder renders the overperformance ladder on one line.
func kickerLadder(steps []commission.KickerStep) string {
	if len(steps) == 0 {
		return "-"
	}

	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("%g%%: %gx", s.Threshold, s.Multiplier)
	}
	return strings.Join(parts, ", ")
}

package table

import (
	"strings"
	"testing"

	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/reconcile"
	"github.com/revenueops/crosscheck/pkg/records"
)

func TestSummaryToTableData(t *testing.T) {
	res := &reconcile.Result{
		Central: reconcile.CentralSummary{Count: 1},
		Quality: reconcile.Quality{Score: 92.5},
		Summary: reconcile.Summary{
			Deals:        4,
			Transactions: 3,
			ByCategory: map[records.TransactionCategory]int{
				records.CategoryRegular:  2,
				records.CategoryForecast: 1,
			},
			Matches:               2,
			UnmatchedDeals:        1,
			UnmatchedTransactions: 0,
			Discrepancies:         1,
			TotalImpact:           1234.5,
		},
	}

	data := SummaryToTableData(res)

	if len(data.Headers) != 2 || data.Headers[0] != "Metric" {
		t.Fatalf("Headers = %v, want [Metric Value]", data.Headers)
	}
	// Two category rows: regular and forecast. Withholding and split are
	// absent and must not appear.
	if len(data.Rows) != 11 {
		t.Fatalf("len(Rows) = %d, want 11: %v", len(data.Rows), data.Rows)
	}
	if data.Rows[0][0] != "Deals" || data.Rows[0][1] != "4" {
		t.Errorf("Rows[0] = %v, want [Deals 4]", data.Rows[0])
	}
	if data.Rows[2][0] != "  Regular" || data.Rows[2][1] != "2" {
		t.Errorf("Rows[2] = %v, want [  Regular 2]", data.Rows[2])
	}
	if data.Rows[3][0] != "  Forecast" {
		t.Errorf("Rows[3] = %v, want the forecast category", data.Rows[3])
	}
	for _, row := range data.Rows {
		if strings.Contains(row[0], "Withholding") && strings.HasPrefix(row[0], "  ") {
			t.Errorf("empty withholding category rendered: %v", row)
		}
	}
	if data.Rows[9][0] != "Total Impact" || data.Rows[9][1] != "€1,234.50" {
		t.Errorf("Rows[9] = %v, want [Total Impact €1,234.50]", data.Rows[9])
	}
	if data.Rows[10][0] != "Data Quality Score" || data.Rows[10][1] != "92.5" {
		t.Errorf("Rows[10] = %v, want [Data Quality Score 92.5]", data.Rows[10])
	}
}

func TestDiscrepanciesToTableData(t *testing.T) {
	discrepancies := []reconcile.Discrepancy{
		{
			Kind:     reconcile.KindCalculationError,
			DealID:   "9000000001",
			DealName: "Acme Renewal",
			Expected: 1500,
			Actual:   1250,
			Impact:   250,
			Severity: reconcile.SeverityMedium,
			Detail:   strings.Repeat("x", 70),
		},
		{
			Kind:     reconcile.KindMissingDeal,
			DealID:   "TX-7",
			Actual:   420,
			Impact:   420,
			Severity: reconcile.SeverityHigh,
			Detail:   "transaction has no matching deal",
		},
		{
			Kind:     reconcile.KindDataQuality,
			DealID:   "TX-8",
			Severity: reconcile.SeverityLow,
		},
	}

	data := DiscrepanciesToTableData(discrepancies, 0)
	if len(data.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(data.Rows))
	}

	row := data.Rows[0]
	if row[0] != "Calculation Error" {
		t.Errorf("kind = %q, want Calculation Error", row[0])
	}
	if row[1] != "MEDIUM" {
		t.Errorf("severity = %q, want MEDIUM", row[1])
	}
	if row[2] != "Acme Renewal" {
		t.Errorf("deal = %q, want the deal name over the ID", row[2])
	}
	if row[3] != "€1,500.00" || row[4] != "€1,250.00" || row[5] != "€250.00" {
		t.Errorf("amounts = %v, want formatted euros", row[3:6])
	}
	if len(row[6]) != 60 || !strings.HasSuffix(row[6], "...") {
		t.Errorf("detail = %q, want 60 bytes ellipsized", row[6])
	}

	// Rows without a name fall back to the identifier.
	if data.Rows[1][2] != "TX-7" {
		t.Errorf("deal = %q, want TX-7", data.Rows[1][2])
	}

	limited := DiscrepanciesToTableData(discrepancies, 2)
	if len(limited.Rows) != 2 {
		t.Errorf("len(Rows) = %d with limit 2, want 2", len(limited.Rows))
	}
}

func TestWarningsToTableData(t *testing.T) {
	warnings := []reconcile.Warning{
		{Subject: "Acme Renewal", Field: "close_date", Message: "missing close date"},
	}

	data := WarningsToTableData(warnings)
	if len(data.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(data.Rows))
	}
	if data.Rows[0][2] != "missing close date" {
		t.Errorf("message = %q, want the warning message", data.Rows[0][2])
	}
}

func TestPlansToTableData(t *testing.T) {
	data := PlansToTableData(commission.DefaultBook())

	if len(data.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want one row per shipped year", len(data.Rows))
	}
	first := data.Rows[0]
	if first[0] != "2023" {
		t.Errorf("year = %q, want 2023", first[0])
	}
	if first[1] != "7.3%" {
		t.Errorf("software rate = %q, want 7.3%%", first[1])
	}
	if first[9] != "-" {
		t.Errorf("kickers = %q, want - for a plan without a ladder", first[9])
	}
	if data.Rows[1][9] != "120%: 1.2x, 200%: 2x" {
		t.Errorf("kickers = %q, want the 2024 ladder", data.Rows[1][9])
	}
	if data.Rows[2][8] != "€1,700,000.00" {
		t.Errorf("quota = %q, want the 2025 quota", data.Rows[2][8])
	}
}

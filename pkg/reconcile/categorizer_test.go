package reconcile_test

import (
	"testing"

	"github.com/revenueops/crosscheck/pkg/reconcile"
	"github.com/revenueops/crosscheck/pkg/records"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		tx   records.Transaction
		want records.TransactionCategory
	}{
		{
			name: "plain regular",
			tx:   records.Transaction{ID: "100", Commission: 500},
			want: records.CategoryRegular,
		},
		{
			name: "forecast source",
			tx:   records.Transaction{ID: "100", SourceKind: records.SourceForecast},
			want: records.CategoryForecast,
		},
		{
			name: "forecast source beats split flag",
			tx:   records.Transaction{ID: "100", SourceKind: records.SourceForecast, Split: "yes"},
			want: records.CategoryForecast,
		},
		{
			name: "kicker alone is not a forecast",
			tx:   records.Transaction{ID: "100", PerformanceKicker: 1.2, Commission: 500},
			want: records.CategoryRegular,
		},
		{
			name: "withholding source",
			tx:   records.Transaction{ID: "100", SourceKind: records.SourceWithholding},
			want: records.CategoryWithholding,
		},
		{
			name: "paired paid and withheld fields",
			tx:   records.Transaction{ID: "100", Paid: 350, Withheld: 350},
			want: records.CategoryWithholding,
		},
		{
			name: "paired paid and full commission",
			tx:   records.Transaction{ID: "100", Paid: 350, FullCommission: 700},
			want: records.CategoryWithholding,
		},
		{
			name: "paid alone stays regular",
			tx:   records.Transaction{ID: "100", Paid: 350},
			want: records.CategoryRegular,
		},
		{
			name: "truthy split indicator",
			tx:   records.Transaction{ID: "100", Split: "Yes"},
			want: records.CategorySplit,
		},
		{
			name: "falsy split indicator",
			tx:   records.Transaction{ID: "100", Split: "no"},
			want: records.CategoryRegular,
		},
		{
			name: "withholding beats split",
			tx:   records.Transaction{ID: "100", SourceKind: records.SourceWithholding, Split: "yes"},
			want: records.CategoryWithholding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := tt.tx
			if got := reconcile.Categorize(&tx); got != tt.want {
				t.Errorf("Categorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndicatorsMatch(t *testing.T) {
	ind := reconcile.NewIndicators()

	tests := []struct {
		name      string
		input     string
		indicator string
		match     bool
	}{
		{"cpi increase", "CPI Increase 2025 @ Bank Frick", "cpi increase", true},
		{"fp increase", "FP Increase 2024 @ Acme", "fp increase", true},
		{"fixed price increase", "Fixed Price Increase @ Example AG", "fixed price increase", true},
		{"indexation", "Annual Indexation @ Example", "indexation", true},
		{"case insensitive", "cpi INCREASE @ somewhere", "cpi increase", true},
		{"ordinary deal", "Upsell @ Example Corp", "", false},
		{"empty name", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicator, ok := ind.Match(tt.input)
			if ok != tt.match {
				t.Fatalf("Match(%q) matched = %v, want %v", tt.input, ok, tt.match)
			}
			if indicator != tt.indicator {
				t.Errorf("Match(%q) indicator = %q, want %q", tt.input, indicator, tt.indicator)
			}
			if got := ind.IsCentrallyProcessed(tt.input); got != tt.match {
				t.Errorf("IsCentrallyProcessed(%q) = %v, want %v", tt.input, got, tt.match)
			}
		})
	}
}

func TestIndicatorsCustomMarkers(t *testing.T) {
	ind := reconcile.NewIndicators("Price Adjustment", "  uplift  ", "")

	markers := ind.Markers()
	if len(markers) != 2 {
		t.Fatalf("Markers() returned %d markers, want 2: %v", len(markers), markers)
	}

	if _, ok := ind.Match("Annual price adjustment @ Example"); !ok {
		t.Error("expected custom marker to match case-insensitively")
	}
	if _, ok := ind.Match("CPI Increase 2025 @ Bank"); ok {
		t.Error("default markers should be replaced by custom ones")
	}
}

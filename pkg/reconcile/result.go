package reconcile

import (
	"fmt"

	"github.com/revenueops/crosscheck/pkg/records"
)

// Result is the immutable outcome of one reconciliation run. Same input
// produces a bit-identical Result, including the fingerprint.
type Result struct {
	// Fingerprint is a deterministic UUID derived from the input records.
	Fingerprint string

	// Matches in creation order.
	Matches []*Match

	// Discrepancies found by validation and generation, in emission order.
	Discrepancies []Discrepancy

	// Central summarizes centrally-processed records handled in Phase 0.
	Central CentralSummary

	// Withholding summarizes withholding transactions handled in Phase 4.
	Withholding WithholdingSummary

	// Forecast summarizes forecast transactions analyzed in Phase 6.
	Forecast ForecastSummary

	// UnmatchedDeals are non-central deals no transaction claimed.
	UnmatchedDeals []*records.Deal

	// UnmatchedTransactions are matchable transactions that claimed no deal.
	UnmatchedTransactions []*records.Transaction

	// Quality carries the input quality score and its warnings.
	Quality Quality

	// Summary carries the run counts.
	Summary Summary
}

// Summary holds the run counts.
type Summary struct {
	Deals                 int                                 `json:"deals" yaml:"deals"`                                   // Deals presented to the run
	Transactions          int                                 `json:"transactions" yaml:"transactions"`                     // Transactions presented to the run
	ByCategory            map[records.TransactionCategory]int `json:"by_category" yaml:"by_category"`                       // Transactions per assigned category
	Matches               int                                 `json:"matches" yaml:"matches"`                               // Matches created, central included
	UnmatchedDeals        int                                 `json:"unmatched_deals" yaml:"unmatched_deals"`               // Non-central deals never claimed
	UnmatchedTransactions int                                 `json:"unmatched_transactions" yaml:"unmatched_transactions"` // Matchable transactions never attached
	Discrepancies         int                                 `json:"discrepancies" yaml:"discrepancies"`                   // Findings emitted
	TotalImpact           float64                             `json:"total_impact" yaml:"total_impact"`                     // Summed discrepancy impact
}

// CentralSummary aggregates the centrally-processed records of a run.
type CentralSummary struct {
	Count           int                       `json:"count" yaml:"count"`                       // Central transactions handled
	TotalCommission float64                   `json:"total_commission" yaml:"total_commission"` // Their summed commission
	ByIndicator     map[string]IndicatorStats `json:"by_indicator" yaml:"by_indicator"`         // Per-indicator breakdown
}

// IndicatorStats is the per-indicator slice of the central summary.
type IndicatorStats struct {
	Count      int     `json:"count" yaml:"count"`           // Transactions carrying the indicator
	Commission float64 `json:"commission" yaml:"commission"` // Their summed commission
}

// WithholdingSummary aggregates the withholding transactions of a run.
type WithholdingSummary struct {
	PaidTotal     float64                `json:"paid_total" yaml:"paid_total"`         // Summed paid portions
	WithheldTotal float64                `json:"withheld_total" yaml:"withheld_total"` // Summed withheld portions
	FullTotal     float64                `json:"full_total" yaml:"full_total"`         // Summed estimated full commissions
	MatchedCount  int                    `json:"matched_count" yaml:"matched_count"`   // Withholding transactions attached to a match
	Unmatched     []*records.Transaction `json:"-" yaml:"-"`                           // Withholding transactions no match owned
}

// ForecastSummary aggregates the forecast transactions of a run.
type ForecastSummary struct {
	TotalCommission     float64                `json:"total_commission" yaml:"total_commission"`         // Summed forecast commission
	KickerTotal         float64                `json:"kicker_total" yaml:"kicker_total"`                 // Summed kicker payouts
	WithKickers         int                    `json:"with_kickers" yaml:"with_kickers"`                 // Forecast transactions carrying a kicker
	Year                int                    `json:"year,omitempty" yaml:"year,omitempty"`             // Dominant close year the projection uses
	Attainment          float64                `json:"attainment" yaml:"attainment"`                     // Projected quota attainment percent
	ProjectedMultiplier float64                `json:"projected_multiplier" yaml:"projected_multiplier"` // Plan-ladder multiplier at that attainment
	Transactions        []*records.Transaction `json:"-" yaml:"-"`                                       // The forecast transactions, input order
}

// HasDiscrepancies reports whether the run found anything to review.
func (r *Result) HasDiscrepancies() bool {
	return len(r.Discrepancies) > 0
}

// DiscrepanciesBySeverity returns the discrepancies of one severity, in
// emission order.
func (r *Result) DiscrepanciesBySeverity(severity Severity) []Discrepancy {
	var out []Discrepancy
	for _, d := range r.Discrepancies {
		if d.Severity == severity {
			out = append(out, d)
		}
	}
	return out
}

// DiscrepanciesOfKind returns the discrepancies of one kind, in emission
// order.
func (r *Result) DiscrepanciesOfKind(kind DiscrepancyKind) []Discrepancy {
	var out []Discrepancy
	for _, d := range r.Discrepancies {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// String returns a one-line human-readable digest of the run.
func (r *Result) String() string {
	return fmt.Sprintf("%d deals, %d transactions: %d matches, %d unmatched deals, %d discrepancies (impact %.2f)",
		r.Summary.Deals, r.Summary.Transactions, r.Summary.Matches,
		r.Summary.UnmatchedDeals, r.Summary.Discrepancies, r.Summary.TotalImpact)
}

// resultBuilder assembles a Result across the pipeline phases.
type resultBuilder struct {
	result *Result
}

func newResultBuilder() *resultBuilder {
	return &resultBuilder{
		result: &Result{
			Central: CentralSummary{ByIndicator: make(map[string]IndicatorStats)},
			Summary: Summary{ByCategory: make(map[records.TransactionCategory]int)},
		},
	}
}

func (b *resultBuilder) withFingerprint(fingerprint string) *resultBuilder {
	b.result.Fingerprint = fingerprint
	return b
}

func (b *resultBuilder) withMatches(matches []*Match) *resultBuilder {
	b.result.Matches = matches
	return b
}

func (b *resultBuilder) withDiscrepancies(discrepancies []Discrepancy) *resultBuilder {
	b.result.Discrepancies = discrepancies
	return b
}

func (b *resultBuilder) withCentral(central CentralSummary) *resultBuilder {
	b.result.Central = central
	return b
}

func (b *resultBuilder) withWithholding(withholding WithholdingSummary) *resultBuilder {
	b.result.Withholding = withholding
	return b
}

func (b *resultBuilder) withForecast(forecast ForecastSummary) *resultBuilder {
	b.result.Forecast = forecast
	return b
}

func (b *resultBuilder) withUnmatchedDeals(deals []*records.Deal) *resultBuilder {
	b.result.UnmatchedDeals = deals
	return b
}

func (b *resultBuilder) withUnmatchedTransactions(transactions []*records.Transaction) *resultBuilder {
	b.result.UnmatchedTransactions = transactions
	return b
}

func (b *resultBuilder) withQuality(quality Quality) *resultBuilder {
	b.result.Quality = quality
	return b
}

func (b *resultBuilder) withCounts(deals int, byCategory map[records.TransactionCategory]int) *resultBuilder {
	b.result.Summary.Deals = deals
	total := 0
	for _, n := range byCategory {
		total += n
	}
	b.result.Summary.Transactions = total
	b.result.Summary.ByCategory = byCategory
	return b
}

// build freezes the summary counts and returns the assembled Result.
func (b *resultBuilder) build() *Result {
	summary := &b.result.Summary
	summary.Matches = len(b.result.Matches)
	summary.UnmatchedDeals = len(b.result.UnmatchedDeals)
	summary.UnmatchedTransactions = len(b.result.UnmatchedTransactions)
	summary.Discrepancies = len(b.result.Discrepancies)
	summary.TotalImpact = 0
	for _, d := range b.result.Discrepancies {
		summary.TotalImpact += d.Impact
	}
	return b.result
}

package reconcile

import "github.com/revenueops/crosscheck/pkg/constants"

// DiscrepancyKind is the closed set of discrepancy classifications.
type DiscrepancyKind string

// String returns the string representation of a DiscrepancyKind.
func (k DiscrepancyKind) String() string {
	return string(k)
}

// Discrepancy kinds. The set is closed; downstream consumers switch over it
// exhaustively.
const (
	KindMissingDeal         DiscrepancyKind = "missing_deal"
	KindCalculationError    DiscrepancyKind = "calculation_error"
	KindWrongRate           DiscrepancyKind = "wrong_rate"
	KindWithholdingMismatch DiscrepancyKind = "withholding_mismatch"
	KindDataQuality         DiscrepancyKind = "data_quality"
)

// Severity grades how much a discrepancy matters for review ordering.
type Severity string

// String returns the string representation of a Severity.
func (s Severity) String() string {
	return string(s)
}

// Severities from most to least urgent.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Discrepancy is one reportable finding of the run.
type Discrepancy struct {
	Kind       DiscrepancyKind `json:"kind" yaml:"kind"`                                 // Classification, closed set
	DealID     string          `json:"deal_id,omitempty" yaml:"deal_id,omitempty"`       // Deal the finding concerns, when known
	DealName   string          `json:"deal_name,omitempty" yaml:"deal_name,omitempty"`   // Deal or transaction name for the reader
	Expected   float64         `json:"expected" yaml:"expected"`                         // Expected commission in the reporting currency
	Actual     float64         `json:"actual" yaml:"actual"`                             // Actual commission in the reporting currency
	Impact     float64         `json:"impact" yaml:"impact"`                             // Money at stake, always non-negative
	Severity   Severity        `json:"severity" yaml:"severity"`                         // Review urgency
	Detail     string          `json:"detail,omitempty" yaml:"detail,omitempty"`         // Human-readable explanation
	Confidence float64         `json:"confidence,omitempty" yaml:"confidence,omitempty"` // Confidence of the source match, 0 when none
}

// varianceSeverity grades a relative variance: above 50% high, above 20%
// medium, low otherwise.
func varianceSeverity(variance float64) Severity {
	switch {
	case variance > constants.SeverityHighVariance:
		return SeverityHigh
	case variance > constants.SeverityMediumVariance:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// impactSeverity grades a missing-deal impact: above 100 euros high, medium
// otherwise.
func impactSeverity(impact float64) Severity {
	if impact > constants.MissingDealHighImpact {
		return SeverityHigh
	}
	return SeverityMedium
}

package records

import (
	"github.com/agentstation/utc"
)

// Transaction represents one commission ledger line normalized for
// reconciliation. Field presence depends on the source file kind: withholding
// rows carry the Paid/Withheld/FullCommission triple, forecast rows may carry
// an explicit KickerAmount.
type Transaction struct {
	ID                string              `json:"id" yaml:"id"`                                                     // Provider unique identifier (CRM-derived for CRM-sourced rows)
	DealName          string              `json:"deal_name" yaml:"deal_name"`                                       // Deal name as recorded by the commission provider
	CompanyID         string              `json:"company_id,omitempty" yaml:"company_id,omitempty"`                 // Customer identifier from the composite customer field
	CompanyName       string              `json:"company_name,omitempty" yaml:"company_name,omitempty"`             // Customer display name from the composite customer field
	CloseDate         utc.Time            `json:"close_date" yaml:"close_date"`                                     // Close date the provider attributes the commission to
	RevenueStart      *utc.Time           `json:"revenue_start,omitempty" yaml:"revenue_start,omitempty"`           // Revenue start date when the provider carries one
	Commission        float64             `json:"commission" yaml:"commission"`                                     // Commission amount in the reporting currency
	Currency          string              `json:"currency,omitempty" yaml:"currency,omitempty"`                     // Reporting currency code
	Rate              float64             `json:"rate,omitempty" yaml:"rate,omitempty"`                             // Commission rate as a fraction (0.073 for 7.3%)
	ACV               float64             `json:"acv,omitempty" yaml:"acv,omitempty"`                               // Annual contract value the commission was computed from
	Split             string              `json:"split,omitempty" yaml:"split,omitempty"`                           // Raw split indicator as provided
	PerformanceKicker float64             `json:"performance_kicker,omitempty" yaml:"performance_kicker,omitempty"` // Kicker multiplier, 1.0 when absent
	KickerAmount      float64             `json:"kicker_amount,omitempty" yaml:"kicker_amount,omitempty"`           // Explicit kicker euros on forecast rows
	Paid              float64             `json:"paid,omitempty" yaml:"paid,omitempty"`                             // Paid portion on withholding rows
	Withheld          float64             `json:"withheld,omitempty" yaml:"withheld,omitempty"`                     // Withheld portion on withholding rows
	FullCommission    float64             `json:"full_commission,omitempty" yaml:"full_commission,omitempty"`       // Estimated full commission on withholding rows
	SourceFile        string              `json:"source_file,omitempty" yaml:"source_file,omitempty"`               // File the row was ingested from
	SourceKind        SourceKind          `json:"source_kind" yaml:"source_kind"`                                   // File-level hint attached by the provider
	Category          TransactionCategory `json:"category,omitempty" yaml:"category,omitempty"`                     // Assigned exactly once by the categorizer
}

// HasIdentity reports whether the transaction carries at least one
// identifying field. A transaction with neither ID nor deal name cannot be
// matched or reported against.
func (t *Transaction) HasIdentity() bool {
	return t.ID != "" || t.DealName != ""
}

// HasWithholding reports whether the transaction carries the paired paid and
// withheld amounts that mark a withholding row.
func (t *Transaction) HasWithholding() bool {
	return t.Paid > 0 && t.Withheld > 0
}

// KickerValue returns the kicker payout recorded on the transaction: the
// explicit kicker amount when one is present, otherwise the commission uplift
// implied by a performance kicker multiplier above 1.0.
func (t *Transaction) KickerValue() float64 {
	uplift := 0.0
	if t.PerformanceKicker > 1 {
		uplift = t.Commission * (t.PerformanceKicker - 1)
	}
	if t.KickerAmount > uplift {
		return t.KickerAmount
	}
	return uplift
}

// HasKicker reports whether the transaction carries any kicker payout.
func (t *Transaction) HasKicker() bool {
	return t.KickerValue() > 0
}

// SourceKind is the file-level hint a provider attaches to every transaction
// it produces, derived from the source file name.
type SourceKind string

// String returns the string representation of a SourceKind.
func (k SourceKind) String() string {
	return string(k)
}

// Source kinds in the order providers probe for them.
const (
	SourceRegular     SourceKind = "regular"
	SourceWithholding SourceKind = "withholding"
	SourceForecast    SourceKind = "forecast"
)

// TransactionCategory is the closed set of categories the categorizer assigns.
// The zero value means the transaction has not been categorized yet.
type TransactionCategory string

// String returns the string representation of a TransactionCategory.
func (c TransactionCategory) String() string {
	if c == "" {
		return "uncategorized"
	}
	return string(c)
}

// Transaction categories. Every categorized transaction carries exactly one.
const (
	CategoryRegular     TransactionCategory = "regular"
	CategoryWithholding TransactionCategory = "withholding"
	CategoryForecast    TransactionCategory = "forecast"
	CategorySplit       TransactionCategory = "split"
)

package reconcile

import (
	"fmt"
	"math"
	"time"

	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/constants"
	"github.com/revenueops/crosscheck/pkg/records"
)

// validator checks matched commissions against their expected values and
// prices deals the run could not match. The plan book is consulted only for
// missing deals, where no transaction rate exists; matched transactions are
// validated against their own recorded rates.
type validator struct {
	book    *commission.Book
	epsilon float64
}

func newValidator(book *commission.Book, epsilon float64) *validator {
	return &validator{book: book, epsilon: epsilon}
}

// validate returns the discrepancies for one match. Central matches skip
// commission validation and get the revenue-start check instead.
func (v *validator) validate(m *Match) []Discrepancy {
	if m.Central {
		return v.validateRevenueStart(m)
	}
	return v.validateCommission(m)
}

// validateCommission compares the summed commission of the match's regular
// and split transactions with the expected commission.
func (v *validator) validateCommission(m *Match) []Discrepancy {
	isPS := m.Deal != nil && m.Deal.IsProfessionalServices()

	var attached []*records.Transaction
	actual := 0.0
	for _, t := range m.Transactions {
		if t.Category == records.CategoryRegular || t.Category == records.CategorySplit {
			attached = append(attached, t)
			actual += t.Commission
		}
	}

	expected := 0.0
	if isPS {
		expected = m.Deal.Amount * constants.ProfessionalServicesRate
	} else {
		for _, t := range attached {
			expected += t.ACV * t.Rate
		}
	}

	if expected == 0 {
		if actual == 0 {
			return nil
		}
		return []Discrepancy{{
			Kind:       KindDataQuality,
			DealID:     m.DealID,
			DealName:   v.matchName(m),
			Expected:   0,
			Actual:     actual,
			Impact:     actual,
			Severity:   SeverityMedium,
			Detail:     fmt.Sprintf("commission %.2f paid with no expected basis (no ACV or rate on record)", actual),
			Confidence: m.Confidence,
		}}
	}

	diff := math.Abs(actual - expected)
	if diff <= v.epsilon {
		return nil
	}

	variance := diff / expected
	kind := KindCalculationError
	detail := fmt.Sprintf("expected %.2f, got %.2f (variance %.1f%%)", expected, actual, variance*100)
	if isPS && v.hasNonFlatRate(attached) {
		kind = KindWrongRate
		detail = fmt.Sprintf("professional services deal commissioned off the %.0f%% flat rate: %s",
			constants.ProfessionalServicesRate*100, detail)
	}

	return []Discrepancy{{
		Kind:       kind,
		DealID:     m.DealID,
		DealName:   v.matchName(m),
		Expected:   expected,
		Actual:     actual,
		Impact:     diff,
		Severity:   varianceSeverity(variance),
		Detail:     detail,
		Confidence: m.Confidence,
	}}
}

// hasNonFlatRate reports whether any attached transaction carries a rate
// other than the flat professional services rate. Absent rates do not count.
func (v *validator) hasNonFlatRate(transactions []*records.Transaction) bool {
	for _, t := range transactions {
		if t.Rate != 0 && math.Abs(t.Rate-constants.ProfessionalServicesRate) > 1e-9 {
			return true
		}
	}
	return false
}

// validateRevenueStart checks that a centrally-processed increase starts its
// revenue on January 1 of the year after its close date.
func (v *validator) validateRevenueStart(m *Match) []Discrepancy {
	var discrepancies []Discrepancy
	for _, t := range m.Transactions {
		if t.CloseDate.IsZero() || t.RevenueStart == nil {
			continue
		}
		wantYear := t.CloseDate.Year() + 1
		rs := t.RevenueStart
		if rs.Year() == wantYear && rs.Month() == time.January && rs.Day() == 1 {
			continue
		}
		detail := fmt.Sprintf("revenue starts %s, expected %d-01-01 for an increase closed in %d",
			rs.Format(constants.DateFormat), wantYear, t.CloseDate.Year())
		discrepancies = append(discrepancies, Discrepancy{
			Kind:       KindDataQuality,
			DealID:     m.DealID,
			DealName:   t.DealName,
			Impact:     0,
			Severity:   SeverityMedium,
			Detail:     detail,
			Confidence: m.Confidence,
		})
	}
	return discrepancies
}

// missingDeal prices a deal no transaction claimed. Impact is the commission
// the deal should have produced, not its gross amount.
func (v *validator) missingDeal(d *records.Deal) Discrepancy {
	expected := v.expectedCommission(d)
	detail := "no commission transaction found"
	if !d.CloseDate.IsZero() {
		detail = fmt.Sprintf("no commission transaction found for deal closed %s",
			d.CloseDate.Format(constants.DateFormat))
	}
	return Discrepancy{
		Kind:     KindMissingDeal,
		DealID:   d.ID,
		DealName: d.Name,
		Expected: expected,
		Actual:   0,
		Impact:   expected,
		Severity: impactSeverity(expected),
		Detail:   detail,
	}
}

// expectedCommission estimates a deal's commission from the plan book. Only
// missing deals are priced this way.
func (v *validator) expectedCommission(d *records.Deal) float64 {
	year := d.CloseYear()
	if d.IsProfessionalServices() {
		return d.Amount * v.book.PSRate(year)
	}
	return d.Amount * v.book.Rate(d.Type, year)
}

// matchName returns the deal name to report for a match.
func (v *validator) matchName(m *Match) string {
	if m.Deal != nil {
		return m.Deal.Name
	}
	if len(m.Transactions) > 0 {
		return m.Transactions[0].DealName
	}
	return ""
}

// Package commission holds the yearly commission plans: per-type rates, the
// flat professional services rate, quota targets and overperformance kicker
// ladders. The reconciliation engine consults the book only where no
// transaction rate is available, never to second-guess a matched transaction.
package commission

import (
	"sort"

	"github.com/revenueops/crosscheck/pkg/errors"
	"github.com/revenueops/crosscheck/pkg/records"
)

// Plan is the commission plan for one calendar year.
type Plan struct {
	Year        int                          `json:"year" yaml:"year"`                           // Calendar year the plan covers
	Rates       map[records.DealType]float64 `json:"rates" yaml:"rates"`                         // Commission rate per deal type, as fractions
	PSRate      float64                      `json:"ps_rate" yaml:"ps_rate"`                     // Flat professional services rate
	AnnualQuota float64                      `json:"annual_quota" yaml:"annual_quota"`           // Annual quota target in the reporting currency
	Kickers     []KickerStep                 `json:"kickers,omitempty" yaml:"kickers,omitempty"` // Overperformance ladder, ascending by threshold
}

// KickerStep is one rung of the overperformance ladder.
type KickerStep struct {
	Threshold  float64 `json:"threshold" yaml:"threshold"`   // Attainment percent at which the step engages
	Multiplier float64 `json:"multiplier" yaml:"multiplier"` // Commission multiplier paid at and above the threshold
}

// Rate returns the plan's commission rate for a deal type, 0 for types the
// plan does not cover.
func (p *Plan) Rate(t records.DealType) float64 {
	if p == nil {
		return 0
	}
	return p.Rates[t]
}

// Book is a set of yearly commission plans with deterministic year ordering.
type Book struct {
	plans map[int]*Plan
	years []int // ascending
}

// NewBook creates a Book from the given plans. Plans must have distinct
// positive years.
func NewBook(plans ...Plan) (*Book, error) {
	b := &Book{plans: make(map[int]*Plan, len(plans))}
	for i := range plans {
		p := plans[i]
		if p.Year <= 0 {
			return nil, &errors.ValidationError{
				Field:   "plan.Year",
				Value:   p.Year,
				Message: "must be positive",
			}
		}
		if _, exists := b.plans[p.Year]; exists {
			return nil, &errors.ValidationError{
				Field:   "plan.Year",
				Value:   p.Year,
				Message: "already exists",
			}
		}
		sort.Slice(p.Kickers, func(i, j int) bool {
			return p.Kickers[i].Threshold < p.Kickers[j].Threshold
		})
		b.plans[p.Year] = &p
		b.years = append(b.years, p.Year)
	}
	sort.Ints(b.years)
	return b, nil
}

// Plan returns the plan for a year. When the year has no plan the closest
// earlier year's plan applies; years before the first plan get the earliest
// one. Returns nil only for an empty book.
func (b *Book) Plan(year int) *Plan {
	if b == nil || len(b.years) == 0 {
		return nil
	}
	if p, ok := b.plans[year]; ok {
		return p
	}
	chosen := b.years[0]
	for _, y := range b.years {
		if y > year {
			break
		}
		chosen = y
	}
	return b.plans[chosen]
}

// Rate returns the commission rate for a deal type in a given year, following
// the same year fallback as Plan.
func (b *Book) Rate(t records.DealType, year int) float64 {
	return b.Plan(year).Rate(t)
}

// PSRate returns the flat professional services rate for a year.
func (b *Book) PSRate(year int) float64 {
	p := b.Plan(year)
	if p == nil {
		return 0
	}
	return p.PSRate
}

// Years returns the plan years in ascending order.
func (b *Book) Years() []int {
	if b == nil {
		return nil
	}
	years := make([]int, len(b.years))
	copy(years, b.years)
	return years
}

// Plans returns the plans in ascending year order.
func (b *Book) Plans() []Plan {
	if b == nil {
		return nil
	}
	plans := make([]Plan, 0, len(b.years))
	for _, y := range b.years {
		plans = append(plans, *b.plans[y])
	}
	return plans
}

// DefaultBook returns the shipped commission plans.
func DefaultBook() *Book {
	book, err := NewBook(
		Plan{
			Year: 2023,
			Rates: map[records.DealType]float64{
				records.DealTypeSoftware:               0.073,
				records.DealTypeManagedServicesPublic:  0.059,
				records.DealTypeManagedServicesPrivate: 0.044,
				records.DealTypeRecurringServices:      0.029,
				records.DealTypeIndexation:             0.044,
				records.DealTypeChurn:                  0.044,
			},
			PSRate:      0.01,
			AnnualQuota: 1_500_000,
		},
		Plan{
			Year: 2024,
			Rates: map[records.DealType]float64{
				records.DealTypeSoftware:               0.073,
				records.DealTypeManagedServicesPublic:  0.059,
				records.DealTypeManagedServicesPrivate: 0.073,
				records.DealTypeRecurringServices:      0.029,
				records.DealTypeIndexation:             0.088,
				records.DealTypeChurn:                  0.044,
			},
			PSRate:      0.01,
			AnnualQuota: 1_500_000,
			Kickers: []KickerStep{
				{Threshold: 120, Multiplier: 1.2},
				{Threshold: 200, Multiplier: 2.0},
			},
		},
		Plan{
			Year: 2025,
			Rates: map[records.DealType]float64{
				records.DealTypeSoftware:               0.070,
				records.DealTypeManagedServicesPublic:  0.074,
				records.DealTypeManagedServicesPrivate: 0.084,
				records.DealTypeRecurringServices:      0.031,
				records.DealTypeIndexation:             0.093,
				records.DealTypeChurn:                  0.044,
			},
			PSRate:      0.01,
			AnnualQuota: 1_700_000,
			Kickers: []KickerStep{
				{Threshold: 100, Multiplier: 1.1},
				{Threshold: 130, Multiplier: 1.2},
				{Threshold: 160, Multiplier: 1.3},
				{Threshold: 180, Multiplier: 1.4},
				{Threshold: 200, Multiplier: 1.5},
			},
		},
	)
	if err != nil {
		panic(err) // shipped plans are static and valid
	}
	return book
}

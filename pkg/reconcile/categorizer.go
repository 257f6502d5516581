package reconcile

import (
	"strings"

	"github.com/revenueops/crosscheck/pkg/records"
)

// Categorize assigns a transaction its category. First match wins:
// forecast source, withholding evidence, split indicator, regular.
// Every transaction gets exactly one category.
func Categorize(t *records.Transaction) records.TransactionCategory {
	switch {
	case t.SourceKind == records.SourceForecast:
		return records.CategoryForecast
	case t.SourceKind == records.SourceWithholding:
		return records.CategoryWithholding
	case t.Paid != 0 && (t.Withheld != 0 || t.FullCommission != 0):
		return records.CategoryWithholding
	case records.TruthySplit(t.Split):
		return records.CategorySplit
	default:
		return records.CategoryRegular
	}
}

// Indicators matches deal and transaction names against the configured
// central-processing markers. CPI and fixed price increases are booked by a
// central team and intentionally have no counterpart in the deal source, so
// records carrying an indicator leave the normal matching universe.
type Indicators struct {
	markers []string
}

// DefaultIndicatorMarkers are the central-processing markers recognized out
// of the box.
var DefaultIndicatorMarkers = []string{
	"cpi increase",
	"fp increase",
	"fixed price increase",
	"indexation",
}

// NewIndicators creates an indicator set. Markers match case-insensitively as
// substrings; empty markers are dropped. No markers means the default set.
func NewIndicators(markers ...string) *Indicators {
	if len(markers) == 0 {
		markers = DefaultIndicatorMarkers
	}
	ind := &Indicators{markers: make([]string, 0, len(markers))}
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			ind.markers = append(ind.markers, m)
		}
	}
	return ind
}

// Match returns the first configured indicator contained in the name, and
// whether one matched.
func (ind *Indicators) Match(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, m := range ind.markers {
		if strings.Contains(lower, m) {
			return m, true
		}
	}
	return "", false
}

// IsCentrallyProcessed reports whether the name carries any indicator.
func (ind *Indicators) IsCentrallyProcessed(name string) bool {
	_, ok := ind.Match(name)
	return ok
}

// Markers returns the configured markers.
func (ind *Indicators) Markers() []string {
	out := make([]string, len(ind.markers))
	copy(out, ind.markers)
	return out
}

package reconcile

import (
	"fmt"
	"sync"

	"github.com/revenueops/crosscheck/pkg/records"
)

// MatchStrategy identifies which rule produced a match.
type MatchStrategy string

// String returns the string representation of a MatchStrategy.
func (s MatchStrategy) String() string {
	return string(s)
}

// Match strategies in pipeline order.
const (
	StrategyCentral         MatchStrategy = "central"
	StrategyIdentifier      MatchStrategy = "identifier"
	StrategyNameDate        MatchStrategy = "name_date"
	StrategyCompanyDate     MatchStrategy = "company_date"
	StrategySplitIdentifier MatchStrategy = "split_identifier"
	StrategySplitNameDate   MatchStrategy = "split_name_date"
)

// Match binds one deal (or one synthetic central identifier) to the
// transactions claimed for it. Confidence is a 0-100 reporting score, never
// an admission threshold.
type Match struct {
	DealID       string                 // Claimed deal identifier, synthetic for central matches
	Strategy     MatchStrategy          // Rule that created the match
	Confidence   float64                // 0-100 score of the creating rule
	Deal         *records.Deal          // nil for synthetic central matches
	Transactions []*records.Transaction // Claimed transactions, extension appends here
	Central      bool                   // Centrally-processed marker
	Indicator    string                 // Matched central indicator, central matches only
}

// Extend appends a transaction to an existing match.
func (m *Match) Extend(tx *records.Transaction) {
	m.Transactions = append(m.Transactions, tx)
}

// Registry enforces the at-most-one-match-per-deal invariant. All claims go
// through it; the index gives O(1) ownership checks and the list preserves
// creation order for deterministic output.
type Registry struct {
	mu      sync.RWMutex
	index   map[string]*Match
	matches []*Match
}

// NewRegistry creates an empty match registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]*Match),
	}
}

// Claim atomically claims a deal identifier for a transaction. An unclaimed
// identifier creates, indexes and appends a new match and returns it with
// true. An already claimed identifier returns the existing match with false
// so the caller decides whether to extend it.
func (r *Registry) Claim(dealID string, strategy MatchStrategy, confidence float64, tx *records.Transaction, deal *records.Deal) (*Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.index[dealID]; ok {
		return existing, false
	}

	match := &Match{
		DealID:       dealID,
		Strategy:     strategy,
		Confidence:   confidence,
		Deal:         deal,
		Transactions: []*records.Transaction{tx},
	}
	r.index[dealID] = match
	r.matches = append(r.matches, match)
	return match, true
}

// IsClaimed reports whether a deal identifier is already owned by a match.
func (r *Registry) IsClaimed(dealID string) bool {
	r.mu.RLock()
	_, ok := r.index[dealID]
	r.mu.RUnlock()
	return ok
}

// Lookup returns the match owning a deal identifier, if any.
func (r *Registry) Lookup(dealID string) (*Match, bool) {
	r.mu.RLock()
	match, ok := r.index[dealID]
	r.mu.RUnlock()
	return match, ok
}

// Matches returns all matches in creation order.
func (r *Registry) Matches() []*Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.verify()
	out := make([]*Match, len(r.matches))
	copy(out, r.matches)
	return out
}

// Len returns the number of matches.
func (r *Registry) Len() int {
	r.mu.RLock()
	length := len(r.matches)
	r.mu.RUnlock()
	return length
}

// verify panics when index and list diverge. Divergence cannot happen through
// the Registry API; hitting it means a programming defect, not bad input.
func (r *Registry) verify() {
	if len(r.index) != len(r.matches) {
		panic(fmt.Sprintf("reconcile: match registry divergence: index has %d entries, list has %d",
			len(r.index), len(r.matches)))
	}
}

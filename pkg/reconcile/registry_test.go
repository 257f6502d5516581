package reconcile

import (
	"testing"

	"github.com/revenueops/crosscheck/pkg/records"
)

func TestRegistryClaim(t *testing.T) {
	r := NewRegistry()
	deal := &records.Deal{ID: "1234567890", Name: "Upsell @ Example"}
	first := &records.Transaction{ID: "1234567890", Commission: 500}
	second := &records.Transaction{ID: "1234567890", Commission: 250}

	m, created := r.Claim(deal.ID, StrategyIdentifier, 100, first, deal)
	if !created {
		t.Fatal("first Claim should create a match")
	}
	if m.DealID != deal.ID || m.Strategy != StrategyIdentifier || m.Confidence != 100 {
		t.Errorf("match = %+v, want deal %s via %s at 100", m, deal.ID, StrategyIdentifier)
	}
	if len(m.Transactions) != 1 || m.Transactions[0] != first {
		t.Fatalf("new match should hold the claiming transaction, got %d", len(m.Transactions))
	}

	existing, created := r.Claim(deal.ID, StrategyNameDate, 95, second, deal)
	if created {
		t.Fatal("second Claim for the same deal must not create a new match")
	}
	if existing != m {
		t.Fatal("second Claim should return the owning match")
	}
	if existing.Strategy != StrategyIdentifier || existing.Confidence != 100 {
		t.Error("an existing match must keep its original strategy and confidence")
	}

	existing.Extend(second)
	if len(m.Transactions) != 2 {
		t.Fatalf("Extend should append, got %d transactions", len(m.Transactions))
	}
}

func TestRegistryIsClaimedAndLookup(t *testing.T) {
	r := NewRegistry()
	if r.IsClaimed("1234567890") {
		t.Error("empty registry should claim nothing")
	}
	if _, ok := r.Lookup("1234567890"); ok {
		t.Error("Lookup on empty registry should miss")
	}

	tx := &records.Transaction{ID: "1234567890"}
	r.Claim("1234567890", StrategyIdentifier, 100, tx, nil)

	if !r.IsClaimed("1234567890") {
		t.Error("claimed deal should report claimed")
	}
	if m, ok := r.Lookup("1234567890"); !ok || m == nil {
		t.Error("Lookup should find the claimed deal's match")
	}
	if r.IsClaimed("other") {
		t.Error("unrelated deal should not be claimed")
	}
}

func TestRegistryMatchesOrder(t *testing.T) {
	r := NewRegistry()
	ids := []string{"charlie", "alpha", "bravo"}
	for _, id := range ids {
		r.Claim(id, StrategyIdentifier, 100, &records.Transaction{ID: id}, nil)
	}

	matches := r.Matches()
	if len(matches) != len(ids) {
		t.Fatalf("Matches() returned %d, want %d", len(matches), len(ids))
	}
	for i, m := range matches {
		if m.DealID != ids[i] {
			t.Errorf("matches[%d].DealID = %s, want %s (creation order)", i, m.DealID, ids[i])
		}
	}
	if r.Len() != len(ids) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(ids))
	}

	// The returned slice is a copy; mutating it must not reach the registry.
	matches[0] = nil
	if again := r.Matches(); again[0] == nil {
		t.Error("Matches() must return a fresh slice each call")
	}
}

func TestRegistryDivergencePanics(t *testing.T) {
	r := NewRegistry()
	r.Claim("1234567890", StrategyIdentifier, 100, &records.Transaction{ID: "1234567890"}, nil)

	// Corrupt the registry the way a bypassing caller would.
	r.matches = append(r.matches, &Match{DealID: "rogue"})

	defer func() {
		if recover() == nil {
			t.Fatal("Matches() must panic when index and list diverge")
		}
	}()
	r.Matches()
}

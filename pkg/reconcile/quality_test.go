package reconcile

import (
	"testing"

	"github.com/agentstation/utc"

	"github.com/revenueops/crosscheck/pkg/records"
)

func TestScoreQuality(t *testing.T) {
	clean := func() ([]*records.Deal, []*records.Transaction) {
		return []*records.Deal{
				{ID: "1234567890", Name: "A @ X"},
				{ID: "2345678901", Name: "B @ Y"},
			}, []*records.Transaction{
				{ID: "1234567890", CloseDate: date("2024-05-10")},
				{ID: "2345678901", CloseDate: date("2024-06-10")},
			}
	}

	t.Run("clean input scores full", func(t *testing.T) {
		deals, transactions := clean()
		q := scoreQuality(deals, transactions)
		if q.Score != 100 {
			t.Errorf("Score = %.1f, want 100", q.Score)
		}
		if len(q.Warnings) != 0 {
			t.Errorf("expected no warnings, got %+v", q.Warnings)
		}
	})

	t.Run("missing deal identifier deducts", func(t *testing.T) {
		deals, transactions := clean()
		deals[0].ID = ""
		q := scoreQuality(deals, transactions)
		if q.Score != 85 { // 30 x 1/2
			t.Errorf("Score = %.1f, want 85", q.Score)
		}
		if len(q.Warnings) != 1 || q.Warnings[0].Field != "id" {
			t.Fatalf("expected one id warning, got %+v", q.Warnings)
		}
		if q.Warnings[0].Subject != "A @ X" {
			t.Errorf("warning subject should fall back to the deal name, got %q", q.Warnings[0].Subject)
		}
	})

	t.Run("truncated deal identifier deducts", func(t *testing.T) {
		deals, transactions := clean()
		deals[1].ID = "12345"
		q := scoreQuality(deals, transactions)
		if q.Score != 90 { // 20 x 1/2
			t.Errorf("Score = %.1f, want 90", q.Score)
		}
	})

	t.Run("missing close date deducts", func(t *testing.T) {
		deals, transactions := clean()
		transactions[1].CloseDate = utc.Time{}
		q := scoreQuality(deals, transactions)
		if q.Score != 95 { // 10 x 1/2
			t.Errorf("Score = %.1f, want 95", q.Score)
		}
	})

	t.Run("deductions stack and floor at zero", func(t *testing.T) {
		deals := []*records.Deal{{Name: "No ID @ X"}}
		transactions := []*records.Transaction{{ID: "1234567890"}}
		q := scoreQuality(deals, transactions)
		if q.Score != 60 { // 100 - 30 - 10
			t.Errorf("Score = %.1f, want 60", q.Score)
		}
		if q.Score < 0 {
			t.Error("score must never go negative")
		}
	})

	t.Run("empty input scores full", func(t *testing.T) {
		q := scoreQuality(nil, nil)
		if q.Score != 100 {
			t.Errorf("Score = %.1f, want 100", q.Score)
		}
	})
}

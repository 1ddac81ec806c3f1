package memory

import (
	"context"
	"testing"
	"time"

	"lifelog/internal/core"
)

func TestMemoryLedgerReplace(t *testing.T) {
	ctx := context.Background()
	s := New()

	if rows, err := s.ReadLedger(ctx); err != nil || len(rows) != 0 {
		t.Fatalf("unexpected initial ledger: rows=%v err=%v", rows, err)
	}

	txs := []core.Transaction{{
		ID: 1, Title: "Coffee", Amount: core.Money{Cents: 250},
		Category: core.CategoryFood, Kind: core.KindExpense,
		Date: time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
	}}
	if err := s.ReplaceLedger(ctx, txs); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.ReplaceLedger(ctx, txs[:0]); err != nil {
		t.Fatalf("replace: %v", err)
	}

	rows, _ := s.ReadLedger(ctx)
	if len(rows) != 1+5 {
		t.Fatalf("expected header and totals only, got %v", rows)
	}
	if s.Exports() != 2 {
		t.Fatalf("exports = %d, want 2", s.Exports())
	}

	rows[0][0] = "mutated"
	again, _ := s.ReadLedger(ctx)
	if again[0][0] != "ID" {
		t.Fatalf("ReadLedger must return a copy")
	}
}

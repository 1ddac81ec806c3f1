package sheets

import (
	"testing"
	"time"

	"lifelog/internal/core"
)

func TestLedgerRows(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 2, d, 10, 0, 0, 0, time.UTC) }
	txs := []core.Transaction{
		{ID: 2, Title: "Lunch", Amount: core.Money{Cents: 1250}, Category: core.CategoryFood, Kind: core.KindExpense, Date: day(3)},
		{ID: 1, Title: "Salary", Amount: core.Money{Cents: 100000}, Category: core.CategoryOthers, Kind: core.KindIncome, Date: day(1)},
		{ID: 3, Title: "Lent", Amount: core.Money{Cents: 500}, Category: core.CategoryOthers, Kind: core.KindLoan, Date: day(3)},
	}

	rows := LedgerRows(txs)
	if len(rows) != 1+3+5 {
		t.Fatalf("unexpected row count %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][5] != "Amount" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	wantOrder := []string{"1", "2", "3"}
	for i, id := range wantOrder {
		if rows[i+1][0] != id {
			t.Fatalf("row %d: got id %s, want %s", i+1, rows[i+1][0], id)
		}
	}
	if rows[1][1] != "2025-02-01" || rows[2][5] != "12.50" {
		t.Fatalf("unexpected formatting: %v %v", rows[1], rows[2])
	}
	if got := rows[len(rows)-1]; got[2] != "Balance" || got[5] != "982.50" {
		t.Fatalf("unexpected balance row %v", got)
	}
}

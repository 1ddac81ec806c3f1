package sheets

import (
	"sort"
	"time"

	"lifelog/internal/core"
)

// LedgerHeader is the first row of every exported ledger.
var LedgerHeader = []string{"ID", "Date", "Title", "Type", "Category", "Amount"}

// LedgerRows renders txs oldest first, followed by a blank row and the
// income, expense, loan and balance totals.
func LedgerRows(txs []core.Transaction) [][]string {
	sorted := append([]core.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	rows := make([][]string, 0, len(sorted)+6)
	rows = append(rows, append([]string(nil), LedgerHeader...))
	for _, tx := range sorted {
		rows = append(rows, []string{
			tx.ID.String(),
			tx.Date.UTC().Format(time.DateOnly),
			tx.Title,
			string(tx.Kind),
			string(tx.Category),
			tx.Amount.String(),
		})
	}

	totals := core.Summarize(txs)
	rows = append(rows,
		[]string{},
		[]string{"", "", "Income", "", "", totals.Income.String()},
		[]string{"", "", "Expense", "", "", totals.Expense.String()},
		[]string{"", "", "Loan", "", "", totals.Loan.String()},
		[]string{"", "", "Balance", "", "", totals.Balance.String()},
	)
	return rows
}

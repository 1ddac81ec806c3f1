package sheets

import (
	"context"

	"lifelog/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerWriter replaces the exported money ledger with txs.
	LedgerWriter interface {
		ReplaceLedger(ctx context.Context, txs []core.Transaction) error
	}

	// LedgerReader returns the rows last exported, header first.
	LedgerReader interface {
		ReadLedger(ctx context.Context) ([][]string, error)
	}
)

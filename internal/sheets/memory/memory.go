package memory

import (
	"context"
	"sync"

	"lifelog/internal/core"
	ports "lifelog/internal/sheets"
)

// Store keeps the last exported ledger in memory.
type Store struct {
	mu      sync.Mutex
	rows    [][]string
	exports int
}

var (
	_ ports.LedgerWriter = (*Store)(nil)
	_ ports.LedgerReader = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// ReplaceLedger renders txs and keeps the result.
func (s *Store) ReplaceLedger(_ context.Context, txs []core.Transaction) error {
	rows := ports.LedgerRows(txs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.exports++
	return nil
}

func (s *Store) ReadLedger(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// Exports counts ReplaceLedger calls.
func (s *Store) Exports() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exports
}

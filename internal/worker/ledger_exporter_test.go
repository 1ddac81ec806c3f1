package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelog/internal/amqp"
	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/kv/memory"
	sheetsmem "lifelog/internal/sheets/memory"
)

type failingWriter struct{}

func (failingWriter) ReplaceLedger(context.Context, []core.Transaction) error {
	return errors.New("sheets unavailable")
}

type failingReader struct{}

func (failingReader) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage offline")
}

func storeWithSample(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New("t")
	raw, err := document.Encode(document.Sample(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), document.Key, raw))
	return store
}

func TestHandleTrackerChangedExportsMoney(t *testing.T) {
	ctx := context.Background()
	ledger := sheetsmem.New()
	e := NewLedgerExporter(storeWithSample(t), "", ledger, nil)

	require.NoError(t, e.HandleTrackerChanged(ctx, amqp.NewTrackerChangedMessage("money", "create", "1", 1)))
	assert.Equal(t, 1, ledger.Exports())

	rows, _ := ledger.ReadLedger(ctx)
	assert.Equal(t, "Scholarship", rows[1][2])

	require.NoError(t, e.HandleTrackerChanged(ctx, amqp.NewTrackerChangedMessage("money", "update", "1", 2)))
	assert.Equal(t, 1, ledger.Exports(), "an unchanged ledger is not rewritten")
}

func TestHandleTrackerChangedIgnoresOtherTrackers(t *testing.T) {
	ledger := sheetsmem.New()
	e := NewLedgerExporter(storeWithSample(t), "", ledger, nil)

	require.NoError(t, e.HandleTrackerChanged(context.Background(), amqp.NewTrackerChangedMessage("streak", "create", "3", 1)))
	assert.Equal(t, 0, ledger.Exports())
}

func TestExportAllReportsWriterErrors(t *testing.T) {
	e := NewLedgerExporter(storeWithSample(t), "", failingWriter{}, nil)
	_, err := e.ExportAll(context.Background())
	assert.Error(t, err)
}

func TestExportAllCorruptDocument(t *testing.T) {
	store := memory.New("t")
	require.NoError(t, store.Set(context.Background(), document.Key, "{"))
	e := NewLedgerExporter(store, "", sheetsmem.New(), nil)
	_, err := e.ExportAll(context.Background())
	assert.ErrorIs(t, err, document.ErrCorruptDocument)
}

func TestExportAllUnreadableStoreDoesNotExport(t *testing.T) {
	ledger := sheetsmem.New()
	e := NewLedgerExporter(failingReader{}, "", ledger, nil)

	exported, err := e.ExportAll(context.Background())
	assert.ErrorIs(t, err, errStoreUnreadable)
	assert.False(t, exported)
	assert.Equal(t, 0, ledger.Exports())
}

func TestRunExportsPeriodically(t *testing.T) {
	ledger := sheetsmem.New()
	e := NewLedgerExporter(storeWithSample(t), "", ledger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return ledger.Exports() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)

	assert.Error(t, e.Run(context.Background(), 0))
}

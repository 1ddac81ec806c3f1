package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/kv/memory"
)

// gatedStore blocks every Set until release is closed and records the
// values it was asked to write.
type gatedStore struct {
	mu      sync.Mutex
	release chan struct{}
	started chan struct{}
	writes  []string
	err     error
}

func newGatedStore() *gatedStore {
	return &gatedStore{release: make(chan struct{}), started: make(chan struct{}, 16)}
}

func (g *gatedStore) Set(ctx context.Context, _ string, value string) error {
	g.started <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.writes = append(g.writes, value)
	return g.err
}

func (g *gatedStore) Remove(context.Context, string) error { return nil }

func (g *gatedStore) Writes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.writes...)
}

func docWithStreaks(n int) document.Document {
	d := document.New()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		d.Streaks = append(d.Streaks, core.Streak{ID: core.ID(i), Title: "s", StartDate: at, LastIncrement: at, Count: 1})
	}
	return d
}

func TestPersisterSaveAndFlush(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	store := memory.New("t")

	p := NewPersister(store, "", time.Second, nil)
	p.Save(docWithStreaks(2))
	require.NoError(t, p.Flush(ctx))

	raw, found, err := store.Get(ctx, document.Key)
	require.NoError(t, err)
	require.True(t, found)
	d, err := document.Decode(raw)
	require.NoError(t, err)
	assert.Len(t, d.Streaks, 2)

	require.NoError(t, p.Close(ctx))
}

func TestPersisterCoalescesPendingSnapshots(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	store := newGatedStore()
	p := NewPersister(store, "k", time.Minute, nil)

	p.Save(docWithStreaks(1))
	<-store.started

	// Queued while the first write is in flight; only the newest survives.
	p.Save(docWithStreaks(2))
	p.Save(docWithStreaks(3))
	close(store.release)

	require.NoError(t, p.Flush(ctx))
	require.NoError(t, p.Close(ctx))

	writes := store.Writes()
	require.Len(t, writes, 2)
	last, err := document.Decode(writes[len(writes)-1])
	require.NoError(t, err)
	assert.Len(t, last.Streaks, 3, "the newest snapshot must be written last")
}

func TestPersisterDropsFailedWrites(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	store := newGatedStore()
	store.err = errors.New("quota exceeded")
	close(store.release)

	p := NewPersister(store, "k", time.Second, nil)
	p.Save(docWithStreaks(1))
	require.NoError(t, p.Flush(ctx), "write errors are logged, not returned")
	require.NoError(t, p.Close(ctx))

	assert.Len(t, store.Writes(), 1, "a failed write is not retried")
}

func TestPersisterFlushHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := newGatedStore()
	p := NewPersister(store, "k", time.Minute, nil)
	p.Save(docWithStreaks(1))
	<-store.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Flush(ctx), context.DeadlineExceeded)

	close(store.release)
	require.NoError(t, p.Close(context.Background()))
}

func TestPersisterCloseWritesPending(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	store := memory.New("t")
	p := NewPersister(store, "k", time.Second, nil)
	p.Save(docWithStreaks(4))
	require.NoError(t, p.Close(ctx))

	raw, found, _ := store.Get(ctx, "k")
	require.True(t, found)
	d, err := document.Decode(raw)
	require.NoError(t, err)
	assert.Len(t, d.Streaks, 4)
}

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"lifelog/internal/document"
	"lifelog/internal/kv"
	"lifelog/internal/log"
)

// ErrPersisterClosed is returned by Flush once the writer has stopped with
// snapshots still unwritten.
var ErrPersisterClosed = errors.New("persister closed")

// Persister writes document snapshots to a store in the background.
//
// Save never blocks on the store. Snapshots queued while a write is in
// flight are coalesced so only the newest one is written next; an older
// snapshot is never written after a newer one. Failed writes are logged and
// dropped.
type Persister struct {
	store   kv.Writer
	key     string
	timeout time.Duration
	logger  *log.Logger

	mu      sync.Mutex
	pending *string
	queued  uint64
	written uint64
	changed chan struct{}

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewPersister starts the background writer.
func NewPersister(store kv.Writer, key string, timeout time.Duration, logger *log.Logger) *Persister {
	if key == "" {
		key = document.Key
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.Discard()
	}
	p := &Persister{
		store:   store,
		key:     key,
		timeout: timeout,
		logger:  logger.WithComponent(log.ComponentPersist),
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Save queues a snapshot of d.
func (p *Persister) Save(d document.Document) {
	raw, err := document.Encode(d)
	if err != nil {
		p.logger.Error("Failed to encode document", log.FieldError, err)
		return
	}
	p.mu.Lock()
	p.pending = &raw
	p.queued++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.writePending()
		case <-p.stop:
			p.writePending()
			return
		}
	}
}

func (p *Persister) writePending() {
	p.mu.Lock()
	raw, seq := p.pending, p.queued
	p.pending = nil
	p.mu.Unlock()
	if raw == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	err := p.store.Set(ctx, p.key, *raw)
	cancel()
	if err != nil {
		p.logger.Error("Failed to persist document",
			log.FieldKey, p.key,
			log.FieldError, err)
	} else {
		p.logger.Debug("Document persisted",
			log.FieldKey, p.key,
			log.FieldBytes, len(*raw))
	}

	p.mu.Lock()
	p.written = seq
	close(p.changed)
	p.changed = make(chan struct{})
	p.mu.Unlock()
}

// Flush waits until every snapshot queued before the call has been handed
// to the store. Write errors are not reported here; they were logged.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.queued
	for p.written < target {
		changed := p.changed
		p.mu.Unlock()
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			p.mu.Lock()
			ok := p.written >= target
			p.mu.Unlock()
			if !ok {
				return ErrPersisterClosed
			}
			return nil
		}
		p.mu.Lock()
	}
	p.mu.Unlock()
	return nil
}

// Close writes the last pending snapshot and stops the writer.
func (p *Persister) Close(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.stop) })
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

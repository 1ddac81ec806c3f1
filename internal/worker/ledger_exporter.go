package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lifelog/internal/amqp"
	"lifelog/internal/document"
	"lifelog/internal/kv"
	"lifelog/internal/log"
	"lifelog/internal/sheets"
)

// errStoreUnreadable stops an export that would mirror an empty ledger in
// place of the stored one.
var errStoreUnreadable = errors.New("document store unreadable")

// Trackers whose changes can alter the ledger.
var ledgerTrackers = map[string]bool{
	"money":    true,
	"document": true,
}

// LedgerExporter mirrors the money ledger of the stored document to a
// LedgerWriter. An export whose rendered rows equal the previous one is
// skipped.
type LedgerExporter struct {
	store  kv.Reader
	key    string
	writer sheets.LedgerWriter
	clock  func() time.Time
	logger *log.Logger

	mu   sync.Mutex
	last string
}

func NewLedgerExporter(store kv.Reader, key string, writer sheets.LedgerWriter, logger *log.Logger) *LedgerExporter {
	if key == "" {
		key = document.Key
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerExporter{
		store:  store,
		key:    key,
		writer: writer,
		clock:  time.Now,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleTrackerChanged exports the ledger when msg concerns money. Other
// trackers are acknowledged without work.
func (e *LedgerExporter) HandleTrackerChanged(ctx context.Context, msg *amqp.TrackerChangedMessage) error {
	if !ledgerTrackers[msg.Tracker] {
		e.logger.DebugContext(ctx, "Ignoring tracker change",
			log.FieldTracker, msg.Tracker,
			log.FieldOperation, msg.Operation)
		return nil
	}
	e.logger.InfoContext(ctx, "Processing tracker change",
		log.FieldTracker, msg.Tracker,
		log.FieldOperation, msg.Operation,
		log.FieldRecordID, msg.RecordID,
		log.FieldVersion, msg.Version)
	_, err := e.ExportAll(ctx)
	return err
}

// ExportAll reads the document and writes its ledger. It reports whether a
// write happened.
func (e *LedgerExporter) ExportAll(ctx context.Context) (bool, error) {
	d, origin, err := document.Load(ctx, e.store, e.key, e.clock(), e.logger)
	if err != nil {
		return false, fmt.Errorf("load document: %w", err)
	}
	if origin == document.OriginUnreadable {
		return false, fmt.Errorf("load document %s: %w", e.key, errStoreUnreadable)
	}

	fingerprint := fingerprintRows(sheets.LedgerRows(d.Money))
	e.mu.Lock()
	unchanged := fingerprint == e.last
	e.mu.Unlock()
	if unchanged {
		e.logger.DebugContext(ctx, "Ledger unchanged, skipping export")
		return false, nil
	}

	if err := e.writer.ReplaceLedger(ctx, d.Money); err != nil {
		return false, fmt.Errorf("export ledger: %w", err)
	}

	e.mu.Lock()
	e.last = fingerprint
	e.mu.Unlock()
	e.logger.InfoContext(ctx, "Ledger exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(d.Money))
	return true, nil
}

// Run exports on every tick until ctx is cancelled, as a fallback for
// missed messages.
func (e *LedgerExporter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("export interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := e.ExportAll(ctx); err != nil {
				e.logger.ErrorContext(ctx, "Periodic export failed", log.FieldError, err)
			}
		}
	}
}

func fingerprintRows(rows [][]string) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Join(r, "\x1f"))
		b.WriteByte('\x1e')
	}
	return b.String()
}

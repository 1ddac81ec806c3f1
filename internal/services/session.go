package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lifelog/internal/amqp"
	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/kv"
	"lifelog/internal/log"
)

// Saver receives every committed document. *Persister implements it.
type Saver interface {
	Save(d document.Document)
}

// EventPublisher announces committed changes. *amqp.Client implements it.
type EventPublisher interface {
	PublishTrackerChanged(ctx context.Context, msg *amqp.TrackerChangedMessage) error
}

// Tracker names used in logs and change events.
const (
	TrackerStreak     = "streak"
	TrackerMoney      = "money"
	TrackerSkills     = "skills"
	TrackerAttendance = "attendance"
	TrackerHabits     = "habits"
	TrackerJournal    = "journal"
	TrackerDocument   = "document"
)

type SessionConfig struct {
	// Key overrides document.Key.
	Key    string
	Saver  Saver
	Events EventPublisher
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Location decides calendar days for the habit reset. Defaults to time.Local.
	Location *time.Location
	Logger   *log.Logger
}

// Session owns the in-memory document. Every mutation is computed from the
// current state by a pure function, committed under the session lock and
// then handed to the Saver; a failed mutation leaves the state untouched.
type Session struct {
	mu      sync.Mutex
	doc     document.Document
	version uint64
	// unreadable holds back automatic saves until something is committed
	// explicitly, so a store outage never replaces the stored document.
	unreadable bool

	saver   Saver
	events  EventPublisher
	clock   func() time.Time
	habits  core.DayBoundary
	logger  *log.Logger
	changes *log.StructuredLogger
}

// Open loads the document and brings it up to date: streaks roll over and
// the habit checklist is reset for a new day. An imported or refreshed
// document is saved straight away.
func Open(ctx context.Context, store kv.Reader, cfg SessionConfig) (*Session, error) {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	logger := cfg.Logger.WithComponent(log.ComponentSession)

	doc, origin, err := document.Load(ctx, store, cfg.Key, cfg.Clock(), logger)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s := &Session{
		doc:        doc,
		unreadable: origin == document.OriginUnreadable,
		saver:      cfg.Saver,
		events:     cfg.Events,
		clock:      cfg.Clock,
		habits:     core.CalendarDay{Location: cfg.Location},
		logger:     logger,
		changes:    log.NewStructuredLogger(logger),
	}

	logger.InfoContext(ctx, "Session opened",
		"origin", origin.String(),
		"streaks", len(doc.Streaks),
		"transactions", len(doc.Money))

	if s.unreadable {
		logger.WarnContext(ctx, "Store unreadable, automatic saves held back", log.FieldKey, cfg.Key)
	}
	if origin == document.OriginLegacy {
		_ = s.commit(ctx, TrackerDocument, log.OpImport, func(*document.Document) (string, error) { return "", nil })
	}
	s.Refresh(ctx)
	return s, nil
}

// Now is the session clock.
func (s *Session) Now() time.Time {
	return s.clock()
}

// Version increases with every committed change.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot returns a deep copy of the current document.
func (s *Session) Snapshot() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Dashboard summarizes the current document.
func (s *Session) Dashboard() core.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.BuildDashboard(s.doc.Trackers())
}

// RefreshResult reports what Refresh changed.
type RefreshResult struct {
	StreaksAdvanced int  `json:"streaksAdvanced"`
	HabitsReset     bool `json:"habitsReset"`
}

// Refresh applies streak rollover and the daily habit reset at the current
// time. It is what every screen did on focus; calling it again with the
// same clock changes nothing. Nothing happens while the store was unreadable
// at open and no change has been committed since.
func (s *Session) Refresh(ctx context.Context) RefreshResult {
	var res RefreshResult
	now := s.clock()
	_ = s.commit(ctx, TrackerDocument, log.OpRollover, func(d *document.Document) (string, error) {
		if s.unreadable {
			return "", errUnchanged
		}
		streaks, advanced := core.RolloverAll(d.Streaks, now)
		board, reset := d.Habits.DailyReset(now, s.habits)
		if advanced == 0 && !reset {
			return "", errUnchanged
		}
		d.Streaks = streaks
		d.Habits = board
		res = RefreshResult{StreaksAdvanced: advanced, HabitsReset: reset}
		return "", nil
	})
	if res.StreaksAdvanced > 0 || res.HabitsReset {
		s.logger.InfoContext(ctx, "Trackers refreshed",
			log.FieldOperation, log.OpRollover,
			"streaks_advanced", res.StreaksAdvanced,
			"habits_reset", res.HabitsReset)
	}
	return res
}

// Replace swaps the whole document, e.g. for seeding.
func (s *Session) Replace(ctx context.Context, d document.Document) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.commit(ctx, TrackerDocument, log.OpUpdate, func(cur *document.Document) (string, error) {
		*cur = d.Clone()
		return "", nil
	})
}

var errUnchanged = errors.New("unchanged")

// commit runs fn on a shallow copy of the document. fn must build new
// slices rather than write into the existing ones.
func (s *Session) commit(ctx context.Context, tracker, op string, fn func(d *document.Document) (string, error)) error {
	s.mu.Lock()
	next := s.doc
	recordID, err := fn(&next)
	if errors.Is(err, errUnchanged) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = next
	s.unreadable = false
	s.version++
	version := s.version
	if s.saver != nil {
		s.saver.Save(next)
	}
	s.mu.Unlock()

	if op != log.OpRollover {
		s.changes.LogChange(ctx, tracker, op, recordID)
	}
	s.publish(ctx, tracker, op, recordID, version)
	return nil
}

func (s *Session) publish(ctx context.Context, tracker, op, recordID string, version uint64) {
	if s.events == nil {
		return
	}
	msg := amqp.NewTrackerChangedMessage(tracker, op, recordID, version)
	if err := s.events.PublishTrackerChanged(ctx, msg); err != nil {
		s.changes.LogError(ctx, "Failed to publish change event", err, op,
			log.NewFields().WithChange(tracker, op, recordID))
	}
}

// Package document defines the consolidated tracker document and how it is
// read from and written to a kv.Store.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lifelog/internal/core"
	"lifelog/internal/kv"
	"lifelog/internal/log"
)

const (
	// Key is where the consolidated document lives.
	Key = "@myAppData"

	// CurrentVersion is written into every encoded document.
	CurrentVersion = 1
)

// ErrCorruptDocument marks a stored value that cannot be decoded.
var ErrCorruptDocument = errors.New("corrupt document")

// Document holds every tracker collection.
type Document struct {
	Version    int                 `json:"version"`
	Skills     []core.Section      `json:"skills"`
	Money      []core.Transaction  `json:"money"`
	Streaks    []core.Streak       `json:"streak"`
	Journal    []core.JournalEntry `json:"journal"`
	Attendance []core.Subject      `json:"attendance"`
	Habits     core.HabitBoard     `json:"habits"`
}

// New returns an empty document. Collections are non-nil so they encode as [].
func New() Document {
	return Document{
		Version:    CurrentVersion,
		Skills:     []core.Section{},
		Money:      []core.Transaction{},
		Streaks:    []core.Streak{},
		Journal:    []core.JournalEntry{},
		Attendance: []core.Subject{},
		Habits:     core.HabitBoard{Items: []core.Habit{}},
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := d
	c.Skills = make([]core.Section, len(d.Skills))
	for i, s := range d.Skills {
		s.Tasks = append([]core.LearnTask{}, s.Tasks...)
		c.Skills[i] = s
	}
	c.Money = append([]core.Transaction{}, d.Money...)
	c.Streaks = append([]core.Streak{}, d.Streaks...)
	c.Journal = append([]core.JournalEntry{}, d.Journal...)
	c.Attendance = append([]core.Subject{}, d.Attendance...)
	c.Habits.Items = append([]core.Habit{}, d.Habits.Items...)
	return c
}

// Trackers exposes the document as the read-only view used by the dashboard.
func (d Document) Trackers() core.Trackers {
	return core.Trackers{
		Skills:     d.Skills,
		Money:      d.Money,
		Streaks:    d.Streaks,
		Journal:    d.Journal,
		Attendance: d.Attendance,
		Habits:     d.Habits,
	}
}

func (d Document) Validate() error {
	var problems []string
	check := func(err error) {
		if err != nil {
			problems = append(problems, err.Error())
		}
	}

	for _, s := range d.Skills {
		check(s.Validate())
	}
	check(core.CheckUnique(d.Skills))
	for _, t := range d.Money {
		check(t.Validate())
	}
	check(core.CheckUnique(d.Money))
	for _, s := range d.Streaks {
		check(s.Validate())
	}
	check(core.CheckUnique(d.Streaks))
	seen := make(map[string]bool, len(d.Journal))
	for _, e := range d.Journal {
		check(e.Validate())
		if seen[e.Date] {
			check(fmt.Errorf("journal: %w: %s", core.ErrDuplicateID, e.Date))
		}
		seen[e.Date] = true
	}
	for _, s := range d.Attendance {
		check(s.Validate())
	}
	check(core.CheckUnique(d.Attendance))
	check(d.Habits.Validate())

	if len(problems) > 0 {
		return fmt.Errorf("invalid document:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Decode parses a stored value. Missing collections decode as empty ones.
func Decode(raw string) (Document, error) {
	d := New()
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	d.normalize()
	if err := d.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return d, nil
}

// Encode stamps the current version and serializes d.
func Encode(d Document) (string, error) {
	d.Version = CurrentVersion
	d.normalize()
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(raw), nil
}

// normalize replaces nil collections (an explicit null in stored JSON) with
// empty ones.
func (d *Document) normalize() {
	if d.Skills == nil {
		d.Skills = []core.Section{}
	}
	for i := range d.Skills {
		if d.Skills[i].Tasks == nil {
			d.Skills[i].Tasks = []core.LearnTask{}
		}
	}
	if d.Money == nil {
		d.Money = []core.Transaction{}
	}
	if d.Streaks == nil {
		d.Streaks = []core.Streak{}
	}
	if d.Journal == nil {
		d.Journal = []core.JournalEntry{}
	}
	if d.Attendance == nil {
		d.Attendance = []core.Subject{}
	}
	if d.Habits.Items == nil {
		d.Habits.Items = []core.Habit{}
	}
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
}

// Origin tells where a loaded document came from.
type Origin int

const (
	// OriginStored means the consolidated key was present.
	OriginStored Origin = iota
	// OriginLegacy means the document was assembled from the older keys.
	OriginLegacy
	// OriginEmpty means nothing was stored.
	OriginEmpty
	// OriginUnreadable means the store failed; the empty document stands in
	// for data that may still exist and must not be saved over it unasked.
	OriginUnreadable
)

func (o Origin) String() string {
	switch o {
	case OriginStored:
		return "stored"
	case OriginLegacy:
		return "legacy"
	case OriginUnreadable:
		return "unreadable"
	default:
		return "empty"
	}
}

// Load reads the document under key. A read failure yields an empty document
// with OriginUnreadable and a warning; a value that does not decode is an
// error. When key is absent the legacy per-tracker keys are imported.
func Load(ctx context.Context, store kv.Reader, key string, now time.Time, logger *log.Logger) (Document, Origin, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if key == "" {
		key = Key
	}
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "Failed to read document, starting empty",
			log.FieldKey, key,
			log.FieldError, err)
		return New(), OriginUnreadable, nil
	}
	if found {
		d, err := Decode(raw)
		if err != nil {
			return Document{}, OriginStored, fmt.Errorf("load %s: %w", key, err)
		}
		logger.DebugContext(ctx, "Document loaded",
			log.FieldKey, key,
			log.FieldBytes, len(raw))
		return d, OriginStored, nil
	}

	d, imported, err := ImportLegacy(ctx, store, now, logger)
	if err != nil {
		logger.WarnContext(ctx, "Legacy import failed, starting empty", log.FieldError, err)
		return New(), OriginUnreadable, nil
	}
	if !imported {
		return New(), OriginEmpty, nil
	}
	logger.InfoContext(ctx, "Imported legacy tracker data",
		log.FieldOperation, log.OpImport,
		"skills", len(d.Skills),
		"money", len(d.Money),
		"attendance", len(d.Attendance),
		"habits", len(d.Habits.Items))
	return d, OriginLegacy, nil
}

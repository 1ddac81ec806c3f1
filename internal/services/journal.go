package services

import (
	"context"

	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/log"
)

// JournalService manages the one-entry-per-day journal.
type JournalService struct {
	session *Session
}

func (s *Session) Journal() *JournalService {
	return &JournalService{session: s}
}

func (svc *JournalService) List() []core.JournalEntry {
	return svc.session.Snapshot().Journal
}

// Get returns the entry for date (YYYY-MM-DD).
func (svc *JournalService) Get(date string) (core.JournalEntry, error) {
	day, err := core.ParseDay(date)
	if err != nil {
		return core.JournalEntry{}, err
	}
	e, ok := core.FindEntry(svc.session.Snapshot().Journal, day)
	if !ok {
		return core.JournalEntry{}, core.ErrNotFound
	}
	return e, nil
}

// Today is the journal key of the session clock.
func (svc *JournalService) Today() string {
	return core.DayOf(svc.session.Now())
}

func (svc *JournalService) Latest() (core.JournalEntry, error) {
	e, ok := core.LatestEntry(svc.session.Snapshot().Journal)
	if !ok {
		return core.JournalEntry{}, core.ErrNotFound
	}
	return e, nil
}

// Write creates or replaces the entry for date.
func (svc *JournalService) Write(ctx context.Context, date, title, text string) (core.JournalEntry, error) {
	e, err := core.NewJournalEntry(date, title, text)
	if err != nil {
		return core.JournalEntry{}, err
	}
	err = svc.session.commit(ctx, TrackerJournal, log.OpUpdate, func(d *document.Document) (string, error) {
		d.Journal = core.UpsertEntry(d.Journal, e)
		return e.Date, nil
	})
	return e, err
}

func (svc *JournalService) Delete(ctx context.Context, date string) error {
	day, err := core.ParseDay(date)
	if err != nil {
		return err
	}
	return svc.session.commit(ctx, TrackerJournal, log.OpDelete, func(d *document.Document) (string, error) {
		entries, err := core.RemoveEntry(d.Journal, day)
		if err != nil {
			return "", err
		}
		d.Journal = entries
		return day, nil
	})
}

package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// DayLayout is the key format of journal entries.
const DayLayout = "2006-01-02"

// JournalEntry is the single entry written for one day.
type JournalEntry struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ParseDay normalizes a YYYY-MM-DD date.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DayLayout), nil
}

// DayOf formats t as a journal key in t's location.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

func NewJournalEntry(date, title, text string) (JournalEntry, error) {
	day, err := ParseDay(date)
	if err != nil {
		return JournalEntry{}, err
	}
	e := JournalEntry{Date: day, Title: strings.TrimSpace(title), Text: strings.TrimSpace(text)}
	if err := e.Validate(); err != nil {
		return JournalEntry{}, err
	}
	return e, nil
}

func (e JournalEntry) Validate() error {
	if _, err := ParseDay(e.Date); err != nil {
		return err
	}
	if e.Title == "" && e.Text == "" {
		return fmt.Errorf("journal %s: %w", e.Date, ErrEmptyEntry)
	}
	if utf8.RuneCountInString(e.Title) > MaxJournalTitle {
		return fmt.Errorf("journal %s: %w (max %d characters)", e.Date, ErrTitleTooLong, MaxJournalTitle)
	}
	if utf8.RuneCountInString(e.Text) > MaxJournalText {
		return fmt.Errorf("journal %s: %w (max %d characters)", e.Date, ErrTextTooLong, MaxJournalText)
	}
	return nil
}

// UpsertEntry replaces the entry with the same date or inserts e, keeping
// entries sorted by date.
func UpsertEntry(entries []JournalEntry, e JournalEntry) []JournalEntry {
	out := make([]JournalEntry, 0, len(entries)+1)
	replaced := false
	for _, cur := range entries {
		if cur.Date == e.Date {
			out = append(out, e)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// RemoveEntry deletes the entry for date.
func RemoveEntry(entries []JournalEntry, date string) ([]JournalEntry, error) {
	out := make([]JournalEntry, 0, len(entries))
	found := false
	for _, cur := range entries {
		if cur.Date == date {
			found = true
			continue
		}
		out = append(out, cur)
	}
	if !found {
		return entries, ErrNotFound
	}
	return out, nil
}

// FindEntry returns the entry for date.
func FindEntry(entries []JournalEntry, date string) (JournalEntry, bool) {
	for _, e := range entries {
		if e.Date == date {
			return e, true
		}
	}
	return JournalEntry{}, false
}

// LatestEntry returns the entry with the greatest date.
func LatestEntry(entries []JournalEntry) (JournalEntry, bool) {
	var latest JournalEntry
	found := false
	for _, e := range entries {
		if !found || e.Date > latest.Date {
			latest = e
			found = true
		}
	}
	return latest, found
}

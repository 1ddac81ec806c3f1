package core

import (
	"fmt"
	"time"
)

// Streak counts consecutive days since it was started or last reset.
type Streak struct {
	ID            ID        `json:"id"`
	Title         string    `json:"title"`
	StartDate     time.Time `json:"startDate"`
	LastIncrement time.Time `json:"lastIncrement"`
	Count         int       `json:"count"`
}

func (s Streak) Identity() ID { return s.ID }

// NewStreak starts a streak at day one.
func NewStreak(id ID, title string, now time.Time) (Streak, error) {
	t, err := cleanTitle(title, MaxStreakTitle)
	if err != nil {
		return Streak{}, err
	}
	return Streak{
		ID:            id,
		Title:         t,
		StartDate:     now,
		LastIncrement: now,
		Count:         1,
	}, nil
}

// WithTitle returns a copy with a validated new title.
func (s Streak) WithTitle(title string) (Streak, error) {
	t, err := cleanTitle(title, MaxStreakTitle)
	if err != nil {
		return s, err
	}
	s.Title = t
	return s, nil
}

func (s Streak) Validate() error {
	if _, err := cleanTitle(s.Title, MaxStreakTitle); err != nil {
		return fmt.Errorf("streak %s: %w", s.ID, err)
	}
	if s.Count < 0 {
		return fmt.Errorf("streak %s: %w", s.ID, ErrInvalidCount)
	}
	if s.StartDate.IsZero() || s.LastIncrement.IsZero() {
		return fmt.Errorf("streak %s: %w", s.ID, ErrInvalidDate)
	}
	if s.LastIncrement.Before(s.StartDate) {
		return fmt.Errorf("streak %s: last increment before start: %w", s.ID, ErrInvalidDate)
	}
	return nil
}

// Longest returns the highest count in streaks.
func Longest(streaks []Streak) int {
	best := 0
	for _, s := range streaks {
		if s.Count > best {
			best = s.Count
		}
	}
	return best
}

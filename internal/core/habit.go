package core

import (
	"fmt"
	"time"
)

// Habit is one item of the daily checklist.
type Habit struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	Checked bool   `json:"checked"`
}

func (h Habit) Identity() ID { return h.ID }

func NewHabit(id ID, title string) (Habit, error) {
	t, err := cleanTitle(title, MaxHabitTitle)
	if err != nil {
		return Habit{}, err
	}
	return Habit{ID: id, Title: t}, nil
}

func (h Habit) WithTitle(title string) (Habit, error) {
	t, err := cleanTitle(title, MaxHabitTitle)
	if err != nil {
		return h, err
	}
	h.Title = t
	return h, nil
}

// HabitBoard is the daily checklist plus the date it was started.
type HabitBoard struct {
	StartedAt time.Time `json:"startedAt"`
	LastReset time.Time `json:"lastReset"`
	Items     []Habit   `json:"items"`
}

// DailyReset unchecks every item once per calendar day. It reports whether
// the board changed. A board that was never stamped gets stamped without
// touching its items.
func (b HabitBoard) DailyReset(now time.Time, policy DayBoundary) (HabitBoard, bool) {
	if b.StartedAt.IsZero() || b.LastReset.IsZero() {
		if b.StartedAt.IsZero() {
			b.StartedAt = now
		}
		if b.LastReset.IsZero() {
			b.LastReset = now
		}
		return b, true
	}
	if policy.ElapsedDays(b.LastReset, now) <= 0 {
		return b, false
	}
	items := make([]Habit, len(b.Items))
	for i, h := range b.Items {
		h.Checked = false
		items[i] = h
	}
	b.Items = items
	b.LastReset = now
	return b, true
}

// Restart moves the start date to now.
func (b HabitBoard) Restart(now time.Time) HabitBoard {
	b.StartedAt = now
	return b
}

// HabitStatus is what the checklist screen shows above the items.
type HabitStatus struct {
	DaysSinceStart int      `json:"daysSinceStart"`
	HoursLeftToday int      `json:"hoursLeftToday"`
	Progress       Progress `json:"progress"`
}

func (b HabitBoard) Status(now time.Time, policy DayBoundary) HabitStatus {
	done := 0
	for _, h := range b.Items {
		if h.Checked {
			done++
		}
	}
	st := HabitStatus{
		HoursLeftToday: HoursLeftToday(now),
		Progress:       newProgress(done, len(b.Items)),
	}
	if !b.StartedAt.IsZero() {
		st.DaysSinceStart = policy.ElapsedDays(b.StartedAt, now)
	}
	return st
}

// HoursLeftToday counts whole hours until the next local midnight of now.
func HoursLeftToday(now time.Time) int {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	left := midnight.Sub(now)
	if left < 0 {
		return 0
	}
	return int(left / time.Hour)
}

func (b HabitBoard) Validate() error {
	for _, h := range b.Items {
		if _, err := cleanTitle(h.Title, MaxHabitTitle); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
	}
	if err := CheckUnique(b.Items); err != nil {
		return fmt.Errorf("habits: %w", err)
	}
	return nil
}

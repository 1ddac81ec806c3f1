package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSectionTasks(t *testing.T) {
	s, err := NewSection(1, "Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, first, err := s.AddTask("read effective go")
	if err != nil || first.ID != 1 {
		t.Fatalf("first task: %+v, %v", first, err)
	}
	s, second, _ := s.AddTask("write a cli")
	if second.ID != 2 {
		t.Fatalf("second task id = %d, want 2", second.ID)
	}

	toggled, task, err := s.ToggleTask(1)
	if err != nil || !task.Done {
		t.Fatalf("toggle: %+v, %v", task, err)
	}
	if s.Tasks[0].Done {
		t.Fatalf("toggle modified the original section")
	}
	if p := toggled.Progress(); p.Completed != 1 || p.Total != 2 || p.Percent != 50 {
		t.Fatalf("unexpected progress: %+v", p)
	}

	removed, err := toggled.RemoveTask(1)
	if err != nil || len(removed.Tasks) != 1 || removed.Tasks[0].ID != 2 {
		t.Fatalf("remove: %+v, %v", removed.Tasks, err)
	}
	if _, _, err := s.ToggleTask(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := s.AddTask(""); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestSkillsProgress(t *testing.T) {
	got := SkillsProgress([]Section{
		{Tasks: []LearnTask{{ID: 1, Done: true}, {ID: 2}}},
		{Tasks: []LearnTask{{ID: 1, Done: true}}},
		{},
	})
	if got.Completed != 2 || got.Total != 3 || got.Percent != 67 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	if p := SkillsProgress(nil); p.Percent != 0 {
		t.Fatalf("empty progress percent = %d", p.Percent)
	}
}

func TestSubjectCounters(t *testing.T) {
	s, err := NewSubject(1, "Maths")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Attended != 0 || s.Total != 1 {
		t.Fatalf("unexpected new subject: %+v", s)
	}

	s = s.Unattend()
	if s.Attended != 0 {
		t.Fatalf("attended went below zero: %d", s.Attended)
	}
	s = s.RemoveClass()
	if s.Total != 1 {
		t.Fatalf("total went below one: %d", s.Total)
	}

	s = s.Attend().Attend().AddClass().AddClass()
	if s.Attended != 2 || s.Total != 3 || s.Percentage() != 67 {
		t.Fatalf("unexpected counters: %+v (%d%%)", s, s.Percentage())
	}
}

func TestOverallAttendance(t *testing.T) {
	got := OverallAttendance([]Subject{{Attended: 3, Total: 4}, {Attended: 1, Total: 4}})
	if got != 50 {
		t.Fatalf("got %d, want 50", got)
	}
	if OverallAttendance(nil) != 0 {
		t.Fatalf("empty attendance should be 0")
	}
}

func TestHabitDailyReset(t *testing.T) {
	policy := CalendarDay{Location: time.UTC}
	day1 := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	board := HabitBoard{
		StartedAt: day1,
		LastReset: day1,
		Items:     []Habit{{ID: 1, Title: "water", Checked: true}, {ID: 2, Title: "walk"}},
	}

	same, changed := board.DailyReset(day1.Add(time.Hour), policy)
	if changed || !same.Items[0].Checked {
		t.Fatalf("reset on the same day")
	}

	next, changed := board.DailyReset(day1.Add(3*time.Hour), policy)
	if !changed || next.Items[0].Checked {
		t.Fatalf("expected reset after midnight: %+v", next)
	}
	if !board.Items[0].Checked {
		t.Fatalf("reset modified the original board")
	}
	if !next.StartedAt.Equal(day1) {
		t.Fatalf("reset must not move the start date")
	}

	again, changed := next.DailyReset(day1.Add(4*time.Hour), policy)
	if changed || !again.LastReset.Equal(next.LastReset) {
		t.Fatalf("second reset on the same day changed the board")
	}
}

func TestHabitDailyResetStampsEmptyBoard(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	b, changed := HabitBoard{Items: []Habit{{ID: 1, Title: "x", Checked: true}}}.DailyReset(now, CalendarDay{Location: time.UTC})
	if !changed || !b.StartedAt.Equal(now) || !b.LastReset.Equal(now) {
		t.Fatalf("unexpected stamp: %+v", b)
	}
	if !b.Items[0].Checked {
		t.Fatalf("stamping must not uncheck items")
	}
}

func TestHoursLeftToday(t *testing.T) {
	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 24},
		{time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC), 10},
		{time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		if got := HoursLeftToday(tc.now); got != tc.want {
			t.Fatalf("%v: got %d, want %d", tc.now, got, tc.want)
		}
	}
}

func TestHabitStatus(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	b := HabitBoard{StartedAt: start, LastReset: start, Items: []Habit{{ID: 1, Checked: true}, {ID: 2}}}
	st := b.Status(start.Add(50*time.Hour), CalendarDay{Location: time.UTC})
	if st.DaysSinceStart != 2 || st.Progress.Completed != 1 || st.Progress.Total != 2 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestJournalEntries(t *testing.T) {
	if _, err := NewJournalEntry("2024-13-01", "t", "x"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := NewJournalEntry("2024-01-01", " ", " "); !errors.Is(err, ErrEmptyEntry) {
		t.Fatalf("expected ErrEmptyEntry, got %v", err)
	}
	if _, err := NewJournalEntry("2024-01-01", strings.Repeat("t", MaxJournalTitle+1), ""); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
	if _, err := NewJournalEntry("2024-01-01", "", strings.Repeat("t", MaxJournalText+1)); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}

	a, _ := NewJournalEntry("2024-01-02", "b", "")
	b, _ := NewJournalEntry("2024-01-01", "a", "")
	entries := UpsertEntry(UpsertEntry(nil, a), b)
	if len(entries) != 2 || entries[0].Date != "2024-01-01" {
		t.Fatalf("entries not sorted: %+v", entries)
	}

	edited, _ := NewJournalEntry("2024-01-02", "b2", "more")
	entries = UpsertEntry(entries, edited)
	if len(entries) != 2 || entries[1].Title != "b2" {
		t.Fatalf("upsert did not replace: %+v", entries)
	}

	latest, ok := LatestEntry(entries)
	if !ok || latest.Date != "2024-01-02" {
		t.Fatalf("unexpected latest: %+v", latest)
	}

	entries, err := RemoveEntry(entries, "2024-01-01")
	if err != nil || len(entries) != 1 {
		t.Fatalf("remove: %+v, %v", entries, err)
	}
	if _, err := RemoveEntry(entries, "2024-01-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(Trackers{
		Skills:     []Section{{Tasks: []LearnTask{{ID: 1, Done: true}, {ID: 2}}}},
		Money:      []Transaction{{Kind: KindIncome, Amount: Money{Cents: 1000}}, {Kind: KindLoan, Amount: Money{Cents: 250}}},
		Streaks:    []Streak{{Count: 3}, {Count: 11}},
		Journal:    []JournalEntry{{Date: "2024-01-01", Title: "a"}, {Date: "2024-02-01", Title: "b"}},
		Attendance: []Subject{{Attended: 1, Total: 2}},
		Habits:     HabitBoard{Items: []Habit{{ID: 1, Checked: true}}},
	})
	if d.Skills.Completed != 1 || d.Money.Balance.Cents != 750 || d.Streaks != 2 || d.LongestStreak != 11 {
		t.Fatalf("unexpected dashboard: %+v", d)
	}
	if d.Attendance != 50 || d.Habits.Percent != 100 {
		t.Fatalf("unexpected dashboard: %+v", d)
	}
	if d.LatestJournal == nil || d.LatestJournal.Title != "b" {
		t.Fatalf("unexpected latest journal: %+v", d.LatestJournal)
	}
}

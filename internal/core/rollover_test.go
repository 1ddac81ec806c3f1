package core

import (
	"testing"
	"time"
)

func TestFixedWindow_ElapsedDays(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same instant", base, 0},
		{"23h59m later", base.Add(23*time.Hour + 59*time.Minute), 0},
		{"exactly one day", base.Add(Day), 1},
		{"49 hours", base.Add(49 * time.Hour), 2},
		{"clock went backwards", base.Add(-5 * time.Hour), 0},
		{"far in the past", base.Add(-100 * Day), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (FixedWindow{}).ElapsedDays(base, tt.now); got != tt.want {
				t.Fatalf("ElapsedDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalendarDay_ElapsedDays(t *testing.T) {
	checker := CalendarDay{Location: time.UTC}
	last := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same day", time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC), 0},
		{"just after midnight", time.Date(2024, 1, 16, 0, 1, 0, 0, time.UTC), 1},
		{"three days on", time.Date(2024, 1, 18, 8, 0, 0, 0, time.UTC), 3},
		{"earlier day", time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.ElapsedDays(last, tt.now); got != tt.want {
				t.Fatalf("ElapsedDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRollover(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		s         Streak
		now       time.Time
		wantCount int
		wantLast  time.Time
		wantDays  int
	}{
		{
			name:      "less than a day",
			s:         Streak{Count: 1, StartDate: t0, LastIncrement: t0},
			now:       t0.Add(10 * time.Hour),
			wantCount: 1,
			wantLast:  t0,
		},
		{
			name:      "three days and a half keeps the remainder",
			s:         Streak{Count: 5, StartDate: t0, LastIncrement: t0},
			now:       t0.Add(3*Day + 12*time.Hour),
			wantCount: 8,
			wantLast:  t0.Add(3 * Day),
			wantDays:  3,
		},
		{
			name:      "exactly 24h",
			s:         Streak{Count: 0, StartDate: t0, LastIncrement: t0},
			now:       t0.Add(Day),
			wantCount: 1,
			wantLast:  t0.Add(Day),
			wantDays:  1,
		},
		{
			name:      "clock skew",
			s:         Streak{Count: 4, StartDate: t0, LastIncrement: t0},
			now:       t0.Add(-2 * Day),
			wantCount: 4,
			wantLast:  t0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, days := Rollover(tt.s, tt.now)
			if got.Count != tt.wantCount {
				t.Fatalf("count = %d, want %d", got.Count, tt.wantCount)
			}
			if !got.LastIncrement.Equal(tt.wantLast) {
				t.Fatalf("lastIncrement = %v, want %v", got.LastIncrement, tt.wantLast)
			}
			if days != tt.wantDays {
				t.Fatalf("days = %d, want %d", days, tt.wantDays)
			}
			if !got.StartDate.Equal(tt.s.StartDate) {
				t.Fatalf("start date changed")
			}
		})
	}
}

func TestRolloverIsIdempotent(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	s := Streak{Count: 1, StartDate: t0, LastIncrement: t0}
	now := t0.Add(5*Day + 7*time.Hour)

	once, _ := Rollover(s, now)
	twice, days := Rollover(once, now)
	if days != 0 || twice != once {
		t.Fatalf("second rollover changed record: %+v -> %+v", once, twice)
	}
}

func TestRolloverAcrossEvaluations(t *testing.T) {
	// Evaluating every 10 hours must credit the same days as one late evaluation.
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	step := Streak{Count: 1, StartDate: t0, LastIncrement: t0}
	for now := t0; now.Before(t0.Add(4 * Day)); now = now.Add(10 * time.Hour) {
		step, _ = Rollover(step, now)
	}
	step, _ = Rollover(step, t0.Add(4*Day))

	late, _ := Rollover(Streak{Count: 1, StartDate: t0, LastIncrement: t0}, t0.Add(4*Day))
	if step.Count != late.Count || !step.LastIncrement.Equal(late.LastIncrement) {
		t.Fatalf("stepwise %+v differs from single %+v", step, late)
	}
}

func TestRolloverAll(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	in := []Streak{
		{ID: 1, Count: 1, StartDate: t0, LastIncrement: t0},
		{ID: 2, Count: 3, StartDate: t0, LastIncrement: t0.Add(20 * time.Hour)},
	}
	out, advanced := RolloverAll(in, t0.Add(Day+time.Hour))
	if advanced != 1 {
		t.Fatalf("advanced = %d, want 1", advanced)
	}
	if out[0].Count != 2 || out[1].Count != 3 {
		t.Fatalf("unexpected counts: %d, %d", out[0].Count, out[1].Count)
	}
	if in[0].Count != 1 {
		t.Fatalf("input was modified")
	}
}

func TestHoursLeft(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	s := Streak{Count: 1, StartDate: t0, LastIncrement: t0}
	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"fresh", t0, 24},
		{"six hours in", t0.Add(6 * time.Hour), 18},
		{"due", t0.Add(Day), 0},
		{"overdue", t0.Add(30 * time.Hour), 0},
		{"skewed clock", t0.Add(-time.Hour), 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HoursLeft(s, tt.now); got != tt.want {
				t.Fatalf("HoursLeft() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHoursLeftAgreesWithRollover(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	s := Streak{Count: 1, StartDate: t0, LastIncrement: t0}
	for _, offset := range []time.Duration{0, time.Hour, 23 * time.Hour, Day - time.Nanosecond, Day, 25 * time.Hour} {
		now := t0.Add(offset)
		_, days := Rollover(s, now)
		if (HoursLeft(s, now) == 0) != (days >= 1) {
			t.Fatalf("offset %v: hoursLeft=%v days=%d", offset, HoursLeft(s, now), days)
		}
	}
}

func TestReset(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	now := t0.Add(10 * Day)
	got := Reset(Streak{ID: 7, Title: "run", Count: 9, StartDate: t0, LastIncrement: t0.Add(9 * Day)}, now)
	if got.Count != 0 || !got.StartDate.Equal(now) || !got.LastIncrement.Equal(now) {
		t.Fatalf("unexpected reset result: %+v", got)
	}
	if got.ID != 7 || got.Title != "run" {
		t.Fatalf("reset changed identity: %+v", got)
	}
}

package core

// Dashboard is a compact summary across every tracker.
type Dashboard struct {
	Skills        Progress      `json:"skills"`
	Money         Totals        `json:"money"`
	Streaks       int           `json:"streaks"`
	LongestStreak int           `json:"longestStreak"`
	Attendance    int           `json:"attendancePercent"`
	Habits        Progress      `json:"habits"`
	LatestJournal *JournalEntry `json:"latestJournal,omitempty"`
}

// Trackers is the read-only view the dashboard is computed from.
type Trackers struct {
	Skills     []Section
	Money      []Transaction
	Streaks    []Streak
	Journal    []JournalEntry
	Attendance []Subject
	Habits     HabitBoard
}

func BuildDashboard(t Trackers) Dashboard {
	d := Dashboard{
		Skills:        SkillsProgress(t.Skills),
		Money:         Summarize(t.Money),
		Streaks:       len(t.Streaks),
		LongestStreak: Longest(t.Streaks),
		Attendance:    OverallAttendance(t.Attendance),
	}
	done := 0
	for _, h := range t.Habits.Items {
		if h.Checked {
			done++
		}
	}
	d.Habits = newProgress(done, len(t.Habits.Items))
	if e, ok := LatestEntry(t.Journal); ok {
		d.LatestJournal = &e
	}
	return d
}

package document

import (
	"time"

	"lifelog/internal/core"
)

// Sample returns a small demo document anchored at now. Every call builds
// fresh slices.
func Sample(now time.Time) Document {
	d := New()
	day := core.Day

	d.Skills = []core.Section{
		{ID: 1, Name: "Go", Tasks: []core.LearnTask{
			{ID: 1, Task: "Read Effective Go", Done: true},
			{ID: 2, Task: "Write a CLI with cobra"},
			{ID: 3, Task: "Learn context cancellation"},
		}},
		{ID: 2, Name: "Guitar", Tasks: []core.LearnTask{
			{ID: 1, Task: "Open chords", Done: true},
			{ID: 2, Task: "Barre chords"},
		}},
	}

	d.Money = []core.Transaction{
		{ID: 1, Title: "Scholarship", Amount: core.Money{Cents: 50000}, Category: core.CategoryAcademics, Kind: core.KindIncome, Date: now.Add(-5 * day)},
		{ID: 2, Title: "Groceries", Amount: core.Money{Cents: 4250}, Category: core.CategoryFood, Kind: core.KindExpense, Date: now.Add(-3 * day)},
		{ID: 3, Title: "Train ticket", Amount: core.Money{Cents: 1890}, Category: core.CategoryTravel, Kind: core.KindExpense, Date: now.Add(-2 * day)},
		{ID: 4, Title: "Lent to Sam", Amount: core.Money{Cents: 2000}, Category: core.CategoryOthers, Kind: core.KindLoan, Date: now.Add(-day)},
	}

	started := now.Add(-7*day - 3*time.Hour)
	d.Streaks = []core.Streak{
		{ID: 1, Title: "No sugar", StartDate: started, LastIncrement: started.Add(7 * day), Count: 8},
		{ID: 2, Title: "Morning run", StartDate: now.Add(-2 * time.Hour), LastIncrement: now.Add(-2 * time.Hour), Count: 1},
	}

	d.Journal = []core.JournalEntry{
		{Date: core.DayOf(now.Add(-day)), Title: "Slow start", Text: "Spent the evening setting up the project."},
		{Date: core.DayOf(now), Title: "Good day", Text: "Finished the first chapter and went for a run."},
	}

	d.Attendance = []core.Subject{
		{ID: 1, Subject: "Maths", Attended: 9, Total: 10},
		{ID: 2, Subject: "Physics", Attended: 6, Total: 8},
	}

	d.Habits = core.HabitBoard{
		StartedAt: now.Add(-3 * day),
		LastReset: now,
		Items: []core.Habit{
			{ID: 1, Title: "Drink water", Checked: true},
			{ID: 2, Title: "Read 20 pages"},
			{ID: 3, Title: "Stretch"},
		},
	}
	return d
}

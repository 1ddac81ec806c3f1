// Package core holds the tracker records and the pure functions that change
// them.
//
// This file implements day accounting. Two policies decide how many days
// passed between two instants: FixedWindow counts whole 24 hour periods and
// drives streaks, CalendarDay counts local midnights and drives the daily
// habit checklist.
package core

import "time"

// Day is the fixed streak unit, not a calendar day.
const Day = 24 * time.Hour

// DayBoundary is the strategy interface for counting elapsed days.
type DayBoundary interface {
	// ElapsedDays returns the number of whole days between last and now.
	// It is never negative.
	ElapsedDays(last, now time.Time) int
}

// FixedWindow counts whole 24 hour periods.
type FixedWindow struct{}

func (FixedWindow) ElapsedDays(last, now time.Time) int {
	d := now.Sub(last)
	if d < Day {
		return 0
	}
	return int(d / Day)
}

// CalendarDay counts date changes in Location (time.Local when nil).
type CalendarDay struct {
	Location *time.Location
}

func (c CalendarDay) ElapsedDays(last, now time.Time) int {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	ly, lm, ld := last.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	// UTC midnights keep DST shifts out of the subtraction.
	from := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	to := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / Day)
}

// Rollover credits every whole day elapsed since the last increment.
//
// The count grows by the number of elapsed days and the last increment moves
// forward by exactly that many days, so the sub-day remainder carries over to
// the next evaluation. A clock that went backwards changes nothing. Running
// it twice with the same now is a no-op the second time.
func Rollover(s Streak, now time.Time) (Streak, int) {
	days := FixedWindow{}.ElapsedDays(s.LastIncrement, now)
	if days <= 0 {
		return s, 0
	}
	s.Count += days
	s.LastIncrement = s.LastIncrement.Add(time.Duration(days) * Day)
	return s, days
}

// RolloverAll applies Rollover to each streak independently and returns the
// new slice plus the number of streaks that advanced. The input is not
// modified.
func RolloverAll(streaks []Streak, now time.Time) ([]Streak, int) {
	out := make([]Streak, len(streaks))
	advanced := 0
	for i, s := range streaks {
		next, days := Rollover(s, now)
		if days > 0 {
			advanced++
		}
		out[i] = next
	}
	return out, advanced
}

// HoursLeft is the time until the next increment, in hours, using the same
// arithmetic as Rollover. It reaches zero exactly when a day is due.
func HoursLeft(s Streak, now time.Time) float64 {
	elapsed := now.Sub(s.LastIncrement)
	if elapsed < 0 {
		return Day.Hours()
	}
	left := Day - elapsed
	if left < 0 {
		return 0
	}
	return left.Hours()
}

// NextIncrement is the instant at which the next day is credited.
func NextIncrement(s Streak) time.Time {
	return s.LastIncrement.Add(Day)
}

// Reset starts the streak over from zero at now.
func Reset(s Streak, now time.Time) Streak {
	s.Count = 0
	s.StartDate = now
	s.LastIncrement = now
	return s
}

package core

import (
	"fmt"
	"math"
)

// Subject tracks class attendance for one course.
type Subject struct {
	ID       ID     `json:"id"`
	Subject  string `json:"subject"`
	Attended int    `json:"attended"`
	Total    int    `json:"total"`
}

func (s Subject) Identity() ID { return s.ID }

// NewSubject starts with one scheduled class and none attended.
func NewSubject(id ID, name string) (Subject, error) {
	n, err := cleanTitle(name, MaxSubjectName)
	if err != nil {
		return Subject{}, err
	}
	return Subject{ID: id, Subject: n, Attended: 0, Total: 1}, nil
}

func (s Subject) Attend() Subject {
	s.Attended++
	return s
}

// Unattend never goes below zero.
func (s Subject) Unattend() Subject {
	if s.Attended > 0 {
		s.Attended--
	}
	return s
}

func (s Subject) AddClass() Subject {
	s.Total++
	return s
}

// RemoveClass never goes below one.
func (s Subject) RemoveClass() Subject {
	if s.Total > 1 {
		s.Total--
	}
	return s
}

// Percentage is attended/total rounded to a whole percent.
func (s Subject) Percentage() int {
	if s.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(s.Attended) / float64(s.Total) * 100))
}

func (s Subject) Validate() error {
	if _, err := cleanTitle(s.Subject, MaxSubjectName); err != nil {
		return fmt.Errorf("subject %s: %w", s.ID, err)
	}
	if s.Attended < 0 || s.Total < 1 {
		return fmt.Errorf("subject %s: %w", s.ID, ErrInvalidCount)
	}
	return nil
}

// OverallAttendance is the attended/total ratio across all subjects.
func OverallAttendance(subjects []Subject) int {
	attended, total := 0, 0
	for _, s := range subjects {
		attended += s.Attended
		total += s.Total
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(attended) / float64(total) * 100))
}

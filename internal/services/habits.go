package services

import (
	"context"

	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/log"
)

// HabitService manages the daily checklist.
type HabitService struct {
	session *Session
}

func (s *Session) Habits() *HabitService {
	return &HabitService{session: s}
}

func (svc *HabitService) Board() core.HabitBoard {
	return svc.session.Snapshot().Habits
}

func (svc *HabitService) Status() core.HabitStatus {
	board := svc.session.Snapshot().Habits
	return board.Status(svc.session.Now(), svc.session.habits)
}

func (svc *HabitService) Add(ctx context.Context, title string) (core.Habit, error) {
	var created core.Habit
	err := svc.session.commit(ctx, TrackerHabits, log.OpCreate, func(d *document.Document) (string, error) {
		h, err := core.NewHabit(core.NextID(d.Habits.Items), title)
		if err != nil {
			return "", err
		}
		d.Habits.Items = append(append(make([]core.Habit, 0, len(d.Habits.Items)+1), d.Habits.Items...), h)
		created = h
		return h.ID.String(), nil
	})
	return created, err
}

func (svc *HabitService) Rename(ctx context.Context, id core.ID, title string) (core.Habit, error) {
	return svc.replace(ctx, log.OpUpdate, id, func(h core.Habit) (core.Habit, error) {
		return h.WithTitle(title)
	})
}

func (svc *HabitService) Toggle(ctx context.Context, id core.ID) (core.Habit, error) {
	return svc.replace(ctx, log.OpToggle, id, func(h core.Habit) (core.Habit, error) {
		h.Checked = !h.Checked
		return h, nil
	})
}

func (svc *HabitService) Delete(ctx context.Context, id core.ID) error {
	return svc.session.commit(ctx, TrackerHabits, log.OpDelete, func(d *document.Document) (string, error) {
		items, err := core.Remove(d.Habits.Items, id)
		if err != nil {
			return "", err
		}
		d.Habits.Items = items
		return id.String(), nil
	})
}

// ResetStartDate restarts the "days since start" counter at now.
func (svc *HabitService) ResetStartDate(ctx context.Context) (core.HabitBoard, error) {
	var board core.HabitBoard
	err := svc.session.commit(ctx, TrackerHabits, log.OpReset, func(d *document.Document) (string, error) {
		d.Habits = d.Habits.Restart(svc.session.Now())
		board = d.Habits
		return "", nil
	})
	return board, err
}

func (svc *HabitService) replace(ctx context.Context, op string, id core.ID, fn func(core.Habit) (core.Habit, error)) (core.Habit, error) {
	var updated core.Habit
	err := svc.session.commit(ctx, TrackerHabits, op, func(d *document.Document) (string, error) {
		items, h, err := core.Replace(d.Habits.Items, id, fn)
		if err != nil {
			return "", err
		}
		d.Habits.Items = items
		updated = h
		return id.String(), nil
	})
	return updated, err
}

package services

import (
	"context"
	"time"

	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/log"
)

// StreakService manages the streak collection.
type StreakService struct {
	session *Session
}

func (s *Session) Streaks() *StreakService {
	return &StreakService{session: s}
}

// StreakView is a streak with its display quantities at a given time.
type StreakView struct {
	core.Streak
	HoursLeft     float64   `json:"hoursLeft"`
	NextIncrement time.Time `json:"nextIncrement"`
}

func newStreakView(st core.Streak, now time.Time) StreakView {
	return StreakView{
		Streak:        st,
		HoursLeft:     core.HoursLeft(st, now),
		NextIncrement: core.NextIncrement(st),
	}
}

func (svc *StreakService) List() []StreakView {
	now := svc.session.Now()
	streaks := svc.session.Snapshot().Streaks
	out := make([]StreakView, len(streaks))
	for i, st := range streaks {
		out[i] = newStreakView(st, now)
	}
	return out
}

func (svc *StreakService) Get(id core.ID) (StreakView, error) {
	st, ok := core.Find(svc.session.Snapshot().Streaks, id)
	if !ok {
		return StreakView{}, core.ErrNotFound
	}
	return newStreakView(st, svc.session.Now()), nil
}

// Add starts a new streak at count 1.
func (svc *StreakService) Add(ctx context.Context, title string) (core.Streak, error) {
	var created core.Streak
	err := svc.session.commit(ctx, TrackerStreak, log.OpCreate, func(d *document.Document) (string, error) {
		st, err := core.NewStreak(core.NextID(d.Streaks), title, svc.session.Now())
		if err != nil {
			return "", err
		}
		d.Streaks = append(append(make([]core.Streak, 0, len(d.Streaks)+1), d.Streaks...), st)
		created = st
		return st.ID.String(), nil
	})
	return created, err
}

func (svc *StreakService) Rename(ctx context.Context, id core.ID, title string) (core.Streak, error) {
	var updated core.Streak
	err := svc.session.commit(ctx, TrackerStreak, log.OpUpdate, func(d *document.Document) (string, error) {
		streaks, st, err := core.Replace(d.Streaks, id, func(st core.Streak) (core.Streak, error) {
			return st.WithTitle(title)
		})
		if err != nil {
			return "", err
		}
		d.Streaks = streaks
		updated = st
		return id.String(), nil
	})
	return updated, err
}

// Reset sets the count to zero and restarts both timestamps.
func (svc *StreakService) Reset(ctx context.Context, id core.ID) (core.Streak, error) {
	var updated core.Streak
	err := svc.session.commit(ctx, TrackerStreak, log.OpReset, func(d *document.Document) (string, error) {
		now := svc.session.Now()
		streaks, st, err := core.Replace(d.Streaks, id, func(st core.Streak) (core.Streak, error) {
			return core.Reset(st, now), nil
		})
		if err != nil {
			return "", err
		}
		d.Streaks = streaks
		updated = st
		return id.String(), nil
	})
	return updated, err
}

func (svc *StreakService) Delete(ctx context.Context, id core.ID) error {
	return svc.session.commit(ctx, TrackerStreak, log.OpDelete, func(d *document.Document) (string, error) {
		streaks, err := core.Remove(d.Streaks, id)
		if err != nil {
			return "", err
		}
		d.Streaks = streaks
		return id.String(), nil
	})
}

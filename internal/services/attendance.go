package services

import (
	"context"

	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/log"
)

// AttendanceService manages per-subject class attendance.
type AttendanceService struct {
	session *Session
}

func (s *Session) Attendance() *AttendanceService {
	return &AttendanceService{session: s}
}

func (svc *AttendanceService) List() []core.Subject {
	return svc.session.Snapshot().Attendance
}

func (svc *AttendanceService) Overall() int {
	return core.OverallAttendance(svc.session.Snapshot().Attendance)
}

func (svc *AttendanceService) Add(ctx context.Context, name string) (core.Subject, error) {
	var created core.Subject
	err := svc.session.commit(ctx, TrackerAttendance, log.OpCreate, func(d *document.Document) (string, error) {
		sub, err := core.NewSubject(core.NextID(d.Attendance), name)
		if err != nil {
			return "", err
		}
		d.Attendance = append(append(make([]core.Subject, 0, len(d.Attendance)+1), d.Attendance...), sub)
		created = sub
		return sub.ID.String(), nil
	})
	return created, err
}

func (svc *AttendanceService) Delete(ctx context.Context, id core.ID) error {
	return svc.session.commit(ctx, TrackerAttendance, log.OpDelete, func(d *document.Document) (string, error) {
		subjects, err := core.Remove(d.Attendance, id)
		if err != nil {
			return "", err
		}
		d.Attendance = subjects
		return id.String(), nil
	})
}

// Attend counts one attended class.
func (svc *AttendanceService) Attend(ctx context.Context, id core.ID) (core.Subject, error) {
	return svc.apply(ctx, id, core.Subject.Attend)
}

// Unattend takes back one attended class.
func (svc *AttendanceService) Unattend(ctx context.Context, id core.ID) (core.Subject, error) {
	return svc.apply(ctx, id, core.Subject.Unattend)
}

func (svc *AttendanceService) AddClass(ctx context.Context, id core.ID) (core.Subject, error) {
	return svc.apply(ctx, id, core.Subject.AddClass)
}

func (svc *AttendanceService) RemoveClass(ctx context.Context, id core.ID) (core.Subject, error) {
	return svc.apply(ctx, id, core.Subject.RemoveClass)
}

func (svc *AttendanceService) apply(ctx context.Context, id core.ID, fn func(core.Subject) core.Subject) (core.Subject, error) {
	var updated core.Subject
	err := svc.session.commit(ctx, TrackerAttendance, log.OpUpdate, func(d *document.Document) (string, error) {
		subjects, sub, err := core.Replace(d.Attendance, id, func(s core.Subject) (core.Subject, error) {
			return fn(s), nil
		})
		if err != nil {
			return "", err
		}
		d.Attendance = subjects
		updated = sub
		return id.String(), nil
	})
	return updated, err
}

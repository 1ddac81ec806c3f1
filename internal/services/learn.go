package services

import (
	"context"

	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/log"
)

// LearnService manages learning sections and their tasks.
type LearnService struct {
	session *Session
}

func (s *Session) Learn() *LearnService {
	return &LearnService{session: s}
}

func (svc *LearnService) List() []core.Section {
	return svc.session.Snapshot().Skills
}

func (svc *LearnService) Progress() core.Progress {
	return core.SkillsProgress(svc.session.Snapshot().Skills)
}

func (svc *LearnService) AddSection(ctx context.Context, name string) (core.Section, error) {
	var created core.Section
	err := svc.session.commit(ctx, TrackerSkills, log.OpCreate, func(d *document.Document) (string, error) {
		sec, err := core.NewSection(core.NextID(d.Skills), name)
		if err != nil {
			return "", err
		}
		d.Skills = append(append(make([]core.Section, 0, len(d.Skills)+1), d.Skills...), sec)
		created = sec
		return sec.ID.String(), nil
	})
	return created, err
}

// DeleteSection removes a section with all of its tasks.
func (svc *LearnService) DeleteSection(ctx context.Context, id core.ID) error {
	return svc.session.commit(ctx, TrackerSkills, log.OpDelete, func(d *document.Document) (string, error) {
		skills, err := core.Remove(d.Skills, id)
		if err != nil {
			return "", err
		}
		d.Skills = skills
		return id.String(), nil
	})
}

func (svc *LearnService) AddTask(ctx context.Context, sectionID core.ID, title string) (core.LearnTask, error) {
	var created core.LearnTask
	err := svc.updateSection(ctx, log.OpCreate, sectionID, func(sec core.Section) (core.Section, error) {
		next, task, err := sec.AddTask(title)
		created = task
		return next, err
	})
	return created, err
}

func (svc *LearnService) ToggleTask(ctx context.Context, sectionID, taskID core.ID) (core.LearnTask, error) {
	var toggled core.LearnTask
	err := svc.updateSection(ctx, log.OpToggle, sectionID, func(sec core.Section) (core.Section, error) {
		next, task, err := sec.ToggleTask(taskID)
		toggled = task
		return next, err
	})
	return toggled, err
}

func (svc *LearnService) DeleteTask(ctx context.Context, sectionID, taskID core.ID) error {
	return svc.updateSection(ctx, log.OpDelete, sectionID, func(sec core.Section) (core.Section, error) {
		return sec.RemoveTask(taskID)
	})
}

func (svc *LearnService) updateSection(ctx context.Context, op string, id core.ID, fn func(core.Section) (core.Section, error)) error {
	return svc.session.commit(ctx, TrackerSkills, op, func(d *document.Document) (string, error) {
		skills, _, err := core.Replace(d.Skills, id, fn)
		if err != nil {
			return "", err
		}
		d.Skills = skills
		return id.String(), nil
	})
}

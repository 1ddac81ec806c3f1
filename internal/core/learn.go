package core

import (
	"fmt"
	"math"
)

// LearnTask is one item of a learning section.
type LearnTask struct {
	ID   ID     `json:"id"`
	Task string `json:"task"`
	Done bool   `json:"isdone"`
}

func (t LearnTask) Identity() ID { return t.ID }

// Section groups learning tasks under a skill name.
type Section struct {
	ID    ID          `json:"id"`
	Name  string      `json:"name"`
	Tasks []LearnTask `json:"data"`
}

func (s Section) Identity() ID { return s.ID }

func NewSection(id ID, name string) (Section, error) {
	n, err := cleanTitle(name, MaxSectionName)
	if err != nil {
		return Section{}, err
	}
	return Section{ID: id, Name: n, Tasks: []LearnTask{}}, nil
}

// AddTask returns a copy of s with a new open task appended.
func (s Section) AddTask(title string) (Section, LearnTask, error) {
	t, err := cleanTitle(title, MaxTaskTitle)
	if err != nil {
		return s, LearnTask{}, err
	}
	task := LearnTask{ID: NextID(s.Tasks), Task: t}
	tasks := make([]LearnTask, len(s.Tasks), len(s.Tasks)+1)
	copy(tasks, s.Tasks)
	s.Tasks = append(tasks, task)
	return s, task, nil
}

// ToggleTask flips the done flag of one task.
func (s Section) ToggleTask(id ID) (Section, LearnTask, error) {
	tasks, task, err := Replace(s.Tasks, id, func(t LearnTask) (LearnTask, error) {
		t.Done = !t.Done
		return t, nil
	})
	if err != nil {
		return s, LearnTask{}, err
	}
	s.Tasks = tasks
	return s, task, nil
}

// RemoveTask deletes one task.
func (s Section) RemoveTask(id ID) (Section, error) {
	tasks, err := Remove(s.Tasks, id)
	if err != nil {
		return s, err
	}
	s.Tasks = tasks
	return s, nil
}

func (s Section) Validate() error {
	if _, err := cleanTitle(s.Name, MaxSectionName); err != nil {
		return fmt.Errorf("section %s: %w", s.ID, err)
	}
	for _, t := range s.Tasks {
		if _, err := cleanTitle(t.Task, MaxTaskTitle); err != nil {
			return fmt.Errorf("section %s task %s: %w", s.ID, t.ID, err)
		}
	}
	if err := CheckUnique(s.Tasks); err != nil {
		return fmt.Errorf("section %s: %w", s.ID, err)
	}
	return nil
}

// Progress counts completed items.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

func newProgress(done, total int) Progress {
	p := Progress{Completed: done, Total: total}
	if total > 0 {
		p.Percent = int(math.Round(float64(done) / float64(total) * 100))
	}
	return p
}

func (s Section) Progress() Progress {
	done := 0
	for _, t := range s.Tasks {
		if t.Done {
			done++
		}
	}
	return newProgress(done, len(s.Tasks))
}

// SkillsProgress sums progress over every section.
func SkillsProgress(sections []Section) Progress {
	done, total := 0, 0
	for _, s := range sections {
		p := s.Progress()
		done += p.Completed
		total += p.Total
	}
	return newProgress(done, total)
}

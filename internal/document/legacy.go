package document

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"lifelog/internal/core"
	"lifelog/internal/kv"
	"lifelog/internal/log"
)

// Keys written by the older per-tracker screens.
const (
	LegacyAttendanceKey = "tasks"
	LegacyHabitsKey     = "tasks_habit"
	LegacyLearnKey      = "tasks_learn"
	LegacyMoneyKey      = "transactions"
	LegacyHabitDateKey  = "storedDate"

	// LegacySectionName names the single section flat learning tasks land in.
	LegacySectionName = "Learning"
)

type legacySubject struct {
	Subject  string `json:"subject"`
	Attended int    `json:"attended"`
	Total    int    `json:"total"`
}

type legacyHabit struct {
	Title   string `json:"title"`
	Checked bool   `json:"checked"`
}

type legacyLearnTask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type legacyTransaction struct {
	ID          string     `json:"id"`
	Amount      core.Money `json:"amount"`
	Description string     `json:"description"`
}

// ImportLegacy assembles a document from the older keys. It reports false
// when none of them is present. Keys that cannot be decoded are skipped with
// a warning; the legacy values themselves are never modified. Record ids are
// reassigned from 1 because the old ones are random strings.
func ImportLegacy(ctx context.Context, store kv.Reader, now time.Time, logger *log.Logger) (Document, bool, error) {
	if logger == nil {
		logger = log.Discard()
	}
	d := New()
	imported := false

	read := func(key string, into any) (bool, error) {
		raw, found, err := store.Get(ctx, key)
		if err != nil {
			return false, fmt.Errorf("read %s: %w", key, err)
		}
		if !found || strings.TrimSpace(raw) == "" {
			return false, nil
		}
		if err := json.Unmarshal([]byte(raw), into); err != nil {
			logger.WarnContext(ctx, "Skipping undecodable legacy key",
				log.FieldKey, key,
				log.FieldError, err)
			return false, nil
		}
		return true, nil
	}

	var subjects []legacySubject
	ok, err := read(LegacyAttendanceKey, &subjects)
	if err != nil {
		return Document{}, false, err
	}
	if ok {
		imported = true
		for _, s := range subjects {
			name := clip(s.Subject, core.MaxSubjectName)
			if name == "" {
				continue
			}
			sub := core.Subject{ID: core.NextID(d.Attendance), Subject: name, Attended: s.Attended, Total: s.Total}
			if sub.Attended < 0 {
				sub.Attended = 0
			}
			if sub.Total < 1 {
				sub.Total = 1
			}
			d.Attendance = append(d.Attendance, sub)
		}
	}

	var habits []legacyHabit
	ok, err = read(LegacyHabitsKey, &habits)
	if err != nil {
		return Document{}, false, err
	}
	if ok {
		imported = true
		for _, h := range habits {
			title := clip(h.Title, core.MaxHabitTitle)
			if title == "" {
				continue
			}
			d.Habits.Items = append(d.Habits.Items, core.Habit{ID: core.NextID(d.Habits.Items), Title: title, Checked: h.Checked})
		}
	}

	raw, found, err := store.Get(ctx, LegacyHabitDateKey)
	if err != nil {
		return Document{}, false, fmt.Errorf("read %s: %w", LegacyHabitDateKey, err)
	}
	if found {
		if t, perr := time.Parse(time.RFC3339Nano, strings.Trim(strings.TrimSpace(raw), `"`)); perr == nil {
			imported = true
			d.Habits.StartedAt = t
			d.Habits.LastReset = now
		} else {
			logger.WarnContext(ctx, "Skipping unparsable legacy start date",
				log.FieldKey, LegacyHabitDateKey,
				log.FieldError, perr)
		}
	}

	var learn []legacyLearnTask
	ok, err = read(LegacyLearnKey, &learn)
	if err != nil {
		return Document{}, false, err
	}
	if ok {
		imported = true
		section := core.Section{ID: 1, Name: LegacySectionName, Tasks: []core.LearnTask{}}
		for _, t := range learn {
			title := clip(t.Title, core.MaxTaskTitle)
			if title == "" {
				continue
			}
			section.Tasks = append(section.Tasks, core.LearnTask{ID: core.NextID(section.Tasks), Task: title, Done: t.Completed})
		}
		if len(section.Tasks) > 0 {
			d.Skills = append(d.Skills, section)
		}
	}

	var txs []legacyTransaction
	ok, err = read(LegacyMoneyKey, &txs)
	if err != nil {
		return Document{}, false, err
	}
	if ok {
		imported = true
		for _, t := range txs {
			d.Money = appendLegacyTransaction(d.Money, t, now)
		}
	}

	return d, imported, nil
}

func appendLegacyTransaction(money []core.Transaction, t legacyTransaction, now time.Time) []core.Transaction {
	if t.Amount.Cents == 0 {
		return money
	}
	title := clip(t.Description, core.MaxTransactionTitle)
	if title == "" {
		title = "Imported"
	}
	tx := core.Transaction{
		ID:       core.NextID(money),
		Title:    title,
		Amount:   t.Amount,
		Category: core.CategoryOthers,
		Kind:     core.KindIncome,
		Date:     legacyDate(t.ID, now),
	}
	if t.Amount.Cents < 0 {
		tx.Amount = core.Money{Cents: -t.Amount.Cents}
		tx.Kind = core.KindExpense
	}
	return append(money, tx)
}

// legacyDate recovers the creation time the old screens encoded as a
// millisecond id.
func legacyDate(id string, fallback time.Time) time.Time {
	var ms int64
	if _, err := fmt.Sscanf(id, "%d", &ms); err != nil || ms <= 0 {
		return fallback
	}
	t := time.UnixMilli(ms)
	if t.After(fallback) {
		return fallback
	}
	return t
}

func clip(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:limit]))
}

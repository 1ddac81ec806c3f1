package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Length limits for user supplied text.
const (
	MaxStreakTitle      = 40
	MaxSectionName      = 40
	MaxTaskTitle        = 100
	MaxHabitTitle       = 60
	MaxSubjectName      = 40
	MaxTransactionTitle = 60
	MaxJournalTitle     = 60
	MaxJournalText      = 1500
)

var (
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long")
	ErrTextTooLong     = errors.New("text too long")
	ErrEmptyEntry      = errors.New("empty journal entry")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidKind     = errors.New("invalid transaction type")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCount    = errors.New("invalid count")
	ErrInvalidID       = errors.New("invalid id")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrNotFound        = errors.New("not found")
)

// ID identifies a record within its collection.
//
// Older data stored ids as JSON strings; decoding accepts both forms as long
// as the value is an integer.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal record id.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(v), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// cleanTitle trims s and enforces a non-empty value of at most limit runes.
func cleanTitle(s string, limit int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(s) > limit {
		return "", fmt.Errorf("%w (max %d characters)", ErrTitleTooLong, limit)
	}
	return s, nil
}

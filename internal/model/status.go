package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"

	DateLayout = "2006-01-02"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// IsTerminalStatus reports whether a task with this status stays behind on
// its page instead of being carried forward.
func IsTerminalStatus(status string) bool {
	return strings.EqualFold(status, StatusCompleted) || strings.EqualFold(status, StatusDeleted)
}

// DateOf drops the time of day from t, keeping the calendar date t has in
// its own location.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 input and returns the date part.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if parsed, err := time.Parse(DateLayout, trimmed); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, value)
	}
	return DateOf(parsed), nil
}

func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

package models

import (
	"strings"
	"time"

	dErrors "stargate/pkg/domain-errors"
)

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// Day truncates t to its calendar date at 00:00 UTC. The date is taken in t's
// own location, so 2024-01-10T23:00-05:00 stays on the 10th.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayBefore returns the calendar date one day before t.
func DayBefore(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, -1)
}

// ParseDay accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the calendar
// date as written.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return Day(t), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return Day(t), nil
	}
	return time.Time{}, dErrors.New(dErrors.CodeBadRequest, "Duty start date must be formatted as YYYY-MM-DD")
}

// FormatDay renders a date as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDayPtr renders a nullable date; nil stays nil.
func FormatDayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDay(*t)
	return &s
}

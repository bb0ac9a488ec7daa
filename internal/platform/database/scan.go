package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// timeLayouts covers what either driver hands back for DATE, TIMESTAMPTZ or TEXT columns.
var timeLayouts = []string{
	time.RFC3339Nano,
	DateLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
}

// FormatDate renders a calendar date for binding as a query argument.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatNullDate binds a nullable date.
func FormatNullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatDate(*t)
}

// FormatTimestamp renders an instant for binding; both dialects accept RFC 3339.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NullTime scans dates and timestamps stored either natively (PostgreSQL) or as text (SQLite).
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (n *NullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v.UTC(), true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("scan time: unsupported type %T", src)
	}
}

// Value implements driver.Valuer.
func (n NullTime) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return FormatTimestamp(n.Time), nil
}

// Ptr returns nil for NULL.
func (n NullTime) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// Date returns the value truncated to its UTC calendar date.
func (n NullTime) Date() time.Time {
	t := n.Time.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date for nullable columns.
func (n NullTime) DatePtr() *time.Time {
	if !n.Valid {
		return nil
	}
	d := n.Date()
	return &d
}

func (n *NullTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("scan time: unrecognized format %q", s)
}

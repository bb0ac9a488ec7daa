// Package audit records the service's activity log: one entry per notable
// success or failure, kept apart from the duty ledger so failures survive the
// rollback of the transaction that produced them.
package audit

import (
	"context"
	"time"
)

// Severity is the level of an activity log entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is one activity log entry. Message is a short summary and Details the
// full sentence; Exception holds the error text for failures.
type Event struct {
	ID        int64
	Severity  Severity
	Message   string
	Details   string
	Exception string
	RequestID string
	Timestamp time.Time
}

// Info builds an informational entry.
func Info(message, details string) Event {
	return Event{Severity: SeverityInfo, Message: message, Details: details}
}

// Error builds a failure entry carrying err's text.
func Error(message, details string, err error) Event {
	e := Event{Severity: SeverityError, Message: message, Details: details}
	if err != nil {
		e.Exception = err.Error()
	}
	return e
}

// Store persists activity entries.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister reads back the most recent entries, newest first.
type Lister interface {
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

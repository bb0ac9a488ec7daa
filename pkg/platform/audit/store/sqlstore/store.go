// Package sqlstore persists activity entries in the stargate_logs table on
// either supported SQL dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"stargate/internal/platform/database"
	audit "stargate/pkg/platform/audit"
	txcontext "stargate/pkg/platform/tx"
)

// Store implements audit.Store and audit.Lister.
//
// Append honours a transaction bound to ctx, but callers normally append
// outside the duty transaction so failure entries survive its rollback.
type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Append writes one entry.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := s.db.Dialect.Rebind(`
		INSERT INTO stargate_logs (severity, message, details, exception, request_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	var exception any
	if event.Exception != "" {
		exception = event.Exception
	}
	_, err := txcontext.ConnFrom(ctx, s.db.DB).ExecContext(ctx, query,
		string(event.Severity),
		event.Message,
		event.Details,
		exception,
		event.RequestID,
		database.FormatTimestamp(event.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := s.db.Dialect.Rebind(`
		SELECT id, severity, message, details, exception, request_id, created_at
		FROM stargate_logs
		ORDER BY id DESC
		LIMIT ?
	`)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity entries: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e         audit.Event
			severity  string
			exception sql.NullString
			createdAt database.NullTime
		)
		if err := rows.Scan(&e.ID, &severity, &e.Message, &e.Details, &exception, &e.RequestID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		e.Severity = audit.Severity(severity)
		e.Exception = exception.String
		e.Timestamp = createdAt.Time
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity entries: %w", err)
	}
	return events, nil
}

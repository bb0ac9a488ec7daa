// Package database opens the relational stores behind the service and hides the
// differences between PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"stargate/internal/platform/config"
)

// Dialect identifies the SQL flavour of an open DB.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// PostgreSQL SQLSTATE codes the stores care about.
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
)

const sqliteUniquePrefix = "UNIQUE constraint failed: "

// DB couples a connection pool with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects using cfg.Driver. The memory driver has no SQL database and is
// rejected here; callers pick the in-memory stores instead.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN, cfg.MaxOpenConns)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("open database: unsupported driver %q", cfg.Driver)
	}
}

// OpenPostgres opens a lib/pq pool and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string, maxOpenConns int) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}
	return &DB{DB: sqlDB, Dialect: DialectPostgres}, nil
}

// OpenSQLite opens (creating if needed) the SQLite file at path.
// Write transactions take the database lock at BEGIN so concurrent duty writes
// queue instead of failing on lock upgrade.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &DB{DB: sqlDB, Dialect: DialectSQLite}, nil
}

// Rebind rewrites ? placeholders to $n for PostgreSQL. Queries must not contain
// literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// TxOptions returns the isolation used for read-modify-write transactions.
// SQLite already serializes writers and only accepts the default level.
func (d Dialect) TxOptions() *sql.TxOptions {
	if d == DialectPostgres {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique/primary-key constraint failure
// from either driver.
func IsUniqueViolation(err error) bool {
	_, ok := UniqueViolation(err)
	return ok
}

// UniqueViolation returns the key a unique constraint failure was raised for.
// PostgreSQL reports the constraint or index name; SQLite reports the indexed
// columns as "table.col, table.col". The key is "" when the driver gave none.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint, string(pqErr.Code) == pgUniqueViolation
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return sqliteConstraintKey(sqliteErr.Error()), true
		}
	}
	return "", false
}

// sqliteConstraintKey extracts "t.a, t.b" from
// "constraint failed: UNIQUE constraint failed: t.a, t.b (2067)".
func sqliteConstraintKey(msg string) string {
	_, key, ok := strings.Cut(msg, sqliteUniquePrefix)
	if !ok {
		return ""
	}
	if i := strings.LastIndex(key, " ("); i >= 0 && strings.HasSuffix(key, ")") {
		key = key[:i]
	}
	return strings.TrimSpace(key)
}

// IsCheckViolation reports whether err is a CHECK constraint failure.
func IsCheckViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgCheckViolation
	}
	var sqliteErr *msqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_CHECK
}

// IsSerializationFailure reports whether a PostgreSQL SERIALIZABLE transaction
// lost a conflict and was aborted.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgSerializationFailure
}

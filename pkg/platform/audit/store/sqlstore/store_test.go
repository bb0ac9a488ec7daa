package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"stargate/internal/platform/database"
	audit "stargate/pkg/platform/audit"
	txcontext "stargate/pkg/platform/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*Store, *database.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "logs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return New(db), db
}

func TestAppendAndListRecent(t *testing.T) {
	ctx := context.Background()
	store, _ := newSQLiteStore(t)
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	info := audit.Info("Successfully created person", "Successfully created person with name Steve")
	info.Timestamp = at
	info.RequestID = "req-1"
	require.NoError(t, store.Append(ctx, info))

	failure := audit.Error("Error when creating astronaut duty", "Failed to create astronaut duty for Steve", errors.New("boom"))
	failure.Timestamp = at.Add(time.Minute)
	require.NoError(t, store.Append(ctx, failure))

	events, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, audit.SeverityError, events[0].Severity)
	assert.Equal(t, "boom", events[0].Exception)
	assert.True(t, at.Add(time.Minute).Equal(events[0].Timestamp))

	assert.Equal(t, audit.SeverityInfo, events[1].Severity)
	assert.Empty(t, events[1].Exception)
	assert.Equal(t, "req-1", events[1].RequestID)
}

func TestAppendInsideRolledBackTransactionIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store, db := newSQLiteStore(t)

	sqlTx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.Append(txcontext.WithTx(ctx, sqlTx), audit.Info("inside", "")))
	require.NoError(t, sqlTx.Rollback())

	require.NoError(t, store.Append(ctx, audit.Info("outside", "")))

	events, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "outside", events[0].Message)
}

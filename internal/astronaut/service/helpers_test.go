package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stargate/internal/astronaut/models"
	"stargate/internal/astronaut/store"
	"stargate/internal/platform/database"
)

func newMemoryStore(*testing.T) store.TxStore {
	return store.NewInMemory()
}

func newSQLiteStore(t *testing.T) store.TxStore {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "stargate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return store.NewSQL(db, 0)
}

func day(v string) time.Time {
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(v string) *time.Time {
	t := day(v)
	return &t
}

func dutyCmd(name, rank, title, start string) models.CreateDutyCommand {
	return models.CreateDutyCommand{Name: name, Rank: rank, DutyTitle: title, DutyStartDate: day(start)}
}

func duty(id int64, rank, title, start string, end *time.Time) *models.AstronautDuty {
	return &models.AstronautDuty{ID: id, PersonID: 1, Rank: rank, DutyTitle: title, DutyStartDate: day(start), DutyEndDate: end}
}

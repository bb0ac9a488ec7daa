package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"stargate/internal/platform/database"
)

func newSQLiteStore(t *testing.T) TxStore {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "stargate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return NewSQL(db, 0)
}

func TestSQLiteStoreContract(t *testing.T) {
	suite.Run(t, &storeContractSuite{newStore: newSQLiteStore})
}

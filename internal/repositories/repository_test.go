package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"portal/config"
	"portal/internal/database"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDbPath: filepath.Join(t.TempDir(), "repositories.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate()
	require.NoError(t, err)

	return db
}

// backdate rewrites a record's submission time, which the repositories
// themselves never allow.
func backdate(t *testing.T, db database.DB, table, id string, at time.Time) {
	t.Helper()
	require.NoError(t, db.SQL.WithContext(context.Background()).
		Table(table).
		Where("id = ?", id).
		Update("submitted_at", at.UTC()).Error)
}

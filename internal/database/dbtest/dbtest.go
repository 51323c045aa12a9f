// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/robalyx/unbanmanager/internal/database"
	"github.com/robalyx/unbanmanager/internal/setup/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// NewClient returns a client backed by a fresh in-memory SQLite database.
// The database is closed when the test finishes.
func NewClient(t *testing.T) database.Client {
	t.Helper()

	cfg := &config.CommonConfig{
		Storage: config.Storage{Driver: config.DriverSQLite},
		SQLite:  config.SQLite{Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared"},
	}

	db, err := database.Open(cfg)
	require.NoError(t, err)

	client, err := database.NewClient(t.Context(), db, zaptest.NewLogger(t), true)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

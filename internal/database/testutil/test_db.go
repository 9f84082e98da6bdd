package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/internal/database"
)

// TestDBOption customises the behaviour of MustOpenTestDB.
type TestDBOption func(*testDBConfig)

type testDBConfig struct {
	seedDemo bool
}

// WithDemoData seeds the demonstration accounts after migrating.
func WithDemoData() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.seedDemo = true
	}
}

// MustOpenTestDB opens a migrated in-memory SQLite database for tests.
// The returned connection is automatically closed via t.Cleanup.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	cfg := testDBConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := database.Open(database.Config{Driver: "sqlite", RetryAttempts: 1})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrateAndSeed(db, cfg.seedDemo))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

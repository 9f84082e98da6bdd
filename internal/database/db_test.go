package database

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardrobify/wardrobify/internal/models"
)

func TestOpenUnsupportedDriverWrapsConnectFailed(t *testing.T) {
	_, err := Open(Config{
		Driver:        "oracle",
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConnectFailed))
	require.Contains(t, err.Error(), "after 2 attempts")
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", RetryAttempts: 1})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, sqlDB.Ping())
}

func TestAutoMigrateAndSeedIsIdempotent(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", RetryAttempts: 1})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrateAndSeed(db, true))
	require.NoError(t, AutoMigrateAndSeed(db, true))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.EqualValues(t, 2, users)

	var sensors int64
	require.NoError(t, db.Model(&models.Sensor{}).Count(&sensors).Error)
	require.EqualValues(t, 2, sensors)
}

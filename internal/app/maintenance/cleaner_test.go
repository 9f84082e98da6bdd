package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	iauth "github.com/wardrobify/wardrobify/internal/auth"
	"github.com/wardrobify/wardrobify/internal/database/testutil"
	"github.com/wardrobify/wardrobify/internal/models"
	"github.com/wardrobify/wardrobify/internal/services"
)

func TestCleanerRunOnceSweepsStaleRows(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	sessions, err := iauth.NewSessionService(db, iauth.SessionConfig{})
	require.NoError(t, err)
	readings, err := services.NewReadingService(db)
	require.NoError(t, err)

	user := &models.User{Username: "sweeper", Password: "hashed", Email: "sweeper@example.com", Location: "San Diego"}
	require.NoError(t, db.Create(user).Error)

	now := time.Now()
	require.NoError(t, db.Create(&models.Session{ID: "stale", UserID: user.ID, LastAccess: now.Add(-30 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Session{ID: "live", UserID: user.ID, LastAccess: now}).Error)
	require.NoError(t, db.Create(&models.Reading{Address: "a", Type: "Temperature", Value: 1, Timestamp: now.Add(-72 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Reading{Address: "a", Type: "Temperature", Value: 2, Timestamp: now}).Error)

	cleaner := NewCleaner(sessions, readings, WithReadingRetention(48*time.Hour))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var sessionIDs []string
	require.NoError(t, db.Model(&models.Session{}).Pluck("id", &sessionIDs).Error)
	require.Equal(t, []string{"live"}, sessionIDs)

	var readingCount int64
	require.NoError(t, db.Model(&models.Reading{}).Count(&readingCount).Error)
	require.EqualValues(t, 1, readingCount)
}

func TestCleanerStartSchedulesSweep(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	sessions, err := iauth.NewSessionService(db, iauth.SessionConfig{})
	require.NoError(t, err)

	cleaner := NewCleaner(sessions, nil, WithSchedule("@every 10ms"))
	require.NoError(t, cleaner.Start())
	t.Cleanup(func() { <-cleaner.Stop().Done() })

	user := &models.User{Username: "scheduled", Password: "hashed", Email: "scheduled@example.com", Location: "San Diego"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Session{ID: "old", UserID: user.ID, LastAccess: time.Now().Add(-48 * time.Hour)}).Error)

	require.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&models.Session{}).Where("id = ?", "old").Count(&count).Error; err != nil {
			return false
		}
		return count == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCleanerWithNilDependencies(t *testing.T) {
	cleaner := NewCleaner(nil, nil)
	require.NoError(t, cleaner.Start())
	require.NoError(t, cleaner.RunOnce(context.Background()))
}

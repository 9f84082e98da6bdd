package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/internal/database/testutil"
	"github.com/wardrobify/wardrobify/internal/models"
)

func newTestSessionService(t *testing.T, db *gorm.DB, clock func() time.Time) *SessionService {
	t.Helper()

	svc, err := NewSessionService(db, SessionConfig{Clock: clock})
	require.NoError(t, err)
	return svc
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Password: "hashed",
		Email:    username + "@example.com",
		Location: "San Diego",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateEnforcesSingleActiveSession(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc := newTestSessionService(t, db, time.Now)
	user := createTestUser(t, db, "single-session")

	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	second, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// The first token must no longer resolve.
	_, err = svc.Resolve(ctx, first)
	require.ErrorIs(t, err, ErrSessionNotFound)

	identity, err := svc.Resolve(ctx, second)
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, "single-session", identity.Username)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestResolveRejectsExpiredSessionWithRowPresent(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	now := time.Now()
	svc := newTestSessionService(t, db, func() time.Time { return now })
	user := createTestUser(t, db, "expired-session")

	ctx := context.Background()

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	stale := now.Add(-25 * time.Hour)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", token).Update("last_access", stale).Error)

	_, err = svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrSessionExpired)

	// The row physically remains until deleted or swept.
	var count int64
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", token).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestResolveRejectsDanglingSession(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc := newTestSessionService(t, db, time.Now)
	user := createTestUser(t, db, "dangling")

	ctx := context.Background()

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	// Remove the user without cascading, leaving the session row dangling.
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Exec("DELETE FROM users WHERE id = ?", user.ID).Error)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	_, err = svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrSessionOrphaned)
}

func TestExtendUnknownTokenReturnsFalseWithoutError(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc := newTestSessionService(t, db, time.Now)

	ok, err := svc.Extend(context.Background(), "no-such-token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveExtendsLastAccess(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	now := time.Now()
	svc := newTestSessionService(t, db, func() time.Time { return now })
	user := createTestUser(t, db, "sliding")

	ctx := context.Background()

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	earlier := now.Add(-12 * time.Hour)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", token).Update("last_access", earlier).Error)

	_, err = svc.Resolve(ctx, token)
	require.NoError(t, err)

	// The bump is asynchronous; poll briefly.
	require.Eventually(t, func() bool {
		var session models.Session
		if err := db.First(&session, "id = ?", token).Error; err != nil {
			return false
		}
		return session.LastAccess.After(earlier)
	}, time.Second, 10*time.Millisecond)
}

func TestDeleteForUserRemovesAllSessions(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc := newTestSessionService(t, db, time.Now)
	user := createTestUser(t, db, "delete-all")

	ctx := context.Background()

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteForUser(ctx, user.ID))

	_, err = svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCleanupExpiredSweepsOnlyStaleRows(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	now := time.Now()
	svc := newTestSessionService(t, db, func() time.Time { return now })
	user := createTestUser(t, db, "sweep")
	other := createTestUser(t, db, "sweep-live")

	ctx := context.Background()

	staleToken, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", staleToken).Update("last_access", now.Add(-25*time.Hour)).Error)

	liveToken, err := svc.Create(ctx, other.ID)
	require.NoError(t, err)

	removed, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, err = svc.Resolve(ctx, liveToken)
	require.NoError(t, err)
}

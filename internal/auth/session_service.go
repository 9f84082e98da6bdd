package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/internal/models"
	"github.com/wardrobify/wardrobify/pkg/crypto"
	"github.com/wardrobify/wardrobify/pkg/logger"
)

// DefaultSessionTTL is the sliding expiry window: a session becomes invalid
// once its last access is older than this, checked at read time.
const DefaultSessionTTL = 24 * time.Hour

// DefaultTokenLength is the byte length of generated session tokens.
const DefaultTokenLength = 32

var (
	// ErrSessionNotFound indicates that no session matches the provided token.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrSessionExpired signals that the session's last access is older than the expiry window.
	ErrSessionExpired = errors.New("session: expired")
	// ErrSessionOrphaned marks a session whose owning user no longer exists.
	ErrSessionOrphaned = errors.New("session: user no longer exists")
)

var errSessionCacheMiss = errors.New("session cache miss")

// SessionCache is an optional read-through cache for session rows keyed by token.
type SessionCache interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Set(ctx context.Context, session *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// Identity is the authenticated principal attached to a request after the
// guard resolves a session token.
type Identity struct {
	UserID   string
	Username string
}

// SessionConfig describes tunable behaviour for the SessionService.
type SessionConfig struct {
	TTL         time.Duration
	TokenLength int
	Clock       func() time.Time
	Cache       SessionCache
}

// SessionService manages the lifecycle of cookie sessions: creation with the
// single-active-session policy, read-time expiry, sliding extension, and
// deletion.
type SessionService struct {
	db       *gorm.DB
	ttl      time.Duration
	tokenLen int
	now      func() time.Time
	cache    SessionCache
	log      *zap.Logger
}

// NewSessionService constructs a session manager backed by the provided database.
func NewSessionService(db *gorm.DB, cfg SessionConfig) (*SessionService, error) {
	if db == nil {
		return nil, errors.New("session service: db is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	length := cfg.TokenLength
	if length <= 0 {
		length = DefaultTokenLength
	}

	clock := time.Now
	if cfg.Clock != nil {
		clock = cfg.Clock
	}

	return &SessionService{
		db:       db,
		ttl:      ttl,
		tokenLen: length,
		now:      clock,
		cache:    cfg.Cache,
		log:      logger.WithModule("auth"),
	}, nil
}

// TTL returns the configured sliding expiry window.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create replaces any existing sessions for the user with a single fresh one
// and returns the new token. The delete is issued and completed before the
// insert inside one transaction, upholding the single-active-session policy.
// Two racing logins may briefly leave both tokens valid; the last writer wins.
func (s *SessionService) Create(ctx context.Context, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("session service: user id is required")
	}

	token, err := crypto.GenerateToken(s.tokenLen)
	if err != nil {
		return "", fmt.Errorf("session service: generate token: %w", err)
	}

	stale, err := s.tokensForUser(ctx, userID)
	if err != nil {
		return "", err
	}

	session := &models.Session{
		ID:         token,
		UserID:     userID,
		LastAccess: s.now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
	if err != nil {
		return "", fmt.Errorf("session service: create session: %w", err)
	}

	s.invalidate(ctx, stale...)

	return token, nil
}

// Resolve validates a session token and returns the identity it belongs to.
// A missing row, a last access older than the TTL, or a deleted owning user
// all yield an unauthenticated outcome; the caller decides how to surface it.
// Successful resolution asynchronously bumps last access (sliding expiry);
// a failed bump never fails the request.
func (s *SessionService) Resolve(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.now().Sub(session.LastAccess) > s.ttl {
		return nil, ErrSessionExpired
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, "id = ?", session.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionOrphaned
	}
	if err != nil {
		return nil, fmt.Errorf("session service: load user: %w", err)
	}

	go func() {
		if ok, err := s.Extend(context.Background(), token); err != nil {
			s.log.Warn("session extension failed", zap.Error(err))
		} else if !ok {
			s.log.Debug("session vanished before extension")
		}
	}()

	return &Identity{UserID: user.ID, Username: user.Username}, nil
}

// Extend bumps the session's last access to now. Returns false when the
// token is unknown; never fatal to the caller's request.
func (s *SessionService) Extend(ctx context.Context, token string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", token).
		Update("last_access", s.now())
	if result.Error != nil {
		return false, fmt.Errorf("session service: extend: %w", result.Error)
	}

	s.invalidate(ctx, token)

	return result.RowsAffected > 0, nil
}

// Delete removes the session row for the supplied token, if any.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", token).Error; err != nil {
		return fmt.Errorf("session service: delete: %w", err)
	}
	s.invalidate(ctx, token)
	return nil
}

// DeleteForUser removes every session owned by the user.
func (s *SessionService) DeleteForUser(ctx context.Context, userID string) error {
	stale, err := s.tokensForUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("session service: delete for user: %w", err)
	}

	s.invalidate(ctx, stale...)
	return nil
}

// CleanupExpired deletes session rows whose last access is already past the
// expiry window. Those rows are unreadable through Resolve regardless; this
// is storage hygiene for the maintenance sweep.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.ttl)
	result := s.db.WithContext(ctx).
		Where("last_access < ?", cutoff).
		Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("session service: cleanup expired: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SessionService) lookup(ctx context.Context, token string) (*models.Session, error) {
	if s.cache != nil {
		if session, err := s.cache.Get(ctx, token); err == nil {
			return session, nil
		} else if !errors.Is(err, errSessionCacheMiss) {
			s.log.Warn("session cache read failed", zap.Error(err))
		}
	}

	var session models.Session
	err := s.db.WithContext(ctx).First(&session, "id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session service: load session: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, &session, sessionCacheTTL); err != nil {
			s.log.Warn("session cache write failed", zap.Error(err))
		}
	}

	return &session, nil
}

func (s *SessionService) tokensForUser(ctx context.Context, userID string) ([]string, error) {
	if s.cache == nil {
		return nil, nil
	}

	var tokens []string
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("user_id = ?", userID).
		Pluck("id", &tokens).Error
	if err != nil {
		return nil, fmt.Errorf("session service: list sessions: %w", err)
	}
	return tokens, nil
}

func (s *SessionService) invalidate(ctx context.Context, tokens ...string) {
	if s.cache == nil {
		return
	}
	for _, token := range tokens {
		if err := s.cache.Delete(ctx, token); err != nil {
			s.log.Warn("session cache invalidation failed", zap.Error(err))
		}
	}
}

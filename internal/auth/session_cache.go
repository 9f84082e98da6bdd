package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wardrobify/wardrobify/internal/cache"
	"github.com/wardrobify/wardrobify/internal/models"
)

const sessionCacheKeyPrefix = "auth:sessions:"

// sessionCacheTTL keeps cached rows short-lived so the sliding last-access
// bump is observed promptly by subsequent reads.
const sessionCacheTTL = 30 * time.Second

// NewStoreSessionCache wraps a cache.Store inside a SessionCache implementation.
func NewStoreSessionCache(store cache.Store) SessionCache {
	if store == nil {
		return nil
	}
	return &storeSessionCache{store: store}
}

type storeSessionCache struct {
	store cache.Store
}

func (c *storeSessionCache) Get(ctx context.Context, token string) (*models.Session, error) {
	key := sessionCacheKey(token)
	if key == "" {
		return nil, errSessionCacheMiss
	}

	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errSessionCacheMiss
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("session cache: decode: %w", err)
	}
	return &session, nil
}

func (c *storeSessionCache) Set(ctx context.Context, session *models.Session, ttl time.Duration) error {
	if session == nil {
		return errors.New("session cache: session is nil")
	}
	key := sessionCacheKey(session.ID)
	if key == "" {
		return errors.New("session cache: token missing")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session cache: marshal: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Second
	}

	return c.store.Set(ctx, key, payload, ttl)
}

func (c *storeSessionCache) Delete(ctx context.Context, token string) error {
	key := sessionCacheKey(token)
	if key == "" {
		return nil
	}
	return c.store.Delete(ctx, key)
}

func sessionCacheKey(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	return sessionCacheKeyPrefix + token
}

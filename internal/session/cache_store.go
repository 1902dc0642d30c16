package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// CacheStore is a bigcache-backed store for single-process deployments
// that want bounded memory without running redis. Sessions do not survive
// a restart; clients simply log in again.
type CacheStore struct {
	cache *bigcache.BigCache
}

// NewCacheStore creates a bigcache-backed session store. lifeWindow
// should be at least the configured session lifetime; Get enforces the
// per-session expiry regardless of cache eviction timing.
func NewCacheStore(lifeWindow time.Duration) (*CacheStore, error) {
	cache, err := bigcache.New(
		context.Background(),
		bigcache.DefaultConfig(lifeWindow),
	)
	if err != nil {
		return nil, fmt.Errorf("session: cache init: %w", err)
	}
	return &CacheStore{cache: cache}, nil
}

func (c *CacheStore) Create(ctx context.Context, s Session) error {
	if s.Token == "" || s.UserID == "" {
		return fmt.Errorf("session: missing token or user_id")
	}

	if _, err := c.cache.Get(s.Token); err == nil {
		return ErrTokenExists
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return c.cache.Set(s.Token, data)
}

func (c *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	val, err := c.cache.Get(token)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	if s.IsExpired() {
		_ = c.cache.Delete(token)
		return nil, ErrExpired
	}

	return &s, nil
}

func (c *CacheStore) Delete(ctx context.Context, token string) error {
	err := c.cache.Delete(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

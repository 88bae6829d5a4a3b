package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemorySessionStore implements SessionStore using ttlcache.
type MemorySessionStore struct {
	cache *ttlcache.Cache[string, *SessionEntry]
}

// NewMemorySessionStore creates a new in-memory session store with automatic
// cleanup.
//
//nolint:ireturn
func NewMemorySessionStore(cleanupInterval time.Duration) SessionStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *SessionEntry](cleanupInterval),
		ttlcache.WithDisableTouchOnHit[string, *SessionEntry](),
	)

	// Start the cleanup process
	go cache.Start()

	return &MemorySessionStore{
		cache: cache,
	}
}

// Set implements SessionStore.Set.
func (s *MemorySessionStore) Set(_ context.Context, entry *SessionEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	s.cache.Set(HashToken(entry.TokenValue), entry, ttl)
	return nil
}

// Get implements SessionStore.Get.
func (s *MemorySessionStore) Get(_ context.Context, token string) (*SessionEntry, error) {
	item := s.cache.Get(HashToken(token))
	if item == nil {
		return nil, fmt.Errorf("session not found")
	}

	entry := item.Value()
	entry.LastUsedAt = time.Now().UTC()

	return entry, nil
}

// Delete removes a session from the cache.
func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.cache.Delete(HashToken(token))

	return nil
}

// DeleteExpired removes all expired sessions from the cache.
func (s *MemorySessionStore) DeleteExpired(_ context.Context) error {
	// ttlcache handles expiration automatically
	s.cache.DeleteExpired()

	return nil
}

// Clear removes all sessions from the cache.
func (s *MemorySessionStore) Clear(_ context.Context) error {
	s.cache.DeleteAll()

	return nil
}

// Count counts the number of sessions in the cache.
func (s *MemorySessionStore) Count(_ context.Context) int {
	return s.cache.Len()
}

// Close stops the cleanup goroutine.
func (s *MemorySessionStore) Close() error {
	s.cache.Stop()

	return nil
}

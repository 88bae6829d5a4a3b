package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulsedash/pulsedash/cache"
)

// SessionStore implements cache.SessionStore using Redis.
type SessionStore struct {
	client *redis.Client
	prefix string // optional prefix for keys
}

// NewSessionStore creates a new [SessionStore] instance.
func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

// redisKey returns the Redis key for a given token.
func (r *SessionStore) redisKey(token string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, cache.HashToken(token))
}

// Set stores a session entry in Redis with an expiry matching the token's.
func (r *SessionStore) Set(ctx context.Context, entry *cache.SessionEntry) error {
	key := r.redisKey(entry.TokenValue)

	fields := map[string]interface{}{
		"id":           entry.ID,
		"user_id":      entry.UserID,
		"expires_at":   entry.ExpiresAt.Unix(),
		"is_revoked":   strconv.FormatBool(entry.IsRevoked),
		"created_at":   entry.CreatedAt.Unix(),
		"last_used_at": time.Now().UTC().Unix(),
	}

	if _, err := r.client.HSet(ctx, key, fields).Result(); err != nil {
		return fmt.Errorf("failed to set session in Redis: %w", err)
	}

	if _, err := r.client.Expire(ctx, key, time.Until(entry.ExpiresAt)).Result(); err != nil {
		return fmt.Errorf("failed to set expiry for session in Redis: %w", err)
	}

	return nil
}

// Get retrieves a session entry from Redis.
func (r *SessionStore) Get(ctx context.Context, token string) (*cache.SessionEntry, error) {
	key := r.redisKey(token)

	res, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("session not found")
	}

	expiresAtUnix, err := strconv.ParseInt(res["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed session entry: %w", err)
	}
	createdAtUnix, _ := strconv.ParseInt(res["created_at"], 10, 64)
	isRevoked, _ := strconv.ParseBool(res["is_revoked"])

	entry := &cache.SessionEntry{
		ID:         res["id"],
		TokenValue: token,
		UserID:     res["user_id"],
		ExpiresAt:  time.Unix(expiresAtUnix, 0).UTC(),
		IsRevoked:  isRevoked,
		CreatedAt:  time.Unix(createdAtUnix, 0).UTC(),
		LastUsedAt: time.Now().UTC(),
	}

	r.client.HSet(ctx, key, "last_used_at", entry.LastUsedAt.Unix())

	return entry, nil
}

// Delete removes a session from Redis.
func (r *SessionStore) Delete(ctx context.Context, token string) error {
	if _, err := r.client.Del(ctx, r.redisKey(token)).Result(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts expired keys itself.
func (r *SessionStore) DeleteExpired(_ context.Context) error {
	return nil
}

// Clear removes all sessions under this store's prefix.
func (r *SessionStore) Clear(ctx context.Context) error {
	pattern := fmt.Sprintf("%s:session:*", r.prefix)

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if _, err := r.client.Del(ctx, iter.Val()).Result(); err != nil {
			return fmt.Errorf("failed to delete session key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan session keys: %w", err)
	}
	return nil
}

// Count counts sessions under this store's prefix.
func (r *SessionStore) Count(ctx context.Context) int {
	pattern := fmt.Sprintf("%s:session:*", r.prefix)

	count := 0
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count
}

var _ cache.SessionStore = (*SessionStore)(nil)

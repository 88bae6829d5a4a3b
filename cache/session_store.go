package cache

import (
	"context"
	"time"
)

// SessionEntry represents a cached session token entry.
type SessionEntry struct {
	ID         string    `redis:"id"`         // JWT JTI
	TokenValue string    `redis:"tokenValue"` // the signed token
	UserID     string    `redis:"userId"`     // session subject
	ExpiresAt  time.Time `redis:"expiresAt"`  // expiration timestamp
	IsRevoked  bool      `redis:"isRevoked"`  // whether the session was logged out
	CreatedAt  time.Time `redis:"createdAt"`  // creation timestamp
	LastUsedAt time.Time `redis:"lastUsedAt"` // last usage timestamp
}

// SessionStore caches issued session tokens so validation can skip signature
// checks on the hot path and so revocation takes effect before expiry.
type SessionStore interface {
	Set(ctx context.Context, entry *SessionEntry) error
	Get(ctx context.Context, token string) (*SessionEntry, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) int
}

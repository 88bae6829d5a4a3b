package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(token, userID string, ttl time.Duration) *SessionEntry {
	now := time.Now().UTC()
	return &SessionEntry{
		ID:         "jti-" + token,
		TokenValue: token,
		UserID:     userID,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		LastUsedAt: now,
	}
}

func TestMemorySessionStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)

	require.NoError(t, store.Set(ctx, newEntry("token-1", "user-1", time.Hour)))

	entry, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "token-1", entry.TokenValue)
}

func TestMemorySessionStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)

	_, err := store.Get(ctx, "never-stored")
	assert.Error(t, err)
}

func TestMemorySessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)

	require.NoError(t, store.Set(ctx, newEntry("token-1", "user-1", time.Hour)))
	require.NoError(t, store.Delete(ctx, "token-1"))

	_, err := store.Get(ctx, "token-1")
	assert.Error(t, err)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)

	require.NoError(t, store.Set(ctx, newEntry("token-1", "user-1", 20*time.Millisecond)))

	time.Sleep(50 * time.Millisecond)

	_, err := store.Get(ctx, "token-1")
	assert.Error(t, err)
}

func TestMemorySessionStore_CountAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)

	require.NoError(t, store.Set(ctx, newEntry("token-1", "user-1", time.Hour)))
	require.NoError(t, store.Set(ctx, newEntry("token-2", "user-2", time.Hour)))
	assert.Equal(t, 2, store.Count(ctx))

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 0, store.Count(ctx))
}

func TestMemorySessionStore_OverwriteSameToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)

	entry := newEntry("token-1", "user-1", time.Hour)
	require.NoError(t, store.Set(ctx, entry))

	entry.IsRevoked = true
	require.NoError(t, store.Set(ctx, entry))

	got, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, got.IsRevoked)
	assert.Equal(t, 1, store.Count(ctx))
}

package domain

import "context"

// UserRepository persists user records, their platform connections and
// dashboard preferences.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// AddProvider appends provider to the user's provider set. Adding a
	// provider that is already present is a no-op.
	AddProvider(ctx context.Context, userID, provider string) error
	SetPreferences(ctx context.Context, userID string, prefs DashboardPreferences) error
	// SetConnection merges one platform's connection without disturbing the
	// connections of other platforms.
	SetConnection(ctx context.Context, userID string, platform Platform, conn Connection) error
	RemoveConnection(ctx context.Context, userID string, platform Platform) error
}

// MarketingDataRepository persists per-day metric snapshots. Every read and
// write is scoped to the owning user; an id that exists under a different
// owner behaves exactly like a missing record.
type MarketingDataRepository interface {
	Create(ctx context.Context, data *MarketingData) error
	// Query returns matching records newest-first, bounded to a fixed page
	// size of 100.
	Query(ctx context.Context, userID string, filter MarketingDataFilter) ([]*MarketingData, error)
	// Update applies a partial merge of payload fields onto the record.
	Update(ctx context.Context, id, userID string, fields map[string]any) (*MarketingData, error)
	Delete(ctx context.Context, id, userID string) error
}

// AIContentRepository persists generated content drafts.
type AIContentRepository interface {
	Create(ctx context.Context, content *AIContent) error
	GetByIDForUser(ctx context.Context, id, userID string) (*AIContent, error)
	// List returns one 1-indexed page of drafts newest-first plus the total
	// match count, computed independently of the page slice.
	List(ctx context.Context, userID string, filter AIContentFilter, page, limit int) ([]*AIContent, int64, error)
	// Replace stores the full record if the stored version still equals
	// expectedVersion, guarding against concurrent lost updates. A version
	// mismatch is ErrConflict.
	Replace(ctx context.Context, content *AIContent, expectedVersion int) error
	Delete(ctx context.Context, id, userID string) error
}

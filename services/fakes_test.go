package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pulsedash/pulsedash/domain"
	apperr "github.com/pulsedash/pulsedash/errors"
)

// --- In-memory fakes ---

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("user-%d", r.seq)
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperr.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = r.nextID()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeUserRepo) AddProvider(_ context.Context, userID, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	for _, p := range u.Providers {
		if p == provider {
			return nil
		}
	}
	u.Providers = append(u.Providers, provider)
	return nil
}

func (r *fakeUserRepo) SetPreferences(_ context.Context, userID string, prefs domain.DashboardPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	u.Preferences = prefs
	return nil
}

func (r *fakeUserRepo) SetConnection(_ context.Context, userID string, platform domain.Platform, conn domain.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	if u.Connections == nil {
		u.Connections = map[string]domain.Connection{}
	}
	u.Connections[string(platform)] = conn
	return nil
}

func (r *fakeUserRepo) RemoveConnection(_ context.Context, userID string, platform domain.Platform) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	delete(u.Connections, string(platform))
	return nil
}

var _ domain.UserRepository = (*fakeUserRepo)(nil)

type fakeMarketingRepo struct {
	mu      sync.Mutex
	seq     int
	records []*domain.MarketingData
}

func newFakeMarketingRepo() *fakeMarketingRepo {
	return &fakeMarketingRepo{}
}

func (r *fakeMarketingRepo) Create(_ context.Context, data *domain.MarketingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if data.ID == "" {
		data.ID = fmt.Sprintf("md-%d", r.seq)
	}
	clone := *data
	r.records = append(r.records, &clone)
	return nil
}

func (r *fakeMarketingRepo) Query(_ context.Context, userID string, filter domain.MarketingDataFilter) ([]*domain.MarketingData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.MarketingData
	// Newest-first: iterate in reverse insertion order.
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if rec.UserID != userID {
			continue
		}
		if filter.Platform != "" && rec.Platform != filter.Platform {
			continue
		}
		if filter.DataType != "" && rec.DataType != filter.DataType {
			continue
		}
		if !filter.StartDate.IsZero() && rec.Date.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && rec.Date.After(filter.EndDate) {
			continue
		}
		clone := *rec
		out = append(out, &clone)
		if len(out) == 100 {
			break
		}
	}
	return out, nil
}

func (r *fakeMarketingRepo) Update(_ context.Context, id, userID string, fields map[string]any) (*domain.MarketingData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID != id || rec.UserID != userID {
			continue
		}
		for name, value := range fields {
			switch name {
			case "date":
				rec.Date = value.(time.Time)
			case "analytics":
				rec.Analytics = value.(*domain.AnalyticsMetrics)
			case "social_metrics":
				rec.SocialMetrics = value.(*domain.SocialMetrics)
			case "ads_metrics":
				rec.AdsMetrics = value.(*domain.AdsMetrics)
			}
		}
		clone := *rec
		return &clone, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeMarketingRepo) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

var _ domain.MarketingDataRepository = (*fakeMarketingRepo)(nil)

type fakeContentRepo struct {
	mu      sync.Mutex
	seq     int
	records []*domain.AIContent
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{}
}

func cloneContent(c *domain.AIContent) *domain.AIContent {
	clone := *c
	clone.History = append([]domain.ContentRevision(nil), c.History...)
	return &clone
}

func (r *fakeContentRepo) Create(_ context.Context, content *domain.AIContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if content.ID == "" {
		content.ID = fmt.Sprintf("ai-%d", r.seq)
	}
	r.records = append(r.records, cloneContent(content))
	return nil
}

func (r *fakeContentRepo) GetByIDForUser(_ context.Context, id, userID string) (*domain.AIContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			return cloneContent(rec), nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeContentRepo) List(_ context.Context, userID string, filter domain.AIContentFilter, page, limit int) ([]*domain.AIContent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.AIContent
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if rec.UserID != userID {
			continue
		}
		if filter.Platform != "" && rec.Platform != filter.Platform {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		matched = append(matched, cloneContent(rec))
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeContentRepo) Replace(_ context.Context, content *domain.AIContent, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.records {
		if rec.ID != content.ID || rec.UserID != content.UserID {
			continue
		}
		if rec.Version != expectedVersion {
			return apperr.ErrConflict
		}
		r.records[i] = cloneContent(content)
		return nil
	}
	return apperr.ErrNotFound
}

func (r *fakeContentRepo) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

var _ domain.AIContentRepository = (*fakeContentRepo)(nil)

// fakeGenerator returns a canned result, or an error when Err is set.
type fakeGenerator struct {
	Result string
	Err    error

	// captured call arguments
	LastSystem    string
	LastPrompt    string
	LastMaxTokens int
	LastTemp      float32
	Calls         int
}

func (g *fakeGenerator) Generate(_ context.Context, systemInstruction, userPrompt string, maxTokens int, temperature float32) (string, error) {
	g.Calls++
	g.LastSystem = systemInstruction
	g.LastPrompt = userPrompt
	g.LastMaxTokens = maxTokens
	g.LastTemp = temperature
	if g.Err != nil {
		return "", g.Err
	}
	return g.Result, nil
}

var _ ContentGenerator = (*fakeGenerator)(nil)

// testHasher is a real bcrypt hasher at minimum cost to keep tests fast.
type testHasher struct{}

func (testHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(b), err
}

func (testHasher) Verify(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var _ PasswordHasher = testHasher{}

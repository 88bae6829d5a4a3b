package echo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pulsedash/pulsedash/cache"
	"github.com/pulsedash/pulsedash/domain"
	apperr "github.com/pulsedash/pulsedash/errors"
	"github.com/pulsedash/pulsedash/services"
)

// In-memory repository doubles for handler tests. Same shape as the service
// package's test fakes; duplicated here to keep the test packages
// independent.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperr.ErrEmailTaken
		}
	}
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
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

func (r *memUserRepo) AddProvider(_ context.Context, userID, provider string) error {
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

func (r *memUserRepo) SetPreferences(_ context.Context, userID string, prefs domain.DashboardPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	u.Preferences = prefs
	return nil
}

func (r *memUserRepo) SetConnection(_ context.Context, userID string, platform domain.Platform, conn domain.Connection) error {
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

func (r *memUserRepo) RemoveConnection(_ context.Context, userID string, platform domain.Platform) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	delete(u.Connections, string(platform))
	return nil
}

type memMarketingRepo struct {
	mu      sync.Mutex
	seq     int
	records []*domain.MarketingData
}

func newMemMarketingRepo() *memMarketingRepo {
	return &memMarketingRepo{}
}

func (r *memMarketingRepo) Create(_ context.Context, data *domain.MarketingData) error {
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

func (r *memMarketingRepo) Query(_ context.Context, userID string, filter domain.MarketingDataFilter) ([]*domain.MarketingData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.MarketingData
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
	}
	return out, nil
}

func (r *memMarketingRepo) Update(_ context.Context, id, userID string, fields map[string]any) (*domain.MarketingData, error) {
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

func (r *memMarketingRepo) Delete(_ context.Context, id, userID string) error {
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

type memContentRepo struct {
	mu      sync.Mutex
	seq     int
	records []*domain.AIContent
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{}
}

func copyContent(c *domain.AIContent) *domain.AIContent {
	clone := *c
	clone.History = append([]domain.ContentRevision(nil), c.History...)
	return &clone
}

func (r *memContentRepo) Create(_ context.Context, content *domain.AIContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if content.ID == "" {
		content.ID = fmt.Sprintf("ai-%d", r.seq)
	}
	r.records = append(r.records, copyContent(content))
	return nil
}

func (r *memContentRepo) GetByIDForUser(_ context.Context, id, userID string) (*domain.AIContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			return copyContent(rec), nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *memContentRepo) List(_ context.Context, userID string, filter domain.AIContentFilter, page, limit int) ([]*domain.AIContent, int64, error) {
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
		matched = append(matched, copyContent(rec))
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

func (r *memContentRepo) Replace(_ context.Context, content *domain.AIContent, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.records {
		if rec.ID != content.ID || rec.UserID != content.UserID {
			continue
		}
		if rec.Version != expectedVersion {
			return apperr.ErrConflict
		}
		r.records[i] = copyContent(content)
		return nil
	}
	return apperr.ErrNotFound
}

func (r *memContentRepo) Delete(_ context.Context, id, userID string) error {
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

type stubGenerator struct {
	result string
	err    error
}

func (g *stubGenerator) Generate(_ context.Context, _, _ string, _ int, _ float32) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.result, nil
}

type bcryptTestHasher struct{}

func (bcryptTestHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(b), err
}

func (bcryptTestHasher) Verify(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var _ services.PasswordHasher = bcryptTestHasher{}

func newTestSessionService() *services.SessionService {
	signer := services.NewTokenSigner()
	signer.AddKeySigner("handler-test-secret")
	store := cache.NewMemorySessionStore(time.Minute)
	return services.NewSessionService(signer, "handler-test-secret", store, "pulsedash-test", time.Hour)
}

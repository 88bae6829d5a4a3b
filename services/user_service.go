package services

import (
	"context"

	"github.com/pulsedash/pulsedash/domain"
	apperr "github.com/pulsedash/pulsedash/errors"
)

// UserPreferences is the read view of a user's dashboard settings and
// platform connections.
type UserPreferences struct {
	DashboardPreferences domain.DashboardPreferences  `json:"dashboardPreferences"`
	Connections          map[string]domain.Connection `json:"connections"`
}

// UserService manages dashboard preferences and platform connections.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetPreferences returns the user's preferences and connections.
func (s *UserService) GetPreferences(ctx context.Context, userID string) (*UserPreferences, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	conns := user.Connections
	if conns == nil {
		conns = map[string]domain.Connection{}
	}

	return &UserPreferences{
		DashboardPreferences: user.Preferences,
		Connections:          conns,
	}, nil
}

// SetPreferences replaces the user's dashboard preferences.
func (s *UserService) SetPreferences(ctx context.Context, userID string, prefs domain.DashboardPreferences) (*domain.DashboardPreferences, error) {
	if len(prefs.Widgets) == 0 && prefs.Layout == "" {
		return nil, apperr.NewValidation("Missing dashboard preferences")
	}
	if err := s.users.SetPreferences(ctx, userID, prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SetConnection upserts one platform's connection without touching the
// others.
func (s *UserService) SetConnection(ctx context.Context, userID string, platform domain.Platform, conn domain.Connection) (map[string]domain.Connection, error) {
	if !domain.KnownPlatform(platform) {
		return nil, apperr.NewValidation("Unknown platform")
	}
	if err := s.users.SetConnection(ctx, userID, platform, conn); err != nil {
		return nil, err
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	return prefs.Connections, nil
}

// RemoveConnection unsets one platform's connection.
func (s *UserService) RemoveConnection(ctx context.Context, userID string, platform domain.Platform) (map[string]domain.Connection, error) {
	if !domain.KnownPlatform(platform) {
		return nil, apperr.NewValidation("Unknown platform")
	}
	if err := s.users.RemoveConnection(ctx, userID, platform); err != nil {
		return nil, err
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	return prefs.Connections, nil
}

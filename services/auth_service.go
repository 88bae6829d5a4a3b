package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pulsedash/pulsedash/domain"
	apperr "github.com/pulsedash/pulsedash/errors"
)

// minPasswordLength is the registration password floor.
const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RedirectPolicy rewrites post-sign-in redirect targets. Relative paths get
// the default locale prefix, same-origin absolute URLs pass through, and
// everything else falls back to the default landing path. This keeps deep
// links working without opening a redirect to foreign origins.
type RedirectPolicy struct {
	BaseURL       string
	DefaultLocale string
	LandingPath   string
}

// Resolve applies the policy to a raw redirect target.
func (p RedirectPolicy) Resolve(rawURL string) string {
	locale := p.DefaultLocale
	if locale == "" {
		locale = "en"
	}
	landing := p.LandingPath
	if landing == "" {
		landing = "/" + locale + "/dashboard/analytics"
	}

	// OAuth callback URLs pass through untouched.
	if strings.HasPrefix(rawURL, "/api/auth/callback") || strings.HasPrefix(rawURL, "/auth/") {
		return rawURL
	}

	if strings.HasPrefix(rawURL, "/") {
		path := rawURL
		if !strings.HasPrefix(path, "/"+locale) {
			path = "/" + locale + path
		}
		return p.BaseURL + path
	}

	if strings.HasPrefix(rawURL, p.BaseURL) {
		return rawURL
	}

	return p.BaseURL + landing
}

// AuthService covers both authentication paths: local credentials and
// normalized external provider assertions.
type AuthService struct {
	users    domain.UserRepository
	hasher   PasswordHasher
	sessions *SessionService
	redirect RedirectPolicy
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, hasher PasswordHasher, sessions *SessionService, redirect RedirectPolicy) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		redirect: redirect,
	}
}

// LoginWithCredentials checks an email/password pair and returns the
// minimal identity plus a session token. A missing user and a bad password
// fail the same way; only an account with no password hash gets the more
// specific error.
func (s *AuthService) LoginWithCredentials(ctx context.Context, email, password string) (*domain.Identity, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", apperr.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.PasswordHash == "" {
		return nil, "", apperr.ErrAccountNotConfigured
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := s.sessions.IssueSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return &domain.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	}, token, nil
}

// SignInWithProvider handles a normalized external sign-in assertion. A new
// email creates a user with default preferences and a single-element
// provider set; an existing user gains the provider via idempotent union.
// An assertion without an email fails closed.
func (s *AuthService) SignInWithProvider(ctx context.Context, assertion domain.ProviderAssertion) (*domain.Identity, string, error) {
	if assertion.Email == "" {
		return nil, "", apperr.ErrSignInDenied
	}

	user, err := s.users.GetUserByEmail(ctx, assertion.Email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		user = &domain.User{
			Email:       assertion.Email,
			Name:        assertion.Name,
			Image:       assertion.AvatarURL,
			Providers:   []string{assertion.Provider},
			Preferences: domain.DefaultDashboardPreferences(),
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			log.Error().Err(err).Str("email", assertion.Email).Msg("provider sign-in: user creation failed")
			return nil, "", apperr.ErrSignInDenied
		}
	case err != nil:
		return nil, "", err
	default:
		if !user.HasProvider(assertion.Provider) {
			if err := s.users.AddProvider(ctx, user.ID, assertion.Provider); err != nil {
				return nil, "", err
			}
		}
	}

	token, err := s.sessions.IssueSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return &domain.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	}, token, nil
}

// RegisterUser creates a local-credentials user.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperr.NewValidation("Missing required fields")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperr.NewValidation("Invalid email format")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.NewValidation("Password must be at least 8 characters long")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.ErrEmailTaken
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Providers:    []string{domain.ProviderCredentials},
		Preferences:  domain.DefaultDashboardPreferences(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ResolveRedirect applies the post-sign-in redirect policy.
func (s *AuthService) ResolveRedirect(rawURL string) string {
	return s.redirect.Resolve(rawURL)
}

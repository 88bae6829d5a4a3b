package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pulsedash/pulsedash/cache"
	apperr "github.com/pulsedash/pulsedash/errors"
)

// SessionService issues and validates the self-contained session tokens that
// every authenticated handler resolves the caller from. The token carries
// the user id as its subject claim and nothing else of consequence.
type SessionService struct {
	signer    *TokenSigner
	secretKey []byte
	store     cache.SessionStore
	issuer    string
	ttl       time.Duration
}

// NewSessionService creates a SessionService. store may not be nil; use the
// in-memory store when Redis is not configured.
func NewSessionService(signer *TokenSigner, secretKey string, store cache.SessionStore, issuer string, ttl time.Duration) *SessionService {
	return &SessionService{
		signer:    signer,
		secretKey: []byte(secretKey),
		store:     store,
		issuer:    issuer,
		ttl:       ttl,
	}
}

// IssueSession creates a signed session token for the user and caches it.
func (s *SessionService) IssueSession(ctx context.Context, userID string) (string, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"exp": jwt.NewNumericDate(expiresAt).Unix(),
		"iat": jwt.NewNumericDate(now).Unix(),
		"nbf": jwt.NewNumericDate(now).Unix(),
		"jti": jti,
	}

	token, err := s.signer.Sign(claims, "")
	if err != nil {
		return "", err
	}

	entry := &cache.SessionEntry{
		ID:         jti,
		TokenValue: token,
		UserID:     userID,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	if err := s.store.Set(ctx, entry); err != nil {
		// The token is still valid without the cache entry; validation
		// falls back to signature checking.
		log.Warn().Err(err).Msg("failed to cache session token")
	}

	return token, nil
}

// ValidateSession resolves the user id from a session token. The cache is
// consulted first so revoked sessions die before their expiry.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (string, error) {
	if entry, err := s.store.Get(ctx, token); err == nil {
		if entry.IsRevoked || time.Now().UTC().After(entry.ExpiresAt) {
			return "", apperr.ErrUnauthorized
		}
		return entry.UserID, nil
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrUnauthorized
		}
		return s.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", apperr.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.ErrUnauthorized
	}

	// Re-populate the cache so the next validation hits it.
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		jti, _ := claims["jti"].(string)
		_ = s.store.Set(ctx, &cache.SessionEntry{
			ID:         jti,
			TokenValue: token,
			UserID:     sub,
			ExpiresAt:  exp.Time,
			CreatedAt:  time.Now().UTC(),
			LastUsedAt: time.Now().UTC(),
		})
	}

	return sub, nil
}

// RevokeSession marks a session token revoked ahead of its expiry.
func (s *SessionService) RevokeSession(ctx context.Context, token string) error {
	entry, err := s.store.Get(ctx, token)
	if err != nil {
		// Nothing cached. Park a revoked entry for the token so validation
		// cannot resurrect it through the signature fallback.
		now := time.Now().UTC()
		expiresAt := now.Add(s.ttl)
		claims := jwt.MapClaims{}
		if _, _, perr := jwt.NewParser().ParseUnverified(token, claims); perr == nil {
			if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
				expiresAt = exp.Time
			}
		}
		jti, _ := claims["jti"].(string)
		entry = &cache.SessionEntry{
			ID:         jti,
			TokenValue: token,
			ExpiresAt:  expiresAt,
			CreatedAt:  now,
			LastUsedAt: now,
		}
	}
	entry.IsRevoked = true
	return s.store.Set(ctx, entry)
}

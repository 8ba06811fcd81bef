// Package session owns the administrator credential: it loads it from the
// local store at startup, replaces it on login and destroys it on logout or
// when the server rejects it. It is the only writer of the credential.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gymadmin/internal/common"
	"github.com/dmitrijs2005/gymadmin/internal/logging"
)

// Store is the persistence the session needs. metadata.Repository satisfies it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

type Session struct {
	mu        sync.RWMutex
	store     Store
	logger    logging.Logger
	now       func() time.Time
	token     string
	email     string
	expiresAt time.Time
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns an empty session. A nil store keeps the credential in memory
// only.
func New(store Store, opts ...Option) *Session {
	s := &Session{store: store, logger: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads a previously persisted credential. A missing credential is not
// an error; an expired one is dropped from the store.
func (s *Session) Init(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	token, err := s.store.Get(ctx, common.AccessTokenKey)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}

	email, err := s.store.Get(ctx, common.AdminEmailKey)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("load credential: %w", err)
	}

	s.mu.Lock()
	s.set(token, email)
	expired := s.expiredLocked()
	s.mu.Unlock()

	if expired {
		s.logger.Info(ctx, "stored credential expired", "email", email)
		return s.Logout(ctx)
	}
	return nil
}

// Login installs token as the current credential and persists it.
func (s *Session) Login(ctx context.Context, token, email string) error {
	if token == "" {
		return common.ErrEmptyInput
	}

	s.mu.Lock()
	s.set(token, email)
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	err := s.store.SetMany(ctx, map[string]string{
		common.AccessTokenKey: token,
		common.AdminEmailKey:  email,
	})
	if err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}

// Logout destroys the credential. The in-memory copy is always cleared, even
// if removing it from the store fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.set("", "")
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx, common.AccessTokenKey, common.AdminEmailKey); err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a credential is present and not known to
// be expired.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && !s.expiredLocked()
}

// Token returns the credential for outbound requests, or "" when the session
// is not authenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.expiredLocked() {
		return ""
	}
	return s.token
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// ExpiresAt is the token's exp claim, zero when the token has none.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) set(token, email string) {
	s.token = token
	s.email = email
	s.expiresAt = expiry(token)
}

func (s *Session) expiredLocked() bool {
	return !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt)
}

// expiry reads the exp claim without verifying the signature; the server
// remains the authority on validity. Opaque tokens have no expiry.
func expiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Package services contains application services for the gymadmin client.
// This file defines the authentication service: login against the back
// office, session revalidation and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
	"github.com/dmitrijs2005/gymadmin/internal/client/session"
	"github.com/dmitrijs2005/gymadmin/internal/logging"
)

// DefaultAuthTimeout bounds login and token verification calls.
const DefaultAuthTimeout = 5 * time.Second

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: validate credentials locally, exchange them for a token and
//     store it in the session.
//   - CheckAuth: ask the server whether the stored token is still valid;
//     an unauthorized answer clears the session.
//   - Logout: destroy the credential.
//   - IsAuthenticated: local check, never touches the network.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	CheckAuth(ctx context.Context) (*models.Admin, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session *session.Session
	timeout time.Duration
	logger  logging.Logger
}

type AuthOption func(*authService)

func WithAuthTimeout(d time.Duration) AuthOption {
	return func(a *authService) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithAuthLogger(l logging.Logger) AuthOption {
	return func(a *authService) { a.logger = l }
}

// NewAuthService constructs an AuthService bound to the given API client and
// session.
func NewAuthService(c client.Client, s *session.Session, opts ...AuthOption) AuthService {
	a := &authService{client: c, session: s, timeout: DefaultAuthTimeout, logger: logging.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	if err := models.ValidateCredentials(email, password); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, client.Message(err))
		}
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.session.Login(ctx, token, email); err != nil {
		return err
	}
	a.logger.Info(ctx, "logged in", "email", email)
	return nil
}

// CheckAuth verifies the stored credential with the server. Without a
// credential it fails with client.ErrUnauthorized and makes no call.
func (a *authService) CheckAuth(ctx context.Context) (*models.Admin, error) {
	if !a.session.IsAuthenticated() {
		return nil, client.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	admin, err := a.client.VerifyToken(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.logger.Warn(ctx, "credential rejected by server", "email", a.session.Email())
			if lerr := a.session.Logout(context.WithoutCancel(ctx)); lerr != nil {
				a.logger.Error(ctx, "logout failed", "error", lerr)
			}
		}
		return nil, err
	}
	return admin, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) IsAuthenticated() bool {
	return a.session.IsAuthenticated()
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/gymadmin/internal/client/models"
)

// Client is the contract the services need from the back office API.
type Client interface {
	Close() error
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(ctx context.Context) (*models.Admin, error)
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// TokenSource hands out the current bearer credential. An empty string means
// the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

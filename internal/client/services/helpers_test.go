package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gymadmin/internal/client/apitest"
	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/session"
)

type env struct {
	api     *apitest.Server
	client  *client.HTTPClient
	session *session.Session
}

// newEnv wires a session and HTTP client to a fake API. The session starts
// logged in unless loggedIn is false.
func newEnv(t *testing.T, loggedIn bool, opts ...apitest.Option) *env {
	t.Helper()
	api := apitest.NewServer(t, opts...)
	sess := session.New(nil)
	c, err := client.NewHTTPClient(api.URL, sess)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	if loggedIn {
		require.NoError(t, sess.Login(context.Background(), api.Token(), apitest.DefaultAdminEmail))
	}
	return &env{api: api, client: c, session: sess}
}

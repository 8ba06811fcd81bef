package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gymadmin/internal/client/apitest"
	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
)

func TestAuthService_Login_Success(t *testing.T) {
	e := newEnv(t, false)
	svc := NewAuthService(e.client, e.session)

	require.NoError(t, svc.Login(context.Background(), apitest.DefaultAdminEmail, apitest.DefaultAdminPassword))

	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, apitest.DefaultAdminEmail, e.session.Email())
	assert.NotEmpty(t, e.session.Token())
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	e := newEnv(t, false)
	svc := NewAuthService(e.client, e.session)

	err := svc.Login(context.Background(), apitest.DefaultAdminEmail, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Incorrect email or password")
	assert.False(t, svc.IsAuthenticated())
}

func TestAuthService_Login_ValidationHappensLocally(t *testing.T) {
	e := newEnv(t, false)
	svc := NewAuthService(e.client, e.session)

	err := svc.Login(context.Background(), "not-an-email", "")
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 0, e.api.Calls(apitest.RouteLogin))
}

func TestAuthService_Login_Timeout(t *testing.T) {
	e := newEnv(t, false)
	svc := NewAuthService(e.client, e.session, WithAuthTimeout(50*time.Millisecond))

	release := e.api.Hold(apitest.RouteLogin)
	defer release()

	err := svc.Login(context.Background(), apitest.DefaultAdminEmail, apitest.DefaultAdminPassword)
	require.ErrorIs(t, err, client.ErrTimeout)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, svc.IsAuthenticated())
}

func TestAuthService_CheckAuth_Valid(t *testing.T) {
	e := newEnv(t, true)
	svc := NewAuthService(e.client, e.session)

	admin, err := svc.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, apitest.DefaultAdminEmail, admin.Email)
	assert.True(t, svc.IsAuthenticated())
}

func TestAuthService_CheckAuth_RejectedTokenLogsOut(t *testing.T) {
	e := newEnv(t, true)
	svc := NewAuthService(e.client, e.session)
	e.api.RevokeAll()

	require.True(t, svc.IsAuthenticated(), "token is present before the check")

	_, err := svc.CheckAuth(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, svc.IsAuthenticated())
	assert.Empty(t, e.session.Token())
}

func TestAuthService_CheckAuth_ServerDownKeepsSession(t *testing.T) {
	e := newEnv(t, true)
	svc := NewAuthService(e.client, e.session)
	e.api.FailNext(apitest.RouteVerify, http.StatusServiceUnavailable, "maintenance")

	_, err := svc.CheckAuth(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, client.ErrUnauthorized)
	assert.True(t, svc.IsAuthenticated())
}

func TestAuthService_CheckAuth_NoTokenNoCall(t *testing.T) {
	e := newEnv(t, false)
	svc := NewAuthService(e.client, e.session)

	_, err := svc.CheckAuth(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 0, e.api.Calls(apitest.RouteVerify))
}

func TestAuthService_CheckAuth_TimeoutIsDistinct(t *testing.T) {
	e := newEnv(t, true)
	svc := NewAuthService(e.client, e.session, WithAuthTimeout(50*time.Millisecond))
	release := e.api.Hold(apitest.RouteVerify)
	defer release()

	_, err := svc.CheckAuth(context.Background())
	require.ErrorIs(t, err, client.ErrTimeout)
	assert.True(t, svc.IsAuthenticated())
}

func TestAuthService_Logout(t *testing.T) {
	e := newEnv(t, true)
	svc := NewAuthService(e.client, e.session)

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, svc.IsAuthenticated())
	require.NoError(t, svc.Close(context.Background()))
}

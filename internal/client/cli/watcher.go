package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
)

// StartSessionWatcher revalidates the session every interval until ctx is
// done, switching between online, offline and logged out.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkSession(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// checkSession runs one revalidation. A session the server rejects is
// cleared by the auth service; connectivity problems only mark the client
// offline.
func (a *App) checkSession(ctx context.Context) {
	if !a.isLoggedIn() {
		a.setMode(ModeLoggedOut)
		return
	}

	_, err := a.auth.CheckAuth(ctx)
	switch {
	case err == nil:
		a.setMode(ModeOnline)
	case errors.Is(err, client.ErrUnauthorized):
		if a.Mode() != ModeLoggedOut {
			a.println("Session expired, please log in again.")
		}
		a.setMode(ModeLoggedOut)
	default:
		a.logger.Debug(ctx, "session check failed", "error", err)
		a.setMode(ModeOffline)
	}
}

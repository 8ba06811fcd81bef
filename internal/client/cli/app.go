package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/config"
	"github.com/dmitrijs2005/gymadmin/internal/client/listview"
	"github.com/dmitrijs2005/gymadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gymadmin/internal/client/services"
	"github.com/dmitrijs2005/gymadmin/internal/client/session"
	"github.com/dmitrijs2005/gymadmin/internal/logging"
)

type Mode string

const (
	ModeOffline   Mode = "offline"
	ModeOnline    Mode = "online"
	ModeLoggedOut Mode = "logged out"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

type App struct {
	config   *config.Config
	auth     services.AuthService
	session  *session.Session
	dash     *services.DashboardService
	screens  map[string]screen
	current  string
	reader   *bufio.Reader
	out      io.Writer
	logger   logging.Logger
	db       *sql.DB
	gymName  string
	modeMu   sync.RWMutex
	mode     Mode
	watching sync.Once
}

// NewApp opens the local store, restores any saved session and builds the
// services and list views.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	sess := session.New(metadata.NewSQLiteRepository(db), session.WithLogger(logger))
	if err := sess.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, sess,
		client.WithHTTPClient(&http.Client{}),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, apiClient, sess, logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

// newApp wires everything that does not touch the filesystem. Tests use it
// with a fake API.
func newApp(c *config.Config, apiClient client.Client, sess *session.Session, logger logging.Logger, r *bufio.Reader, w io.Writer) *App {
	auth := services.NewAuthService(apiClient, sess,
		services.WithAuthTimeout(c.LoginTimeout),
		services.WithAuthLogger(logger),
	)
	viewOpts := []listview.Option{
		listview.WithPageSize(c.PageSize),
		listview.WithTimeout(c.RequestTimeout),
		listview.WithLogger(logger),
	}

	a := &App{
		config:  c,
		auth:    auth,
		session: sess,
		dash:    services.NewDashboardService(apiClient, logger),
		reader:  r,
		out:     &syncWriter{w: w},
		logger:  logger,
		current: screenUsers,
	}
	a.screens = map[string]screen{
		screenUsers:    newUserScreen(a, listview.New(services.NewUsers(apiClient), auth, viewOpts...)),
		screenClasses:  newClassScreen(a, listview.New(services.NewClasses(apiClient), auth, viewOpts...)),
		screenPayments: newPaymentScreen(a, listview.New(services.NewPayments(apiClient), auth, viewOpts...)),
	}
	if sess.IsAuthenticated() {
		a.mode = ModeOnline
	} else {
		a.mode = ModeLoggedOut
	}
	return a
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) screen() screen {
	return a.screens[a.current]
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// syncWriter serializes writes from the REPL and the session watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Run shows the REPL until the operator exits, then releases resources.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)
	a.Root(ctx)
}

func (a *App) close(ctx context.Context) {
	if err := a.auth.Close(ctx); err != nil {
		a.logger.Warn(ctx, "closing api client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "closing local store", "error", err)
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if email := a.session.Email(); email != "" && a.isLoggedIn() {
		s = email + " "
	}
	s += string(a.Mode())
	return fmt.Sprintf("(%s) %s", s, a.current)
}

// resumeSession revalidates a stored credential before anything is fetched
// with it. A rejected credential is cleared; an unreachable server leaves it
// in place and marks the client offline.
func (a *App) resumeSession(ctx context.Context) {
	_, err := a.auth.CheckAuth(ctx)
	switch {
	case err == nil:
		a.afterLogin(ctx)
	case errors.Is(err, client.ErrUnauthorized):
		a.println("Session expired, please log in again.")
		a.setMode(ModeLoggedOut)
	default:
		a.logger.Warn(ctx, "session check failed", "error", err)
		a.println(describeError(err))
		a.setMode(ModeOffline)
	}
}

// Root greets the operator, makes sure there is a session, starts the
// session watcher and runs the REPL on the app's reader.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to gymadmin (type 'help' for commands)")

	if a.isLoggedIn() {
		a.resumeSession(ctx)
	}
	if !a.isLoggedIn() {
		if err := a.Login(ctx); err != nil {
			a.println(describeError(err))
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.watching.Do(func() {
		go a.StartSessionWatcher(watchCtx, a.config.SessionCheckInterval)
	})

	runREPL(ctx, a, a.getStatus, a.reader)
}

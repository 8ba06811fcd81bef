// Package apitest runs an in-process fake of the gym back office REST API.
// It keeps its data in memory, issues real HS256 tokens and lets tests
// count calls, inject failures and hold requests in flight.
package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gymadmin/internal/client/models"
	"github.com/dmitrijs2005/gymadmin/internal/common"
)

const (
	DefaultAdminEmail    = "admin@gym.com"
	DefaultAdminPassword = "admin123"
)

// Route names used by Calls, FailNext and Hold, e.g. "GET /users".
const (
	RouteLogin        = "POST /login"
	RouteVerify       = "GET /verify-token"
	RouteListUsers    = "GET /users"
	RouteCreateUser   = "POST /users"
	RouteUpdateUser   = "PUT /users/{card_id}"
	RouteDeleteUser   = "DELETE /users/{card_id}"
	RouteListClasses  = "GET /classes"
	RouteCreateClass  = "POST /classes"
	RouteListPayments = "GET /payments"
	RouteCreatePay    = "POST /payments"
	RouteGetConfig    = "GET /config"
	RouteSetConfig    = "POST /config"
	RouteMetrics      = "GET /metrics"
	RouteReport       = "GET /reports/users"
	RouteCheckAccess  = "POST /check_access"
)

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	secret    []byte
	tokenTTL  time.Duration
	admin     models.Admin
	adminHash []byte

	mu       sync.Mutex
	users    []models.User
	classes  []models.Class
	payments []models.Payment
	config   models.GymConfig
	metrics  models.Metrics
	nextID   int64
	issued   map[string]struct{}
	calls    map[string]int
	failures map[string][]failure
	holds    map[string]*hold
	allHolds []*hold
}

type hold struct {
	ch   chan struct{}
	once sync.Once
}

func (h *hold) release() { h.once.Do(func() { close(h.ch) }) }

type Option func(*Server)

func WithUsers(users ...models.User) Option {
	return func(s *Server) { s.users = append(s.users, users...) }
}

func WithClasses(classes ...models.Class) Option {
	return func(s *Server) { s.classes = append(s.classes, classes...) }
}

func WithPayments(payments ...models.Payment) Option {
	return func(s *Server) { s.payments = append(s.payments, payments...) }
}

func WithConfig(cfg models.GymConfig) Option {
	return func(s *Server) { s.config = cfg }
}

func WithMetrics(m models.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// NewServer starts the fake API and stops it when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}

	s := &Server{
		secret:    []byte("apitest-secret"),
		tokenTTL:  time.Hour,
		admin:     models.Admin{ID: "1", Email: DefaultAdminEmail, Name: "Admin", Role: "admin"},
		adminHash: hash,
		nextID:    100,
		issued:    make(map[string]struct{}),
		calls:     make(map[string]int),
		failures:  make(map[string][]failure),
		holds:     make(map[string]*hold),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.router())
	t.Cleanup(func() {
		s.ReleaseAll()
		s.Close()
	})
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/login", s.handle(RouteLogin, s.login))
	r.Post("/check_access", s.handle(RouteCheckAccess, s.checkAccess))

	r.Get("/verify-token", s.handle(RouteVerify, s.requireAuth(s.verify)))
	r.Get("/users", s.handle(RouteListUsers, s.requireAuth(s.listUsers)))
	r.Post("/users", s.handle(RouteCreateUser, s.requireAuth(s.createUser)))
	r.Put("/users/{card_id}", s.handle(RouteUpdateUser, s.requireAuth(s.updateUser)))
	r.Delete("/users/{card_id}", s.handle(RouteDeleteUser, s.requireAuth(s.deleteUser)))
	r.Get("/classes", s.handle(RouteListClasses, s.requireAuth(s.listClasses)))
	r.Post("/classes", s.handle(RouteCreateClass, s.requireAuth(s.createClass)))
	r.Get("/payments", s.handle(RouteListPayments, s.requireAuth(s.listPayments)))
	r.Post("/payments", s.handle(RouteCreatePay, s.requireAuth(s.createPayment)))
	r.Get("/config", s.handle(RouteGetConfig, s.requireAuth(s.getConfig)))
	r.Post("/config", s.handle(RouteSetConfig, s.requireAuth(s.setConfig)))
	r.Get("/metrics", s.handle(RouteMetrics, s.requireAuth(s.getMetrics)))
	r.Get("/reports/users", s.handle(RouteReport, s.requireAuth(s.usersReport)))

	return r
}

// handle counts the call, waits on a Hold and applies a queued failure
// before running next. Requests the auth check rejects are counted too.
func (s *Server) handle(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		h := s.holds[route]
		delete(s.holds, route)
		var f *failure
		if q := s.failures[route]; len(q) > 0 {
			f = &q[0]
			s.failures[route] = q[1:]
		}
		s.mu.Unlock()

		if h != nil {
			select {
			case <-h.ch:
			case <-r.Context().Done():
				return
			}
		}

		if f != nil {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next(w, r)
	}
}

// Calls reports how many requests reached route, whether or not they were
// authorized.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// FailNext makes the next request to route answer status with a
// {"detail": detail} body.
func (s *Server) FailNext(route string, status int, detail string) {
	body, _ := json.Marshal(map[string]string{"detail": detail})
	s.mu.Lock()
	s.failures[route] = append(s.failures[route], failure{status: status, body: string(body)})
	s.mu.Unlock()
}

// Hold makes the next request to route block until the returned release
// function is called.
func (s *Server) Hold(route string) (release func()) {
	h := &hold{ch: make(chan struct{})}
	s.mu.Lock()
	s.holds[route] = h
	s.allHolds = append(s.allHolds, h)
	s.mu.Unlock()
	return h.release
}

// ReleaseAll unblocks every hold, picked up or not.
func (s *Server) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.allHolds {
		h.release()
	}
	s.allHolds = nil
	s.holds = make(map[string]*hold)
}

// Token issues a valid credential for the default administrator without a
// login round trip.
func (s *Server) Token() string {
	tok, err := s.issue(time.Now().Add(s.tokenTTL))
	if err != nil {
		panic(err)
	}
	return tok
}

// RevokeAll invalidates every token issued so far.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	s.issued = make(map[string]struct{})
	s.mu.Unlock()
}

func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

func (s *Server) Config() models.GymConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *Server) issue(exp time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   s.admin.Email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        strconv.FormatInt(time.Now().UnixNano(), 36),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	s.mu.Lock()
	s.issued[tok] = struct{}{}
	s.mu.Unlock()
	return tok, nil
}

func (s *Server) validToken(tok string) bool {
	s.mu.Lock()
	_, ok := s.issued[tok]
	s.mu.Unlock()
	if !ok {
		return false
	}

	_, err := jwt.Parse(tok, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	return err == nil
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := common.ParseBearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if !ok || !s.validToken(tok) {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

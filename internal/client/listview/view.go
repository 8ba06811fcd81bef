package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
	"github.com/dmitrijs2005/gymadmin/internal/logging"
)

// DefaultTimeout bounds every list and mutation request.
const DefaultTimeout = 15 * time.Second

var (
	ErrSuperseded   = errors.New("response superseded by a newer request")
	ErrNotConfirmed = errors.New("removal not confirmed")
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Source is the remote collection a view manages. services.Resource
// implements it.
type Source[T models.Record] interface {
	List(ctx context.Context, q models.QueryState) (models.ListResult[T], error)
	Create(ctx context.Context, rec T) error
	Update(ctx context.Context, key string, rec T) error
	Remove(ctx context.Context, key string) error
}

// Guard is the session contract a view depends on.
type Guard interface {
	IsAuthenticated() bool
	Logout(ctx context.Context) error
}

// ConfirmFunc asks the operator to approve removing the record with key.
type ConfirmFunc func(key string) bool

// Snapshot is a consistent copy of a view's state.
type Snapshot[T models.Record] struct {
	State   State
	Query   models.QueryState
	Result  models.ListResult[T]
	Err     error
	Loading bool
}

type View[T models.Record] struct {
	src     Source[T]
	guard   Guard
	timeout time.Duration
	logger  logging.Logger

	mu     sync.Mutex
	query  models.QueryState
	result models.ListResult[T]
	state  State
	err    error
	seq    uint64
}

type Option func(*options)

type options struct {
	pageSize int
	timeout  time.Duration
	logger   logging.Logger
}

func WithPageSize(n int) Option {
	return func(o *options) { o.pageSize = n }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns an idle view over src. Nothing is fetched until Refresh or a
// query setter is called.
func New[T models.Record](src Source[T], guard Guard, opts ...Option) *View[T] {
	o := options{pageSize: models.DefaultPageSize, timeout: DefaultTimeout, logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	return &View[T]{
		src:     src,
		guard:   guard,
		timeout: o.timeout,
		logger:  o.logger,
		query:   models.NewQueryState(o.pageSize),
		result:  models.ListResult[T]{Items: []T{}, Page: 1},
	}
}

func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot[T]{
		State:   v.state,
		Query:   v.query,
		Result:  v.result,
		Err:     v.err,
		Loading: v.state == StateLoading,
	}
}

func (v *View[T]) Query() models.QueryState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// SetSearch changes the search term, goes back to page 1 and refetches.
func (v *View[T]) SetSearch(ctx context.Context, term string) (models.ListResult[T], error) {
	return v.Fetch(ctx, v.Query().WithSearch(term))
}

// SetStatus changes the status filter, goes back to page 1 and refetches.
func (v *View[T]) SetStatus(ctx context.Context, s models.Status) (models.ListResult[T], error) {
	return v.Fetch(ctx, v.Query().WithStatus(s))
}

// SetPage navigates to page p. Once a result is loaded, p is clamped to its
// page count.
func (v *View[T]) SetPage(ctx context.Context, p int) (models.ListResult[T], error) {
	v.mu.Lock()
	if pages := v.result.Pages; pages > 0 && p > pages {
		p = pages
	}
	q := v.query.WithPage(p)
	v.mu.Unlock()
	return v.Fetch(ctx, q)
}

func (v *View[T]) Next(ctx context.Context) (models.ListResult[T], error) {
	return v.SetPage(ctx, v.Query().Page+1)
}

func (v *View[T]) Prev(ctx context.Context) (models.ListResult[T], error) {
	return v.SetPage(ctx, v.Query().Page-1)
}

// Refresh refetches the current query.
func (v *View[T]) Refresh(ctx context.Context) (models.ListResult[T], error) {
	return v.Fetch(ctx, v.Query())
}

// Retry refetches the current query after a failure.
func (v *View[T]) Retry(ctx context.Context) (models.ListResult[T], error) {
	return v.Refresh(ctx)
}

// Fetch makes q the current query and loads it. Each call supersedes all
// earlier ones: if another Fetch is issued before this one returns, this
// one's response is discarded and ErrSuperseded is returned.
func (v *View[T]) Fetch(ctx context.Context, q models.QueryState) (models.ListResult[T], error) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.query = q
	if !v.guard.IsAuthenticated() {
		v.state = StateError
		v.err = client.ErrUnauthorized
		v.mu.Unlock()
		return models.ListResult[T]{}, client.ErrUnauthorized
	}
	v.state = StateLoading
	v.err = nil
	v.mu.Unlock()

	fctx, cancel := context.WithTimeout(ctx, v.timeout)
	res, err := v.src.List(fctx, q)
	cancel()

	if err != nil {
		v.checkUnauthorized(ctx, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		v.logger.Debug(ctx, "dropping stale list response", "seq", seq, "latest", v.seq)
		return models.ListResult[T]{}, ErrSuperseded
	}

	if err != nil {
		v.state = StateError
		v.err = err
		return models.ListResult[T]{}, err
	}

	res = res.Normalize(q.PageSize)
	v.result = res
	v.query.Page = res.Page
	v.state = StateReady
	return res, nil
}

// Create validates rec, posts it and refetches the current query once.
func (v *View[T]) Create(ctx context.Context, rec T) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return v.mutate(ctx, "create", func(ctx context.Context) error {
		return v.src.Create(ctx, rec)
	})
}

// Update validates rec, replaces the record identified by key and refetches
// the current query once.
func (v *View[T]) Update(ctx context.Context, key string, rec T) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if key == "" {
		return &models.ValidationError{Fields: map[string]string{"key": "is required"}}
	}
	return v.mutate(ctx, "update", func(ctx context.Context) error {
		return v.src.Update(ctx, key, rec)
	})
}

// Remove deletes the record identified by key once confirm approves it, then
// refetches the current query once.
func (v *View[T]) Remove(ctx context.Context, key string, confirm ConfirmFunc) error {
	if key == "" {
		return &models.ValidationError{Fields: map[string]string{"key": "is required"}}
	}
	if !v.guard.IsAuthenticated() {
		return client.ErrUnauthorized
	}
	if confirm == nil || !confirm(key) {
		return ErrNotConfirmed
	}
	return v.mutate(ctx, "remove", func(ctx context.Context) error {
		return v.src.Remove(ctx, key)
	})
}

// mutate runs op and, on success, refetches. A failed op leaves the view
// untouched.
func (v *View[T]) mutate(ctx context.Context, name string, op func(context.Context) error) error {
	if !v.guard.IsAuthenticated() {
		return client.ErrUnauthorized
	}

	mctx, cancel := context.WithTimeout(ctx, v.timeout)
	err := op(mctx)
	cancel()
	if err != nil {
		v.checkUnauthorized(ctx, err)
		return err
	}

	v.logger.Debug(ctx, "mutation applied", "op", name)
	if _, err := v.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return fmt.Errorf("refresh after %s: %w", name, err)
	}
	return nil
}

// checkUnauthorized ends the session on a rejected credential, regardless of
// whether the response is still current.
func (v *View[T]) checkUnauthorized(ctx context.Context, err error) {
	if !errors.Is(err, client.ErrUnauthorized) {
		return
	}
	v.logger.Warn(ctx, "credential rejected, logging out")
	if lerr := v.guard.Logout(context.WithoutCancel(ctx)); lerr != nil {
		v.logger.Error(ctx, "logout failed", "error", lerr)
	}
}

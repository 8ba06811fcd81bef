package listview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
)

type fakeGuard struct {
	authed  atomic.Bool
	logouts atomic.Int32
}

func newGuard(authed bool) *fakeGuard {
	g := &fakeGuard{}
	g.authed.Store(authed)
	return g
}

func (g *fakeGuard) IsAuthenticated() bool { return g.authed.Load() }

func (g *fakeGuard) Logout(context.Context) error {
	g.logouts.Add(1)
	g.authed.Store(false)
	return nil
}

type fakeSource struct {
	mu      sync.Mutex
	listFn  func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error)
	lists   []models.QueryState
	creates int
	updates int
	removes int
	mutErr  error
}

func (f *fakeSource) List(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
	f.mu.Lock()
	f.lists = append(f.lists, q)
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return models.ListResult[models.User]{Items: users(3), Total: 3, Page: 1, Pages: 1}, nil
	}
	return fn(ctx, q)
}

func (f *fakeSource) Create(context.Context, models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	return f.mutErr
}

func (f *fakeSource) Update(context.Context, string, models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	return f.mutErr
}

func (f *fakeSource) Remove(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
	return f.mutErr
}

func (f *fakeSource) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists)
}

func users(n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		out[i] = models.User{
			CardID: fmt.Sprintf("RF%02d", i+1),
			Name:   fmt.Sprintf("Member %d", i+1),
			Email:  fmt.Sprintf("m%d@gym.com", i+1),
			Phone:  "7875550000",
			Status: models.StatusActive,
		}
	}
	return out
}

func validUser() models.User {
	return models.User{CardID: "RF99", Name: "Ana", Email: "ana@gym.com", Phone: "7875551234"}
}

func TestView_StartsIdle(t *testing.T) {
	v := New[models.User](&fakeSource{}, newGuard(true))
	snap := v.Snapshot()

	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, 1, snap.Query.Page)
	assert.Equal(t, models.DefaultPageSize, snap.Query.PageSize)
	assert.Empty(t, snap.Result.Items)
	assert.False(t, snap.Loading)
}

func TestView_RefreshLoadsReady(t *testing.T) {
	v := New[models.User](&fakeSource{}, newGuard(true))

	res, err := v.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)

	snap := v.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.NoError(t, snap.Err)
	assert.Equal(t, res, snap.Result)
}

func TestView_LoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		close(started)
		<-release
		return models.ListResult[models.User]{}, nil
	}}
	v := New[models.User](src, newGuard(true))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = v.Refresh(context.Background())
	}()

	<-started
	snap := v.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.True(t, snap.Loading)

	close(release)
	<-done
	assert.False(t, v.Snapshot().Loading)
}

func TestView_StaleResponseIsDiscarded(t *testing.T) {
	releaseOld := make(chan struct{})
	oldStarted := make(chan struct{})
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		if q.Search == "old" {
			close(oldStarted)
			<-releaseOld
			return models.ListResult[models.User]{Items: users(5), Total: 5, Page: 1, Pages: 1}, nil
		}
		return models.ListResult[models.User]{Items: users(1), Total: 1, Page: 1, Pages: 1}, nil
	}}
	v := New[models.User](src, newGuard(true))

	oldErr := make(chan error, 1)
	go func() {
		_, err := v.SetSearch(context.Background(), "old")
		oldErr <- err
	}()
	<-oldStarted

	res, err := v.SetSearch(context.Background(), "new")
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	close(releaseOld)
	require.ErrorIs(t, <-oldErr, ErrSuperseded)

	snap := v.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "new", snap.Query.Search)
	assert.Len(t, snap.Result.Items, 1, "older response must not overwrite the newer one")
}

func TestView_OnlyLastOfOverlappingFetchesApplies(t *testing.T) {
	for _, n := range []int{3, 5, 8} {
		t.Run(fmt.Sprintf("%d in flight", n), func(t *testing.T) {
			release := make(map[string]chan struct{}, n)
			for i := 0; i < n; i++ {
				release[fmt.Sprintf("s%d", i)] = make(chan struct{})
			}
			started := make(chan string)
			src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
				started <- q.Search
				<-release[q.Search]
				var i int
				_, _ = fmt.Sscanf(q.Search, "s%d", &i)
				return models.ListResult[models.User]{Items: users(i + 1), Total: i + 1, Page: 1, Pages: 1}, nil
			}}
			v := New[models.User](src, newGuard(true))

			errs := make([]chan error, n)
			for i := 0; i < n; i++ {
				errs[i] = make(chan error, 1)
				term := fmt.Sprintf("s%d", i)
				go func(ch chan error) {
					_, err := v.SetSearch(context.Background(), term)
					ch <- err
				}(errs[i])
				require.Equal(t, term, <-started)
			}

			for i := n - 1; i >= 0; i-- {
				close(release[fmt.Sprintf("s%d", i)])
				err := <-errs[i]
				if i == n-1 {
					require.NoError(t, err)
				} else {
					require.ErrorIs(t, err, ErrSuperseded)
				}

				snap := v.Snapshot()
				assert.Equal(t, StateReady, snap.State)
				assert.Len(t, snap.Result.Items, n, "response %d of %d must not be applied", i+1, n)
			}

			snap := v.Snapshot()
			assert.Equal(t, fmt.Sprintf("s%d", n-1), snap.Query.Search)
			assert.Equal(t, n, snap.Result.Total)
			assert.False(t, snap.Loading)
		})
	}
}

func TestView_StaleUnauthorizedStillLogsOut(t *testing.T) {
	releaseOld := make(chan struct{})
	oldStarted := make(chan struct{})
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		if q.Page == 1 {
			close(oldStarted)
			<-releaseOld
			return models.ListResult[models.User]{}, &client.ServerError{StatusCode: http.StatusUnauthorized, Message: "expired"}
		}
		return models.ListResult[models.User]{Items: users(2), Total: 12, Page: 2, Pages: 2}, nil
	}}
	g := newGuard(true)
	v := New[models.User](src, g)

	oldErr := make(chan error, 1)
	go func() {
		_, err := v.Refresh(context.Background())
		oldErr <- err
	}()
	<-oldStarted

	_, err := v.SetPage(context.Background(), 2)
	require.NoError(t, err)

	close(releaseOld)
	require.ErrorIs(t, <-oldErr, ErrSuperseded)
	assert.Equal(t, int32(1), g.logouts.Load())
	assert.False(t, g.IsAuthenticated())
}

func TestView_UnauthorizedLogsOutAndErrors(t *testing.T) {
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		return models.ListResult[models.User]{}, &client.ServerError{StatusCode: http.StatusUnauthorized, Message: "Token expired"}
	}}
	g := newGuard(true)
	v := New[models.User](src, g)

	_, err := v.Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, int32(1), g.logouts.Load())

	snap := v.Snapshot()
	assert.Equal(t, StateError, snap.State)
	require.ErrorIs(t, snap.Err, client.ErrUnauthorized)

	// terminal: the next attempt never reaches the source
	_, err = v.Retry(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 1, src.listCount())
}

func TestView_UnauthenticatedNeverCallsSource(t *testing.T) {
	src := &fakeSource{}
	v := New[models.User](src, newGuard(false))
	ctx := context.Background()

	_, err := v.Refresh(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.ErrorIs(t, v.Create(ctx, validUser()), client.ErrUnauthorized)
	require.ErrorIs(t, v.Update(ctx, "RF99", validUser()), client.ErrUnauthorized)
	require.ErrorIs(t, v.Remove(ctx, "RF99", func(string) bool { return true }), client.ErrUnauthorized)

	assert.Equal(t, 0, src.listCount())
	assert.Zero(t, src.creates+src.updates+src.removes)
}

func TestView_QuerySettersResetPage(t *testing.T) {
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		return models.ListResult[models.User]{Items: users(10), Total: 50, Page: q.Page, Pages: 5}, nil
	}}
	v := New[models.User](src, newGuard(true))
	ctx := context.Background()

	_, err := v.SetPage(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Query().Page)

	_, err = v.SetSearch(ctx, "  john ")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Query().Page)
	assert.Equal(t, "john", v.Query().Search)

	_, err = v.SetPage(ctx, 4)
	require.NoError(t, err)
	_, err = v.SetStatus(ctx, models.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Query().Page)
	assert.Equal(t, "john", v.Query().Search, "status change keeps the search term")

	_, err = v.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Query().Page)
	_, err = v.Prev(ctx)
	require.NoError(t, err)
	_, err = v.Prev(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Query().Page)

	_, err = v.SetPage(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Query().Page)
}

func TestView_ServerClampsPage(t *testing.T) {
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		return models.ListResult[models.User]{Items: users(2), Total: 12, Page: 7, Pages: 2}, nil
	}}
	v := New[models.User](src, newGuard(true))

	res, err := v.Fetch(context.Background(), models.NewQueryState(10).WithPage(7))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, v.Query().Page)
}

func TestView_ErrorThenRetry(t *testing.T) {
	var calls atomic.Int32
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		if calls.Add(1) == 1 {
			return models.ListResult[models.User]{}, fmt.Errorf("%w: connection refused", client.ErrUnavailable)
		}
		return models.ListResult[models.User]{Items: users(1), Total: 1}, nil
	}}
	v := New[models.User](src, newGuard(true))

	_, err := v.Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, StateError, v.Snapshot().State)

	_, err = v.Retry(context.Background())
	require.NoError(t, err)
	snap := v.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.NoError(t, snap.Err)
}

func TestView_RequestsCarryDeadline(t *testing.T) {
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		<-ctx.Done()
		return models.ListResult[models.User]{}, fmt.Errorf("%w: %w", client.ErrUnavailable, client.ErrTimeout)
	}}
	v := New[models.User](src, newGuard(true), WithTimeout(20*time.Millisecond))

	_, err := v.Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrTimeout)
	assert.Equal(t, StateError, v.Snapshot().State)
}

func TestView_InvalidRecordNeverReachesNetwork(t *testing.T) {
	src := &fakeSource{}
	v := New[models.User](src, newGuard(true))
	ctx := context.Background()

	bad := models.User{Name: "", Email: "nope", Phone: "123", CardID: ""}
	err := v.Create(ctx, bad)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "phone")
	assert.Contains(t, ve.Fields, "card_id")

	require.ErrorIs(t, v.Update(ctx, "RF01", bad), models.ErrValidation)

	assert.Zero(t, src.creates+src.updates)
	assert.Equal(t, 0, src.listCount())
}

func TestView_CreateRefetchesOnce(t *testing.T) {
	src := &fakeSource{}
	v := New[models.User](src, newGuard(true))
	ctx := context.Background()

	require.NoError(t, v.Create(ctx, validUser()))
	assert.Equal(t, 1, src.creates)
	assert.Equal(t, 1, src.listCount())
	assert.Equal(t, StateReady, v.Snapshot().State)

	require.NoError(t, v.Update(ctx, "RF99", validUser()))
	assert.Equal(t, 1, src.updates)
	assert.Equal(t, 2, src.listCount())
}

func TestView_RefetchUsesCurrentQuery(t *testing.T) {
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		return models.ListResult[models.User]{Items: users(1), Total: 30, Page: q.Page, Pages: 3}, nil
	}}
	v := New[models.User](src, newGuard(true))
	ctx := context.Background()

	_, err := v.SetStatus(ctx, models.StatusActive)
	require.NoError(t, err)
	_, err = v.SetPage(ctx, 3)
	require.NoError(t, err)

	require.NoError(t, v.Create(ctx, validUser()))

	last := src.lists[len(src.lists)-1]
	assert.Equal(t, 3, last.Page)
	assert.Equal(t, models.StatusActive, last.Status)
}

func TestView_RemoveRequiresConfirmation(t *testing.T) {
	src := &fakeSource{}
	v := New[models.User](src, newGuard(true))
	ctx := context.Background()

	var asked string
	err := v.Remove(ctx, "RF01", func(key string) bool {
		asked = key
		return false
	})
	require.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, "RF01", asked)
	require.ErrorIs(t, v.Remove(ctx, "RF01", nil), ErrNotConfirmed)
	assert.Zero(t, src.removes)
	assert.Equal(t, 0, src.listCount())

	require.NoError(t, v.Remove(ctx, "RF01", func(string) bool { return true }))
	assert.Equal(t, 1, src.removes)
	assert.Equal(t, 1, src.listCount(), "exactly one refetch after a confirmed delete")
}

func TestView_FailedMutationLeavesStateUntouched(t *testing.T) {
	src := &fakeSource{}
	v := New[models.User](src, newGuard(true))
	ctx := context.Background()

	_, err := v.Refresh(ctx)
	require.NoError(t, err)
	before := v.Snapshot()

	src.mutErr = &client.ServerError{StatusCode: http.StatusBadRequest, Message: "Card ID already registered"}
	err = v.Create(ctx, validUser())
	require.Error(t, err)
	assert.Equal(t, "Card ID already registered", client.Message(err))

	assert.Equal(t, before, v.Snapshot())
	assert.Equal(t, 1, src.listCount())
}

func TestView_MutationUnauthorizedLogsOut(t *testing.T) {
	src := &fakeSource{mutErr: &client.ServerError{StatusCode: http.StatusForbidden, Message: "forbidden"}}
	g := newGuard(true)
	v := New[models.User](src, g)

	err := v.Remove(context.Background(), "RF01", func(string) bool { return true })
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, int32(1), g.logouts.Load())
	assert.Equal(t, 0, src.listCount())
}

func TestView_RefreshFailureAfterMutationIsReported(t *testing.T) {
	src := &fakeSource{listFn: func(ctx context.Context, q models.QueryState) (models.ListResult[models.User], error) {
		return models.ListResult[models.User]{}, errors.New("boom")
	}}
	v := New[models.User](src, newGuard(true))

	err := v.Create(context.Background(), validUser())
	require.ErrorContains(t, err, "refresh after create")
	assert.Equal(t, 1, src.creates)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "state(9)", State(9).String())
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gymadmin/internal/client/listview"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
	"github.com/dmitrijs2005/gymadmin/internal/client/services"
)

const (
	screenUsers    = "users"
	screenClasses  = "classes"
	screenPayments = "payments"
)

// screen is what the REPL commands operate on: one list view plus the way
// its records are prompted for and printed.
type screen interface {
	refresh(ctx context.Context) error
	search(ctx context.Context, term string) error
	filter(ctx context.Context, status string) error
	page(ctx context.Context, n int) error
	next(ctx context.Context) error
	prev(ctx context.Context) error
	retry(ctx context.Context) error
	add(ctx context.Context) error
	edit(ctx context.Context, key string) error
	remove(ctx context.Context, key string) error
	render(w io.Writer)
}

// listScreen adapts a listview.View to the screen interface.
type listScreen[T models.Record] struct {
	app      *App
	view     *listview.View[T]
	statuses []models.Status
	mutable  bool
	headers  []string
	row      func(T) []string
	prompt   func(current T) (T, error)
	footer   func(items []T) string
}

func (s *listScreen[T]) refresh(ctx context.Context) error {
	_, err := s.view.Refresh(ctx)
	return err
}

func (s *listScreen[T]) search(ctx context.Context, term string) error {
	_, err := s.view.SetSearch(ctx, term)
	return err
}

func (s *listScreen[T]) filter(ctx context.Context, status string) error {
	if len(s.statuses) == 0 {
		return fmt.Errorf("this list has no status filter")
	}
	st, err := models.ParseStatus(status, s.statuses)
	if err != nil {
		return err
	}
	_, err = s.view.SetStatus(ctx, st)
	return err
}

func (s *listScreen[T]) page(ctx context.Context, n int) error {
	_, err := s.view.SetPage(ctx, n)
	return err
}

func (s *listScreen[T]) next(ctx context.Context) error {
	_, err := s.view.Next(ctx)
	return err
}

func (s *listScreen[T]) prev(ctx context.Context) error {
	_, err := s.view.Prev(ctx)
	return err
}

func (s *listScreen[T]) retry(ctx context.Context) error {
	_, err := s.view.Retry(ctx)
	return err
}

func (s *listScreen[T]) add(ctx context.Context) error {
	var zero T
	rec, err := s.prompt(zero)
	if err != nil {
		return err
	}
	return s.view.Create(ctx, rec)
}

func (s *listScreen[T]) edit(ctx context.Context, key string) error {
	if !s.mutable {
		return services.ErrUnsupported
	}
	current, ok := s.find(key)
	if !ok {
		return fmt.Errorf("no record %q on the current page", key)
	}
	rec, err := s.prompt(current)
	if err != nil {
		return err
	}
	return s.view.Update(ctx, key, rec)
}

func (s *listScreen[T]) remove(ctx context.Context, key string) error {
	if !s.mutable {
		return services.ErrUnsupported
	}
	return s.view.Remove(ctx, key, func(key string) bool {
		return confirm(s.app.reader, s.app.out, fmt.Sprintf("Delete %s? This cannot be undone.", key))
	})
}

func (s *listScreen[T]) find(key string) (T, bool) {
	for _, item := range s.view.Snapshot().Result.Items {
		if item.Key() == key {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (s *listScreen[T]) render(w io.Writer) {
	snap := s.view.Snapshot()

	if snap.State == listview.StateError && snap.Err != nil {
		fmt.Fprintln(w, describeError(snap.Err))
	}
	if snap.State == listview.StateIdle {
		fmt.Fprintln(w, "Nothing loaded yet; type 'list'.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(s.headers, "\t"))
	for _, item := range snap.Result.Items {
		fmt.Fprintln(tw, strings.Join(s.row(item), "\t"))
	}
	_ = tw.Flush()

	if len(snap.Result.Items) == 0 {
		fmt.Fprintln(w, "No records match.")
	}

	filters := ""
	if snap.Query.Search != "" {
		filters += fmt.Sprintf(" search=%q", snap.Query.Search)
	}
	if snap.Query.Status != models.StatusAll {
		filters += " status=" + string(snap.Query.Status)
	}
	fmt.Fprintf(w, "Page %s, %d total%s\n", snap.Result.PageLabel(), snap.Result.Total, filters)
	if s.footer != nil {
		if f := s.footer(snap.Result.Items); f != "" {
			fmt.Fprintln(w, f)
		}
	}
}

func newUserScreen(a *App, v *listview.View[models.User]) screen {
	return &listScreen[models.User]{
		app:      a,
		view:     v,
		statuses: models.MemberStatuses,
		mutable:  true,
		headers:  []string{"CARD", "NAME", "EMAIL", "PHONE", "PLAN", "STATUS", "LAST ACCESS"},
		row: func(u models.User) []string {
			return []string{u.CardID, u.Name, u.Email, u.Phone, u.Membership, string(u.Status), u.LastAccess}
		},
		prompt: a.promptUser,
	}
}

func newClassScreen(a *App, v *listview.View[models.Class]) screen {
	return &listScreen[models.Class]{
		app:     a,
		view:    v,
		headers: []string{"ID", "NAME", "INSTRUCTOR", "SCHEDULE", "CAPACITY"},
		row: func(c models.Class) []string {
			return []string{c.Key(), c.Name, c.Instructor, c.Schedule, strconv.Itoa(c.Capacity)}
		},
		prompt: a.promptClass,
	}
}

func newPaymentScreen(a *App, v *listview.View[models.Payment]) screen {
	return &listScreen[models.Payment]{
		app:      a,
		view:     v,
		statuses: models.PaymentStatuses,
		headers:  []string{"ID", "MEMBER", "AMOUNT", "METHOD", "STATUS", "DATE"},
		row: func(p models.Payment) []string {
			return []string{p.Key(), p.UserID, fmt.Sprintf("%.2f", p.Amount), p.PaymentMethod, string(p.Status), p.CreatedAt}
		},
		prompt: a.promptPayment,
		footer: func(items []models.Payment) string {
			return fmt.Sprintf("Page total: $%.2f", models.TotalAmount(items))
		},
	}
}

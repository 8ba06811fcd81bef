package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mdp/qrterminal/v3"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/listview"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
	"github.com/dmitrijs2005/gymadmin/internal/client/services"
	"github.com/dmitrijs2005/gymadmin/internal/common"
)

// Login prompts for credentials and authenticates. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "email", email, "error", err)
		return err
	}

	a.println("Login successful")
	a.afterLogin(ctx)
	return nil
}

// afterLogin marks the client online, shows the gym branding and loads the
// current screen.
func (a *App) afterLogin(ctx context.Context) {
	a.setMode(ModeOnline)
	if cfg := a.dash.Config(ctx); cfg.GymName != "" {
		a.gymName = cfg.GymName
		a.println("Welcome to " + cfg.GymName)
	}
	if err := a.List(ctx); err != nil {
		a.println(describeError(err))
	}
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.setMode(ModeLoggedOut)
	a.println("Logged out")
	return nil
}

// Use switches the current screen and loads it.
func (a *App) Use(ctx context.Context, name string) error {
	if _, ok := a.screens[name]; !ok {
		return fmt.Errorf("unknown list %q (users, classes, payments)", name)
	}
	a.current = name
	return a.List(ctx)
}

// List refetches and prints the current screen.
func (a *App) List(ctx context.Context) error {
	return a.show(a.screen().refresh(ctx))
}

func (a *App) Search(ctx context.Context, term string) error {
	return a.show(a.screen().search(ctx, term))
}

func (a *App) Filter(ctx context.Context, status string) error {
	return a.show(a.screen().filter(ctx, status))
}

func (a *App) Page(ctx context.Context, n string) error {
	p, err := strconv.Atoi(n)
	if err != nil || p < 1 {
		return fmt.Errorf("page must be a positive number, got %q", n)
	}
	return a.show(a.screen().page(ctx, p))
}

func (a *App) Next(ctx context.Context) error {
	return a.show(a.screen().next(ctx))
}

func (a *App) Prev(ctx context.Context) error {
	return a.show(a.screen().prev(ctx))
}

func (a *App) Retry(ctx context.Context) error {
	return a.show(a.screen().retry(ctx))
}

func (a *App) Add(ctx context.Context) error {
	return a.mutated(a.screen().add(ctx))
}

func (a *App) Edit(ctx context.Context, key string) error {
	return a.mutated(a.screen().edit(ctx, key))
}

func (a *App) Delete(ctx context.Context, key string) error {
	return a.mutated(a.screen().remove(ctx, key))
}

// show prints the current screen after a fetch. A superseded fetch is not
// an error for the operator: a newer one already rendered.
func (a *App) show(err error) error {
	if errors.Is(err, listview.ErrSuperseded) {
		return nil
	}
	if err != nil {
		return a.checkRejected(err)
	}
	a.screen().render(a.out)
	return nil
}

func (a *App) mutated(err error) error {
	if err != nil {
		return a.checkRejected(err)
	}
	a.println("Saved.")
	a.screen().render(a.out)
	return nil
}

// checkRejected switches to logged out when the server rejected the
// credential; the list view has already cleared it.
func (a *App) checkRejected(err error) error {
	if errors.Is(err, client.ErrUnauthorized) && !a.isLoggedIn() {
		a.setMode(ModeLoggedOut)
	}
	return err
}

// Metrics prints the dashboard summary. Without arguments the range is the
// last month; otherwise two dates in YYYY-MM-DD form are expected.
func (a *App) Metrics(ctx context.Context, args []string) error {
	end := time.Now()
	start := end.AddDate(0, -1, 0)
	if len(args) > 0 {
		if len(args) != 2 {
			return errors.New("usage: metrics [start end] with dates as YYYY-MM-DD")
		}
		var err error
		if start, err = time.Parse(services.DateLayout, args[0]); err != nil {
			return fmt.Errorf("start date: %w", err)
		}
		if end, err = time.Parse(services.DateLayout, args[1]); err != nil {
			return fmt.Errorf("end date: %w", err)
		}
	}

	m, err := a.dash.Metrics(ctx, start, end)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Range\t%s .. %s\n", start.Format(services.DateLayout), end.Format(services.DateLayout))
	fmt.Fprintf(tw, "Active members\t%d\n", m.ActiveMembers)
	fmt.Fprintf(tw, "New members\t%d\n", m.NewMembers)
	fmt.Fprintf(tw, "Monthly revenue\t$%.2f\n", m.MonthlyRevenue)
	fmt.Fprintf(tw, "Scheduled classes\t%d\n", m.ScheduledClasses)
	fmt.Fprintf(tw, "Average attendance\t%.1f\n", m.AverageAttendance)
	if m.PeakHour != "" {
		fmt.Fprintf(tw, "Peak hour\t%s\n", m.PeakHour)
	}
	if m.PopularClass != "" {
		fmt.Fprintf(tw, "Most popular class\t%s\n", m.PopularClass)
	}
	return tw.Flush()
}

// Report prints the membership report.
func (a *App) Report(ctx context.Context) error {
	r, err := a.dash.UsersReport(ctx)
	if err != nil {
		return err
	}

	share := func(n int) string {
		if r.TotalUsers == 0 {
			return "0.0%"
		}
		return fmt.Sprintf("%.1f%%", float64(n)*100/float64(r.TotalUsers))
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total members\t%d\n", r.TotalUsers)
	fmt.Fprintf(tw, "Active members\t%d\t%.1f%%\n", r.ActiveUsers, r.ActiveRatio()*100)
	fmt.Fprintf(tw, "Basic\t%d\t%s\n", r.MembershipDistribution.Basic, share(r.MembershipDistribution.Basic))
	fmt.Fprintf(tw, "Premium\t%d\t%s\n", r.MembershipDistribution.Premium, share(r.MembershipDistribution.Premium))
	fmt.Fprintf(tw, "VIP\t%d\t%s\n", r.MembershipDistribution.VIP, share(r.MembershipDistribution.VIP))
	return tw.Flush()
}

// Branding shows the gym branding, or updates one setting with
// "branding set <key> <value>".
func (a *App) Branding(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cfg := a.dash.Config(ctx)
		a.println("Gym name:", orDash(cfg.GymName))
		a.println("Logo:    ", orDash(cfg.LogoURL))
		return nil
	}
	if args[0] != "set" || len(args) < 3 {
		return errors.New("usage: branding [set <gym_name|gym_logo> <value>]")
	}
	value := strings.Join(args[2:], " ")
	if err := a.dash.SetConfig(ctx, args[1], value); err != nil {
		return err
	}
	if args[1] == "gym_name" {
		a.gymName = value
	}
	a.println("Saved.")
	return nil
}

// Access checks whether a member card may enter.
func (a *App) Access(ctx context.Context, cardID string) error {
	res, err := a.dash.CheckAccess(ctx, cardID)
	if err != nil {
		return err
	}
	verdict := "DENIED"
	if res.Access {
		verdict = "GRANTED"
	}
	a.println(verdict+":", res.Message)
	return nil
}

// QR prints a member's access card: the card id as a QR code the front desk
// scanner reads, followed by the id in text.
func (a *App) QR(ctx context.Context, cardID string) error {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return &models.ValidationError{Fields: map[string]string{"card_id": "is required"}}
	}

	qrterminal.GenerateHalfBlock(cardID, qrterminal.H, a.out)
	a.println("Card ID:", cardID)
	if s, ok := a.screens[screenUsers].(*listScreen[models.User]); ok {
		if u, found := s.find(cardID); found {
			a.println("Member: ", u.Name)
		}
	}
	return nil
}

// Status prints who is logged in and what the client is showing.
func (a *App) Status(ctx context.Context) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Mode\t%s\n", a.Mode())
	fmt.Fprintf(tw, "Server\t%s\n", a.config.ServerURL)
	if a.isLoggedIn() {
		fmt.Fprintf(tw, "Admin\t%s\n", orDash(a.session.Email()))
		if exp := a.session.ExpiresAt(); !exp.IsZero() {
			fmt.Fprintf(tw, "Session expires\t%s\n", exp.Local().Format(time.DateTime))
		}
	}
	if a.gymName != "" {
		fmt.Fprintf(tw, "Gym\t%s\n", a.gymName)
	}
	fmt.Fprintf(tw, "List\t%s\n", a.current)
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

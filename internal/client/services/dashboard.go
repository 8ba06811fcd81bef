package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
	"github.com/dmitrijs2005/gymadmin/internal/logging"
)

// DateLayout is the format of the metrics range parameters.
const DateLayout = "2006-01-02"

// DashboardService serves the read-mostly screens around the list views:
// metrics, reports, branding and front desk access checks.
type DashboardService struct {
	client client.Client
	logger logging.Logger
}

func NewDashboardService(c client.Client, l logging.Logger) *DashboardService {
	if l == nil {
		l = logging.Nop()
	}
	return &DashboardService{client: c, logger: l}
}

// Metrics returns the dashboard summary for [start, end].
func (s *DashboardService) Metrics(ctx context.Context, start, end time.Time) (*models.Metrics, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("metrics range: end %s is before start %s", end.Format(DateLayout), start.Format(DateLayout))
	}
	q := url.Values{}
	q.Set("start", start.Format(DateLayout))
	q.Set("end", end.Format(DateLayout))

	var m models.Metrics
	if err := s.client.Get(ctx, "/metrics", q, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *DashboardService) UsersReport(ctx context.Context) (*models.UsersReport, error) {
	var r models.UsersReport
	if err := s.client.Get(ctx, "/reports/users", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Config returns the branding configuration. Branding is cosmetic, so a
// failure is logged and an empty config is returned instead.
func (s *DashboardService) Config(ctx context.Context) models.GymConfig {
	var cfg models.GymConfig
	if err := s.client.Get(ctx, "/config", nil, &cfg); err != nil {
		s.logger.Warn(ctx, "branding unavailable", "error", err)
		return models.GymConfig{}
	}
	return cfg
}

// SetConfig updates one branding setting.
func (s *DashboardService) SetConfig(ctx context.Context, key, value string) error {
	if key == "" {
		return &models.ValidationError{Fields: map[string]string{"key": "is required"}}
	}
	return s.client.Post(ctx, "/config", models.ConfigSetting{Key: key, Value: value}, nil)
}

// CheckAccess asks whether the member holding cardID may enter.
func (s *DashboardService) CheckAccess(ctx context.Context, cardID string) (*models.AccessResult, error) {
	if cardID == "" {
		return nil, &models.ValidationError{Fields: map[string]string{"card_id": "is required"}}
	}
	var res models.AccessResult
	if err := s.client.Post(ctx, "/check_access", map[string]string{"card_id": cardID}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

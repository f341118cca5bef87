package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/ports"
)

// DashboardSummary is the payload of GET /admin/dashboard.
type DashboardSummary struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveUsers   int `json:"activeUsers"`
	TotalRoles    int `json:"totalRoles"`
	ActiveShifts  int `json:"activeShifts"`
	ShiftsToday   int `json:"shiftsToday"`
	PendingShifts int `json:"pendingShifts"`
}

// DashboardOverview is everything the dashboard screen renders.
type DashboardOverview struct {
	Summary      DashboardSummary
	RecentShifts []Shift
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Client ports.APIClient
	Logger *slog.Logger
}

// DashboardService aggregates the data behind the admin dashboard screen.
type DashboardService struct {
	client ports.APIClient
	logger *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) (*DashboardService, error) {
	if opts.Client == nil {
		return nil, apperrors.Internal("dashboard service requires an API client")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "dashboard_service")
	}
	return &DashboardService{client: opts.Client, logger: logger}, nil
}

// Summary fetches the dashboard counters.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := s.client.Get(ctx, "/admin/dashboard", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// recentShiftCount is how many shifts the dashboard shows alongside the counters.
const recentShiftCount = 5

// Overview fetches the dashboard counters and the most recent shifts
// concurrently; the first failure cancels the other fetch.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	var (
		summary DashboardSummary
		recent  ShiftHistory
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.client.Get(ctx, "/admin/dashboard", &summary)
	})
	g.Go(func() error {
		q := ShiftQuery{Limit: recentShiftCount}
		return s.client.Get(ctx, q.path(), &recent)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DashboardOverview{
		Summary:      summary,
		RecentShifts: recent.Shifts,
	}, nil
}

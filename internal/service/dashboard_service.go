package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/roboadmin/internal/domain"
)

// dashboardAPI is the subset of robotics.Client that DashboardService requires.
type dashboardAPI interface {
	ListProducts(ctx context.Context) ([]domain.Robot, error)
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	ListQuotes(ctx context.Context) ([]domain.Quote, error)
}

const recentActivityLimit = 10

type Dashboard struct {
	Robots         int
	Leads          int
	Orders         OrderStats
	RecentOrders   []domain.Quote
	RecentActivity []*domain.Activity
}

type DashboardService struct {
	api      dashboardAPI
	activity *Recorder
	pageSize int
	logger   *slog.Logger
}

func NewDashboardService(api dashboardAPI, activity *Recorder, pageSize int, logger *slog.Logger) *DashboardService {
	return &DashboardService{api: api, activity: activity, pageSize: pageSize, logger: logger}
}

// Load gathers the dashboard figures. Robot and lead counts are required;
// a failing order list or activity log only leaves its panel empty.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	robots, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count robots: %w", err)
	}
	contacts, err := s.api.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	d := &Dashboard{Robots: len(robots), Leads: len(contacts)}

	quotes, err := s.api.ListQuotes(ctx)
	if err != nil {
		s.logger.Warn("dashboard orders unavailable", "error", err)
	} else {
		d.Orders = ComputeOrderStats(quotes)
		d.RecentOrders = Paginate(quotes, 1, s.pageSize).Items
	}

	d.RecentActivity, err = s.activity.Recent(ctx, recentActivityLimit)
	if err != nil {
		s.logger.Warn("dashboard activity unavailable", "error", err)
	}

	return d, nil
}

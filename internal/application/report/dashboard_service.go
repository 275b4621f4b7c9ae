package report

import (
	"context"
	"fmt"
	"time"

	"github.com/studyreuse/backend/internal/domain/barter"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/report"
	"github.com/studyreuse/backend/internal/domain/review"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// DefaultStatsLimit caps how many items and orders one dashboard load scans
const DefaultStatsLimit = 10000

// DashboardService assembles the admin dashboard from the repositories
type DashboardService struct {
	userRepo   identity.UserRepository
	itemRepo   catalog.ItemRepository
	orderRepo  trade.OrderRepository
	barterRepo barter.BarterRepository
	reviewRepo review.ReviewRepository
	statsLimit int
	topN       int
	now        func() time.Time
	logger     *zap.Logger
}

// DashboardOption configures DashboardService
type DashboardOption func(*DashboardService)

// WithStatsLimit sets how many items and orders are aggregated
func WithStatsLimit(limit int) DashboardOption {
	return func(s *DashboardService) {
		if limit > 0 {
			s.statsLimit = limit
		}
	}
}

// WithTopN sets the size of the most viewed ranking
func WithTopN(n int) DashboardOption {
	return func(s *DashboardService) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) {
		s.now = now
	}
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	userRepo identity.UserRepository,
	itemRepo catalog.ItemRepository,
	orderRepo trade.OrderRepository,
	barterRepo barter.BarterRepository,
	reviewRepo review.ReviewRepository,
	logger *zap.Logger,
	opts ...DashboardOption,
) *DashboardService {
	s := &DashboardService{
		userRepo:   userRepo,
		itemRepo:   itemRepo,
		orderRepo:  orderRepo,
		barterRepo: barterRepo,
		reviewRepo: reviewRepo,
		statsLimit: DefaultStatsLimit,
		topN:       report.DefaultTopN,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard recomputes the dashboard. Admin only.
func (s *DashboardService) Dashboard(ctx context.Context, actor shared.Actor) (*report.Dashboard, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	start := time.Now()
	now := s.now()

	totals, err := s.totals(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindForStats(ctx, s.statsLimit)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	orders, err := s.orderRepo.FindForStats(ctx, s.statsLimit)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(report.DefaultMonths - 1), 0)
	registered, err := s.userRepo.CreatedSince(ctx, firstMonth)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	dash := report.Build(report.Input{
		Totals:        totals,
		Items:         itemStats(items),
		Orders:        orderStats(orders),
		UserCreatedAt: registered,
		TopN:          s.topN,
		Months:        report.DefaultMonths,
		Now:           now,
	})

	s.logger.Debug("Dashboard computed",
		zap.Int("items", len(items)),
		zap.Int("orders", len(orders)),
		zap.Duration("took", time.Since(start)))
	return &dash, nil
}

func (s *DashboardService) totals(ctx context.Context) (report.Totals, error) {
	var t report.Totals
	all := shared.Filter{}.Normalize()

	counts := []struct {
		name  string
		dst   *int64
		count func() (int64, error)
	}{
		{"users", &t.Users, func() (int64, error) { return s.userRepo.Count(ctx, all) }},
		{"items", &t.Items, func() (int64, error) { return s.itemRepo.Count(ctx, all) }},
		{"orders", &t.Orders, func() (int64, error) { return s.orderRepo.Count(ctx, all) }},
		{"barters", &t.Barters, func() (int64, error) { return s.barterRepo.Count(ctx, all) }},
		{"reviews", &t.Reviews, func() (int64, error) { return s.reviewRepo.Count(ctx, all) }},
		{"pending approval", &t.PendingApproval, func() (int64, error) {
			f := shared.Filter{}.Normalize()
			f.Filters[catalog.FilterApproved] = false
			return s.itemRepo.Count(ctx, f)
		}},
		{"flagged", &t.Flagged, func() (int64, error) {
			f := shared.Filter{}.Normalize()
			f.Filters[catalog.FilterFlagged] = true
			return s.itemRepo.Count(ctx, f)
		}},
	}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return t, fmt.Errorf("count %s: %w", c.name, err)
		}
		*c.dst = n
	}
	return t, nil
}

func itemStats(items []catalog.Item) []report.ItemStat {
	out := make([]report.ItemStat, len(items))
	for i, it := range items {
		out[i] = report.ItemStat{
			ID:         it.ID,
			Title:      it.Title,
			Category:   it.Category,
			Views:      it.Views,
			IsApproved: it.IsApproved,
			IsFlagged:  it.IsFlagged,
			CreatedAt:  it.CreatedAt,
		}
	}
	return out
}

func orderStats(orders []trade.Order) []report.OrderStat {
	out := make([]report.OrderStat, len(orders))
	for i, o := range orders {
		out[i] = report.OrderStat{
			State:       string(o.State),
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt,
		}
	}
	return out
}

package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/domain/trade"
	"github.com/studyreuse/backend/internal/testutil"
	"go.uber.org/zap"
)

type dashboardFixture struct {
	users   *testutil.MockUserRepository
	items   *testutil.MockItemRepository
	orders  *testutil.MockOrderRepository
	barters *testutil.MockBarterRepository
	reviews *testutil.MockReviewRepository
	svc     *DashboardService
}

var fixedNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		users:   new(testutil.MockUserRepository),
		items:   new(testutil.MockItemRepository),
		orders:  new(testutil.MockOrderRepository),
		barters: new(testutil.MockBarterRepository),
		reviews: new(testutil.MockReviewRepository),
	}
	f.svc = NewDashboardService(f.users, f.items, f.orders, f.barters, f.reviews, zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }), WithTopN(2), WithStatsLimit(500))
	return f
}

func plainFilter() interface{} {
	return mock.MatchedBy(func(f shared.Filter) bool { return len(f.Filters) == 0 })
}

func itemFilter(key string, value bool) interface{} {
	return mock.MatchedBy(func(f shared.Filter) bool {
		v, ok := f.Filters[key]
		return ok && v == value && len(f.Filters) == 1
	})
}

func TestDashboardService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		f := newDashboardFixture()
		_, err := f.svc.Dashboard(ctx, testutil.UserActor("1"))
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("aggregates repositories", func(t *testing.T) {
		f := newDashboardFixture()
		f.users.On("Count", ctx, plainFilter()).Return(int64(40), nil)
		f.items.On("Count", ctx, plainFilter()).Return(int64(25), nil)
		f.items.On("Count", ctx, itemFilter(catalog.FilterApproved, false)).Return(int64(3), nil)
		f.items.On("Count", ctx, itemFilter(catalog.FilterFlagged, true)).Return(int64(2), nil)
		f.orders.On("Count", ctx, plainFilter()).Return(int64(3), nil)
		f.barters.On("Count", ctx, plainFilter()).Return(int64(7), nil)
		f.reviews.On("Count", ctx, plainFilter()).Return(int64(11), nil)

		mkItem := func(title, category string, views int64) catalog.Item {
			return catalog.Item{Title: title, Category: category, Views: views, IsApproved: true}
		}
		f.items.On("FindForStats", ctx, 500).Return([]catalog.Item{
			mkItem("Calculus", "Books", 30),
			mkItem("Lab coat", "apparel", 5),
			mkItem("Physics", "books ", 12),
		}, nil)

		mkOrder := func(state trade.OrderState, total string, at time.Time) trade.Order {
			o := trade.Order{State: state, TotalAmount: decimal.RequireFromString(total)}
			o.CreatedAt = at
			return o
		}
		f.orders.On("FindForStats", ctx, 500).Return([]trade.Order{
			mkOrder(trade.OrderStateDelivered, "300.00", fixedNow.AddDate(0, -1, 0)),
			mkOrder(trade.OrderStateDelivered, "120.50", fixedNow),
			mkOrder(trade.OrderStateCancelled, "999.00", fixedNow),
		}, nil)

		since := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
		f.users.On("CreatedSince", ctx, since).Return([]time.Time{fixedNow, fixedNow.AddDate(0, -2, 0)}, nil)

		dash, err := f.svc.Dashboard(ctx, testutil.AdminActor("1"))
		require.NoError(t, err)

		assert.Equal(t, int64(40), dash.Totals.Users)
		assert.Equal(t, int64(3), dash.Totals.PendingApproval)
		assert.Equal(t, int64(2), dash.Totals.Flagged)
		assert.True(t, decimal.RequireFromString("420.50").Equal(dash.Revenue))
		assert.Equal(t, int64(2), dash.OrderStates["Delivered"])
		require.Len(t, dash.Categories, 2)
		assert.Equal(t, "books", dash.Categories[0].Category)
		assert.Equal(t, int64(2), dash.Categories[0].Count)
		require.Len(t, dash.TopViewed, 2)
		assert.Equal(t, "Calculus", dash.TopViewed[0].Title)
		require.Len(t, dash.UsersByMonth, 12)
		assert.Equal(t, "2026-10", dash.UsersByMonth[11].Month)
		assert.Equal(t, int64(1), dash.UsersByMonth[11].Count)
		assert.Equal(t, int64(2), dash.OrdersByMonth[11].Count)
		assert.Equal(t, fixedNow, dash.GeneratedAt)
	})

	t.Run("count failure", func(t *testing.T) {
		f := newDashboardFixture()
		f.users.On("Count", ctx, mock.Anything).Return(int64(0), errors.New("db down"))

		_, err := f.svc.Dashboard(ctx, testutil.AdminActor("1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count users")
	})
}

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/domain/trade"
)

var testAddress = trade.ShippingAddress{
	FullName:   "Asha Rao",
	Phone:      "9876543210",
	Address:    "Hostel 4, Room 12",
	City:       "Pune",
	PostalCode: "411001",
	Country:    "India",
}

func newTestOrder(t *testing.T, buyerID uuid.UUID, key string, sellers ...uuid.UUID) *trade.Order {
	t.Helper()
	cart := make([]trade.CartLine, len(sellers))
	for i, seller := range sellers {
		cart[i] = trade.CartLine{
			ItemID:   uuid.New(),
			OwnerID:  seller,
			Title:    "Item",
			Price:    decimal.NewFromInt(int64(100 * (i + 1))),
			Tradable: true,
			Quantity: 1,
		}
	}
	order, err := trade.NewOrder(buyerID, cart, testAddress, "", key)
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	repo := NewGormOrderRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	buyer, s1, s2 := uuid.New(), uuid.New(), uuid.New()

	order := newTestOrder(t, buyer, "", s1, s2)
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	assert.Equal(t, trade.OrderStateAwaitingSeller, found.State)
	assert.True(t, decimal.NewFromInt(300).Equal(found.TotalAmount))
	assert.Equal(t, "Pune", found.ShippingAddress.City)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, order.Lines[0].ItemID, found.Lines[0].ItemID)
	assert.Equal(t, s2, found.Lines[1].Snapshot.OwnerID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_IdempotencyKey(t *testing.T) {
	repo := NewGormOrderRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	buyer, seller := uuid.New(), uuid.New()

	first := newTestOrder(t, buyer, "checkout-1", seller)
	require.NoError(t, repo.Create(ctx, first))

	found, err := repo.FindByIdempotencyKey(ctx, buyer, "checkout-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Len(t, found.Lines, 1)

	retry := newTestOrder(t, buyer, "checkout-1", seller)
	assert.ErrorIs(t, repo.Create(ctx, retry), shared.ErrAlreadyExists)

	// nothing of the rejected retry is left behind
	count, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// the same key is free for another buyer, and empty keys never collide
	require.NoError(t, repo.Create(ctx, newTestOrder(t, uuid.New(), "checkout-1", seller)))
	require.NoError(t, repo.Create(ctx, newTestOrder(t, buyer, "", seller)))
	require.NoError(t, repo.Create(ctx, newTestOrder(t, buyer, "", seller)))

	_, err = repo.FindByIdempotencyKey(ctx, buyer, "")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByIdempotencyKey(ctx, buyer, "unknown")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	repo := NewGormOrderRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	buyer, seller := uuid.New(), uuid.New()

	order := newTestOrder(t, buyer, "", seller)
	require.NoError(t, repo.Create(ctx, order))
	stale, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	require.NoError(t, order.RejectBySeller(shared.Actor{UserID: seller, Role: shared.RoleUser}, "Already sold offline"))
	require.NoError(t, repo.SaveWithLock(ctx, order))
	assert.Equal(t, 2, order.Version)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStateRejected, found.State)
	assert.Equal(t, "Already sold offline", found.RejectionReason)
	require.NotNil(t, found.DecidedBy)
	assert.Equal(t, seller, *found.DecidedBy)
	assert.Len(t, found.Lines, 1)

	require.NoError(t, stale.Cancel(shared.Actor{UserID: buyer, Role: shared.RoleUser}, ""))
	assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
}

func TestGormOrderRepository_FindAllFilters(t *testing.T) {
	repo := NewGormOrderRepository(newTestDatabase(t).DB)
	ctx := context.Background()
	buyer, other, s1, s2 := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	both := newTestOrder(t, buyer, "", s1, s2)
	onlyS2 := newTestOrder(t, other, "", s2)
	require.NoError(t, repo.Create(ctx, both))
	require.NoError(t, repo.Create(ctx, onlyS2))

	require.NoError(t, onlyS2.AcceptBySeller(shared.Actor{UserID: s2, Role: shared.RoleUser}))
	require.NoError(t, repo.SaveWithLock(ctx, onlyS2))

	bySeller, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{trade.FilterSellerID: s1}})
	require.NoError(t, err)
	require.Len(t, bySeller, 1)
	assert.Equal(t, both.ID, bySeller[0].ID)
	assert.Len(t, bySeller[0].Lines, 2)

	count, err := repo.Count(ctx, shared.Filter{Filters: map[string]interface{}{trade.FilterSellerID: s2}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	byBuyer, err := repo.Count(ctx, shared.Filter{Filters: map[string]interface{}{trade.FilterBuyerID: other}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byBuyer)

	processing, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{trade.FilterState: trade.OrderStateProcessing}})
	require.NoError(t, err)
	require.Len(t, processing, 1)
	assert.Equal(t, onlyS2.ID, processing[0].ID)

	open, err := repo.Count(ctx, shared.Filter{Filters: map[string]interface{}{
		trade.FilterStates: []trade.OrderState{trade.OrderStateAwaitingSeller, trade.OrderStateProcessing},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), open)

	byNumber, err := repo.Count(ctx, shared.Filter{Search: both.OrderNumber})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byNumber)

	stats, err := repo.FindForStats(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, stats, 2)
	assert.Empty(t, stats[0].Lines)
}

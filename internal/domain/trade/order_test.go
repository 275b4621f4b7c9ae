package trade

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// ============================================
// Helpers
// ============================================

var testAddress = ShippingAddress{
	FullName: "Ravi Kumar",
	Phone:    "9876543210",
	Address:  "12 Hostel Road",
	City:     "Pune",
}

func cartLine(ownerID uuid.UUID, title string, price int64, qty int) CartLine {
	return CartLine{
		ItemID:   uuid.New(),
		OwnerID:  ownerID,
		Title:    title,
		ImageURL: "https://img.example.com/" + title + ".jpg",
		Price:    decimal.NewFromInt(price),
		Tradable: true,
		Quantity: qty,
	}
}

type orderFixture struct {
	order  *Order
	buyer  shared.Actor
	seller shared.Actor
	admin  shared.Actor
}

func newOrderFixture(t *testing.T) orderFixture {
	t.Helper()
	buyerID, sellerID := uuid.New(), uuid.New()
	order, err := NewOrder(buyerID, []CartLine{cartLine(sellerID, "Physics", 200, 1)}, testAddress, "", "")
	require.NoError(t, err)
	return orderFixture{
		order:  order,
		buyer:  shared.NewActor(buyerID, shared.RoleUser),
		seller: shared.NewActor(sellerID, shared.RoleUser),
		admin:  shared.NewActor(uuid.New(), shared.RoleAdmin),
	}
}

// ============================================
// State table
// ============================================

func TestOrderState_CanTransitionTo(t *testing.T) {
	all := []OrderState{
		OrderStateAwaitingSeller, OrderStateRejected, OrderStateProcessing,
		OrderStateShipped, OrderStateDelivered, OrderStateCancelled,
	}
	allowed := map[OrderState][]OrderState{
		OrderStateAwaitingSeller: {OrderStateProcessing, OrderStateRejected, OrderStateCancelled},
		OrderStateProcessing:     {OrderStateShipped, OrderStateCancelled},
		OrderStateShipped:        {OrderStateDelivered},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, want, from.CanTransitionTo(to))
			})
		}
	}
}

func TestOrderState_CancelledOnlyFromPendingOrProcessing(t *testing.T) {
	for _, s := range []OrderState{OrderStateRejected, OrderStateShipped, OrderStateDelivered, OrderStateCancelled} {
		assert.False(t, s.CanTransitionTo(OrderStateCancelled), s)
	}
	assert.True(t, OrderStateAwaitingSeller.CanTransitionTo(OrderStateCancelled))
	assert.True(t, OrderStateProcessing.CanTransitionTo(OrderStateCancelled))
}

func TestOrderState_Terminal(t *testing.T) {
	assert.True(t, OrderStateRejected.IsTerminal())
	assert.True(t, OrderStateDelivered.IsTerminal())
	assert.True(t, OrderStateCancelled.IsTerminal())
	assert.False(t, OrderStateAwaitingSeller.IsTerminal())
	assert.False(t, OrderStateShipped.IsTerminal())
	assert.False(t, OrderState("Lost").IsValid())
}

// ============================================
// Creation
// ============================================

func TestNewOrder(t *testing.T) {
	buyerID := uuid.New()
	sellerA, sellerB := uuid.New(), uuid.New()

	t.Run("two lines totaling 300 with snapshots", func(t *testing.T) {
		lines := []CartLine{
			cartLine(sellerA, "Calculus", 100, 1),
			cartLine(sellerB, "Chemistry", 200, 1),
		}
		order, err := NewOrder(buyerID, lines, testAddress, PaymentMethodCashOnDelivery, "")
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(300).Equal(order.TotalAmount))
		require.Len(t, order.Lines, 2)
		assert.Equal(t, "Calculus", order.Lines[0].Snapshot.Title)
		assert.Equal(t, "Chemistry", order.Lines[1].Snapshot.Title)
		assert.Equal(t, OrderStateAwaitingSeller, order.State)
		assert.Equal(t, LegacyStatusPending, order.Status())
		assert.Equal(t, SellerActionPending, order.SellerAction())
		assert.True(t, strings.HasPrefix(order.OrderNumber, "SR-"))
		assert.ElementsMatch(t, []uuid.UUID{sellerA, sellerB}, order.SellerIDs())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		placed := events[0].(*OrderPlacedEvent)
		assert.Equal(t, buyerID, placed.BuyerID)
		assert.Equal(t, 2, placed.ItemCount)
	})

	t.Run("quantity multiplies price", func(t *testing.T) {
		order, err := NewOrder(buyerID, []CartLine{cartLine(sellerA, "Notes", 45, 3)}, testAddress, "", "")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(135).Equal(order.TotalAmount))
		assert.Equal(t, PaymentMethodCashOnDelivery, order.PaymentMethod)
	})

	t.Run("same item merges into one line", func(t *testing.T) {
		line := cartLine(sellerA, "Atlas", 50, 1)
		order, err := NewOrder(buyerID, []CartLine{line, line}, testAddress, "", "")
		require.NoError(t, err)
		require.Len(t, order.Lines, 1)
		assert.Equal(t, 2, order.Lines[0].Quantity)
		assert.True(t, decimal.NewFromInt(100).Equal(order.TotalAmount))
	})

	t.Run("snapshot is independent of later item changes", func(t *testing.T) {
		line := cartLine(sellerA, "Biology", 90, 1)
		order, err := NewOrder(buyerID, []CartLine{line}, testAddress, "", "")
		require.NoError(t, err)

		line.Title = "Renamed"
		line.Price = decimal.NewFromInt(1)
		assert.Equal(t, "Biology", order.Lines[0].Snapshot.Title)
		assert.True(t, decimal.NewFromInt(90).Equal(order.Lines[0].Snapshot.Price))
	})

	tests := []struct {
		name    string
		cart    []CartLine
		address ShippingAddress
		payment PaymentMethod
		code    string
	}{
		{"empty cart", nil, testAddress, "", "EMPTY_CART"},
		{"own item", []CartLine{cartLine(buyerID, "Mine", 10, 1)}, testAddress, "", "CANNOT_BUY_OWN_ITEM"},
		{"unavailable item", []CartLine{{ItemID: uuid.New(), OwnerID: sellerA, Title: "Gone", Quantity: 1}}, testAddress, "", "ITEM_NOT_AVAILABLE"},
		{"zero quantity", []CartLine{cartLine(sellerA, "Zero", 10, 0)}, testAddress, "", "INVALID_QUANTITY"},
		{"missing address", []CartLine{cartLine(sellerA, "Book", 10, 1)}, ShippingAddress{}, "", "INVALID_ADDRESS"},
		{"card payment", []CartLine{cartLine(sellerA, "Book", 10, 1)}, testAddress, "card", "INVALID_PAYMENT_METHOD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(buyerID, tt.cart, tt.address, tt.payment, "")
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

// ============================================
// Seller decision
// ============================================

func TestOrder_AcceptBySeller(t *testing.T) {
	f := newOrderFixture(t)
	f.order.ClearDomainEvents()

	assert.ErrorIs(t, f.order.AcceptBySeller(f.buyer), shared.ErrForbidden)
	assert.ErrorIs(t, f.order.AcceptBySeller(f.admin), shared.ErrForbidden)

	require.NoError(t, f.order.AcceptBySeller(f.seller))
	assert.Equal(t, OrderStateProcessing, f.order.State)
	assert.Equal(t, SellerActionAccepted, f.order.SellerAction())
	assert.Equal(t, LegacyStatusProcessing, f.order.Status())
	assert.NotNil(t, f.order.AcceptedAt)
	assert.Equal(t, f.seller.UserID, *f.order.DecidedBy)

	events := f.order.GetDomainEvents()
	require.Len(t, events, 1)
	changed := events[0].(*OrderStatusChangedEvent)
	assert.Equal(t, OrderStateAwaitingSeller, changed.OldState)
	assert.Equal(t, OrderStateProcessing, changed.NewState)

	assert.ErrorIs(t, f.order.AcceptBySeller(f.seller), shared.ErrInvalidState)
	assert.ErrorIs(t, f.order.RejectBySeller(f.seller, "changed my mind"), shared.ErrInvalidState)
}

func TestOrder_RejectBySeller(t *testing.T) {
	t.Run("reason is required", func(t *testing.T) {
		f := newOrderFixture(t)
		assert.ErrorIs(t, f.order.RejectBySeller(f.seller, "   "), shared.ErrInvalidInput)
		assert.Equal(t, OrderStateAwaitingSeller, f.order.State)
	})

	t.Run("rejected order cannot be accepted", func(t *testing.T) {
		f := newOrderFixture(t)

		require.NoError(t, f.order.RejectBySeller(f.seller, "out of stock"))
		assert.Equal(t, OrderStateRejected, f.order.State)
		assert.Equal(t, SellerActionRejected, f.order.SellerAction())
		assert.Equal(t, "out of stock", f.order.RejectionReason)

		assert.ErrorIs(t, f.order.AcceptBySeller(f.seller), shared.ErrInvalidState)
		assert.Equal(t, SellerActionRejected, f.order.SellerAction())
	})

	t.Run("non seller cannot reject", func(t *testing.T) {
		f := newOrderFixture(t)
		assert.ErrorIs(t, f.order.RejectBySeller(f.buyer, "nope"), shared.ErrForbidden)
	})
}

func TestOrder_MultiSellerAnySellerMayAct(t *testing.T) {
	buyerID, sellerA, sellerB := uuid.New(), uuid.New(), uuid.New()
	order, err := NewOrder(buyerID, []CartLine{
		cartLine(sellerA, "A", 10, 1),
		cartLine(sellerB, "B", 20, 1),
	}, testAddress, "", "")
	require.NoError(t, err)

	require.NoError(t, order.AcceptBySeller(shared.NewActor(sellerB, shared.RoleUser)))
	assert.Equal(t, OrderStateProcessing, order.State)
}

// ============================================
// Cancellation and progression
// ============================================

func TestOrder_Cancel(t *testing.T) {
	t.Run("buyer cancels while awaiting seller", func(t *testing.T) {
		f := newOrderFixture(t)
		require.NoError(t, f.order.Cancel(f.buyer, ""))
		assert.Equal(t, OrderStateCancelled, f.order.State)
		assert.Equal(t, LegacyStatusCancelled, f.order.Status())
		assert.Equal(t, SellerActionPending, f.order.SellerAction())
	})

	t.Run("buyer cancels while processing", func(t *testing.T) {
		f := newOrderFixture(t)
		require.NoError(t, f.order.AcceptBySeller(f.seller))
		require.NoError(t, f.order.Cancel(f.buyer, "found it cheaper"))
		assert.Equal(t, OrderStateCancelled, f.order.State)
		assert.Equal(t, SellerActionAccepted, f.order.SellerAction())
		assert.Equal(t, "found it cheaper", f.order.CancelReason)
	})

	t.Run("cannot cancel after shipping", func(t *testing.T) {
		f := newOrderFixture(t)
		require.NoError(t, f.order.AcceptBySeller(f.seller))
		require.NoError(t, f.order.Ship(f.seller))
		assert.ErrorIs(t, f.order.Cancel(f.buyer, ""), shared.ErrInvalidState)
	})

	t.Run("seller cannot cancel, admin can", func(t *testing.T) {
		f := newOrderFixture(t)
		assert.ErrorIs(t, f.order.Cancel(f.seller, ""), shared.ErrForbidden)
		require.NoError(t, f.order.Cancel(f.admin, "fraud"))
		assert.Equal(t, f.admin.UserID, *f.order.CancelledBy)
	})
}

func TestOrder_FullLifecycleNeverRegresses(t *testing.T) {
	f := newOrderFixture(t)

	assert.ErrorIs(t, f.order.Ship(f.seller), shared.ErrInvalidState)

	require.NoError(t, f.order.AcceptBySeller(f.seller))
	require.NoError(t, f.order.Ship(f.seller))
	assert.Equal(t, LegacyStatusShipped, f.order.Status())
	require.NoError(t, f.order.Deliver(f.buyer))
	assert.Equal(t, OrderStateDelivered, f.order.State)
	assert.NotNil(t, f.order.DeliveredAt)

	for _, fn := range []func() error{
		func() error { return f.order.AcceptBySeller(f.seller) },
		func() error { return f.order.Ship(f.seller) },
		func() error { return f.order.Deliver(f.seller) },
		func() error { return f.order.Cancel(f.buyer, "") },
	} {
		assert.ErrorIs(t, fn(), shared.ErrInvalidState)
	}
	assert.Equal(t, OrderStateDelivered, f.order.State)
}

func TestOrder_ShipPermissions(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.order.AcceptBySeller(f.seller))

	assert.ErrorIs(t, f.order.Ship(f.buyer), shared.ErrForbidden)
	require.NoError(t, f.order.Ship(f.admin))

	stranger := shared.NewActor(uuid.New(), shared.RoleUser)
	assert.ErrorIs(t, f.order.Deliver(stranger), shared.ErrForbidden)
}

func TestOrder_CanBeViewedBy(t *testing.T) {
	f := newOrderFixture(t)

	assert.True(t, f.order.CanBeViewedBy(f.buyer))
	assert.True(t, f.order.CanBeViewedBy(f.seller))
	assert.True(t, f.order.CanBeViewedBy(f.admin))
	assert.False(t, f.order.CanBeViewedBy(shared.NewActor(uuid.New(), shared.RoleUser)))
}

package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/barter"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/notification"
	"github.com/studyreuse/backend/internal/domain/review"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/domain/trade"
	"github.com/studyreuse/backend/internal/testutil"
	"go.uber.org/zap"
)

// savedTo records recipients and types of the notifications saved on repo
func savedTo(repo *testutil.MockNotificationRepository) *[]*notification.Notification {
	saved := &[]*notification.Notification{}
	repo.On("Save", mock.Anything, mock.AnythingOfType("*notification.Notification")).
		Run(func(args mock.Arguments) {
			*saved = append(*saved, args.Get(1).(*notification.Notification))
		}).Return(nil)
	return saved
}

var (
	owner     = testutil.NewTestUUID("1")
	requester = testutil.NewTestUUID("2")
	buyer     = testutil.NewTestUUID("3")
	sellerA   = testutil.NewTestUUID("4")
	sellerB   = testutil.NewTestUUID("5")
	admin     = testutil.NewTestUUID("9")
)

func TestBarterNotificationHandler(t *testing.T) {
	ctx := context.Background()
	barterID := uuid.New()
	base := func(typ string) shared.BaseDomainEvent {
		return shared.NewBaseDomainEvent(typ, barter.AggregateTypeBarter, barterID)
	}

	tests := []struct {
		name      string
		event     shared.DomainEvent
		recipient uuid.UUID
		typ       notification.Type
	}{
		{
			name: "request goes to the owner",
			event: &barter.BarterRequestedEvent{BaseDomainEvent: base(barter.EventTypeBarterRequested),
				ItemTitle: "Calculus", RequesterID: requester, OwnerID: owner},
			recipient: owner,
			typ:       notification.TypeBarterRequested,
		},
		{
			name: "accept goes to the requester",
			event: &barter.BarterStatusChangedEvent{BaseDomainEvent: base(barter.EventTypeBarterStatusChanged),
				ItemTitle: "Calculus", RequesterID: requester, OwnerID: owner,
				OldStatus: barter.StatusPending, NewStatus: barter.StatusAccepted, ChangedBy: owner},
			recipient: requester,
			typ:       notification.TypeBarterAccepted,
		},
		{
			name: "reject goes to the requester",
			event: &barter.BarterStatusChangedEvent{BaseDomainEvent: base(barter.EventTypeBarterStatusChanged),
				ItemTitle: "Calculus", RequesterID: requester, OwnerID: owner,
				OldStatus: barter.StatusPending, NewStatus: barter.StatusRejected, ChangedBy: owner},
			recipient: requester,
			typ:       notification.TypeBarterRejected,
		},
		{
			name: "withdraw goes to the owner",
			event: &barter.BarterStatusChangedEvent{BaseDomainEvent: base(barter.EventTypeBarterStatusChanged),
				ItemTitle: "Calculus", RequesterID: requester, OwnerID: owner,
				OldStatus: barter.StatusPending, NewStatus: barter.StatusRejected, Withdrawn: true, ChangedBy: requester},
			recipient: owner,
			typ:       notification.TypeBarterWithdrawn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockNotificationRepository)
			saved := savedTo(repo)
			h := NewBarterNotificationHandler(repo, zap.NewNop())

			require.NoError(t, h.Handle(ctx, tt.event))
			require.Len(t, *saved, 1)
			n := (*saved)[0]
			assert.Equal(t, tt.recipient, n.UserID)
			assert.Equal(t, tt.typ, n.Type)
			assert.Contains(t, n.Message, "Calculus")
			require.NotNil(t, n.ReferenceID)
			assert.Equal(t, barterID, *n.ReferenceID)
		})
	}

	t.Run("wrong event", func(t *testing.T) {
		h := NewBarterNotificationHandler(new(testutil.MockNotificationRepository), zap.NewNop())
		err := h.Handle(ctx, &review.ReviewSubmittedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(review.EventTypeReviewSubmitted, review.AggregateTypeReview, uuid.New()),
		})
		assert.Error(t, err)
	})
}

func TestOrderNotificationHandler(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	changed := func(state trade.OrderState, by uuid.UUID, reason string) *trade.OrderStatusChangedEvent {
		return &trade.OrderStatusChangedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeOrderStatusChanged, trade.AggregateTypeOrder, orderID),
			OrderNumber:     "ORD-20261015-0001",
			BuyerID:         buyer,
			SellerIDs:       []uuid.UUID{sellerA, sellerB},
			NewState:        state,
			ChangedBy:       by,
			Reason:          reason,
		}
	}

	t.Run("placed notifies every seller", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		h := NewOrderNotificationHandler(repo, zap.NewNop())

		err := h.Handle(ctx, &trade.OrderPlacedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeOrderPlaced, trade.AggregateTypeOrder, orderID),
			OrderNumber:     "ORD-20261015-0001",
			BuyerID:         buyer,
			SellerIDs:       []uuid.UUID{sellerA, sellerB},
		})
		require.NoError(t, err)
		require.Len(t, *saved, 2)
		assert.Equal(t, sellerA, (*saved)[0].UserID)
		assert.Equal(t, sellerB, (*saved)[1].UserID)
		assert.Equal(t, notification.TypeOrderPlaced, (*saved)[0].Type)
	})

	t.Run("seller rejection notifies the buyer with the reason", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		h := NewOrderNotificationHandler(repo, zap.NewNop())

		require.NoError(t, h.Handle(ctx, changed(trade.OrderStateRejected, sellerA, "Book already sold")))
		require.Len(t, *saved, 1)
		assert.Equal(t, buyer, (*saved)[0].UserID)
		assert.Equal(t, notification.TypeOrderStatus, (*saved)[0].Type)
		assert.Contains(t, (*saved)[0].Message, "Book already sold")
	})

	t.Run("buyer cancel notifies sellers only", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		h := NewOrderNotificationHandler(repo, zap.NewNop())

		require.NoError(t, h.Handle(ctx, changed(trade.OrderStateCancelled, buyer, "")))
		require.Len(t, *saved, 2)
		for _, n := range *saved {
			assert.NotEqual(t, buyer, n.UserID)
		}
	})

	t.Run("admin cancel notifies everyone", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		h := NewOrderNotificationHandler(repo, zap.NewNop())

		require.NoError(t, h.Handle(ctx, changed(trade.OrderStateCancelled, admin, "fraud")))
		assert.Len(t, *saved, 3)
	})

	t.Run("shipping notifies the buyer", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		h := NewOrderNotificationHandler(repo, zap.NewNop())

		require.NoError(t, h.Handle(ctx, changed(trade.OrderStateShipped, sellerA, "")))
		require.Len(t, *saved, 1)
		assert.Contains(t, (*saved)[0].Message, "shipped")
	})
}

func TestModerationNotificationHandler(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()

	t.Run("flag includes the reason", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		h := NewModerationNotificationHandler(repo, zap.NewNop())

		err := h.Handle(ctx, &catalog.ItemModeratedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(catalog.EventTypeItemModerated, catalog.AggregateTypeItem, itemID),
			OwnerID:         owner,
			Title:           "Lab coat",
			Action:          catalog.ModerationFlagged,
			Reason:          "Misleading photos",
		})
		require.NoError(t, err)
		require.Len(t, *saved, 1)
		assert.Equal(t, owner, (*saved)[0].UserID)
		assert.Equal(t, notification.TypeItemModerated, (*saved)[0].Type)
		assert.Contains(t, (*saved)[0].Message, "Misleading photos")
	})

	t.Run("owner deleting their own item is silent", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		h := NewModerationNotificationHandler(repo, zap.NewNop())

		err := h.Handle(ctx, &catalog.ItemDeletedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(catalog.EventTypeItemDeleted, catalog.AggregateTypeItem, itemID),
			OwnerID:         owner,
			DeletedBy:       owner,
			Title:           "Lab coat",
		})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("admin removal notifies the owner", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		h := NewModerationNotificationHandler(repo, zap.NewNop())

		err := h.Handle(ctx, &catalog.ItemDeletedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(catalog.EventTypeItemDeleted, catalog.AggregateTypeItem, itemID),
			OwnerID:         owner,
			DeletedBy:       admin,
			Title:           "Lab coat",
		})
		require.NoError(t, err)
		require.Len(t, *saved, 1)
		assert.Equal(t, owner, (*saved)[0].UserID)
	})
}

func TestReviewAndSecurityNotificationHandlers(t *testing.T) {
	ctx := context.Background()

	t.Run("review", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		itemID := uuid.New()
		h := NewReviewNotificationHandler(repo, zap.NewNop())

		err := h.Handle(ctx, &review.ReviewSubmittedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(review.EventTypeReviewSubmitted, review.AggregateTypeReview, uuid.New()),
			ItemID:          itemID,
			ItemTitle:       "Physics notes",
			OwnerID:         owner,
			ReviewerID:      requester,
			Rating:          4,
		})
		require.NoError(t, err)
		require.Len(t, *saved, 1)
		assert.Equal(t, notification.TypeReviewReceived, (*saved)[0].Type)
		assert.Contains(t, (*saved)[0].Message, "4-star")
		assert.Equal(t, itemID, *(*saved)[0].ReferenceID)
	})

	t.Run("password change", func(t *testing.T) {
		repo := new(testutil.MockNotificationRepository)
		saved := savedTo(repo)
		h := NewSecurityNotificationHandler(repo, zap.NewNop())

		err := h.Handle(ctx, &identity.UserPasswordChangedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(identity.EventTypeUserPasswordChanged, identity.AggregateTypeUser, owner),
			Email:           "asha@college.edu",
		})
		require.NoError(t, err)
		require.Len(t, *saved, 1)
		assert.Equal(t, owner, (*saved)[0].UserID)
		assert.Equal(t, notification.TypeAccountSecurity, (*saved)[0].Type)
	})
}

func TestHandlers_NamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, h := range Handlers(new(testutil.MockNotificationRepository), zap.NewNop()) {
		named, ok := h.(interface{ Name() string })
		require.True(t, ok)
		assert.False(t, seen[named.Name()], named.Name())
		seen[named.Name()] = true
		assert.NotEmpty(t, h.EventTypes())
	}
	assert.Len(t, seen, 5)
}

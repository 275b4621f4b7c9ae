package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/barter"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/notification"
	"github.com/studyreuse/backend/internal/domain/review"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// notifier stores notifications on behalf of the event handlers
type notifier struct {
	repo   notification.NotificationRepository
	logger *zap.Logger
}

func (n notifier) notify(ctx context.Context, userID uuid.UUID, typ notification.Type, message string, ref uuid.UUID) error {
	note, err := notification.New(userID, typ, message, &ref)
	if err != nil {
		return err
	}
	if err := n.repo.Save(ctx, note); err != nil {
		return fmt.Errorf("save notification for %s: %w", userID, err)
	}
	n.logger.Debug("Notification created",
		zap.String("user_id", userID.String()),
		zap.String("type", string(typ)))
	return nil
}

func unexpected(want string, got shared.DomainEvent) error {
	return fmt.Errorf("unexpected event type: expected %s, got %s", want, got.EventType())
}

// BarterNotificationHandler tells the other party about barter activity
type BarterNotificationHandler struct {
	notifier
}

// NewBarterNotificationHandler creates a new BarterNotificationHandler
func NewBarterNotificationHandler(repo notification.NotificationRepository, logger *zap.Logger) *BarterNotificationHandler {
	return &BarterNotificationHandler{notifier{repo: repo, logger: logger}}
}

func (h *BarterNotificationHandler) Name() string { return "notification.barter" }

func (h *BarterNotificationHandler) EventTypes() []string {
	return []string{barter.EventTypeBarterRequested, barter.EventTypeBarterStatusChanged}
}

func (h *BarterNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *barter.BarterRequestedEvent:
		return h.notify(ctx, e.OwnerID, notification.TypeBarterRequested,
			fmt.Sprintf("You received a barter request for %q", e.ItemTitle), e.AggregateID())
	case *barter.BarterStatusChangedEvent:
		switch {
		case e.Withdrawn:
			return h.notify(ctx, e.OwnerID, notification.TypeBarterWithdrawn,
				fmt.Sprintf("A barter request for %q was withdrawn", e.ItemTitle), e.AggregateID())
		case e.NewStatus == barter.StatusAccepted:
			return h.notify(ctx, e.RequesterID, notification.TypeBarterAccepted,
				fmt.Sprintf("Your barter request for %q was accepted", e.ItemTitle), e.AggregateID())
		default:
			return h.notify(ctx, e.RequesterID, notification.TypeBarterRejected,
				fmt.Sprintf("Your barter request for %q was rejected", e.ItemTitle), e.AggregateID())
		}
	}
	return unexpected(barter.EventTypeBarterRequested+"|"+barter.EventTypeBarterStatusChanged, event)
}

// OrderNotificationHandler tells sellers about new orders and buyers about progress
type OrderNotificationHandler struct {
	notifier
}

// NewOrderNotificationHandler creates a new OrderNotificationHandler
func NewOrderNotificationHandler(repo notification.NotificationRepository, logger *zap.Logger) *OrderNotificationHandler {
	return &OrderNotificationHandler{notifier{repo: repo, logger: logger}}
}

func (h *OrderNotificationHandler) Name() string { return "notification.order" }

func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged}
}

func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		for _, seller := range e.SellerIDs {
			if err := h.notify(ctx, seller, notification.TypeOrderPlaced,
				fmt.Sprintf("New order %s is waiting for your decision", e.OrderNumber), e.AggregateID()); err != nil {
				return err
			}
		}
		return nil
	case *trade.OrderStatusChangedEvent:
		return h.statusChanged(ctx, e)
	}
	return unexpected(trade.EventTypeOrderPlaced+"|"+trade.EventTypeOrderStatusChanged, event)
}

func (h *OrderNotificationHandler) statusChanged(ctx context.Context, e *trade.OrderStatusChangedEvent) error {
	var msg string
	switch e.NewState {
	case trade.OrderStateProcessing:
		msg = fmt.Sprintf("Your order %s was accepted by the seller", e.OrderNumber)
	case trade.OrderStateRejected:
		msg = fmt.Sprintf("Your order %s was rejected: %s", e.OrderNumber, e.Reason)
	case trade.OrderStateShipped:
		msg = fmt.Sprintf("Your order %s has been shipped", e.OrderNumber)
	case trade.OrderStateDelivered:
		msg = fmt.Sprintf("Your order %s was delivered", e.OrderNumber)
	case trade.OrderStateCancelled:
		msg = fmt.Sprintf("Order %s was cancelled", e.OrderNumber)
	default:
		return nil
	}

	// the acting party already knows
	if e.ChangedBy != e.BuyerID {
		if err := h.notify(ctx, e.BuyerID, notification.TypeOrderStatus, msg, e.AggregateID()); err != nil {
			return err
		}
	}
	if e.NewState == trade.OrderStateCancelled {
		for _, seller := range e.SellerIDs {
			if seller == e.ChangedBy {
				continue
			}
			if err := h.notify(ctx, seller, notification.TypeOrderStatus, msg, e.AggregateID()); err != nil {
				return err
			}
		}
	}
	return nil
}

// ModerationNotificationHandler tells owners about admin actions on their items
type ModerationNotificationHandler struct {
	notifier
}

// NewModerationNotificationHandler creates a new ModerationNotificationHandler
func NewModerationNotificationHandler(repo notification.NotificationRepository, logger *zap.Logger) *ModerationNotificationHandler {
	return &ModerationNotificationHandler{notifier{repo: repo, logger: logger}}
}

func (h *ModerationNotificationHandler) Name() string { return "notification.moderation" }

func (h *ModerationNotificationHandler) EventTypes() []string {
	return []string{catalog.EventTypeItemModerated, catalog.EventTypeItemDeleted}
}

func (h *ModerationNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *catalog.ItemModeratedEvent:
		var msg string
		switch e.Action {
		case catalog.ModerationApproved:
			msg = fmt.Sprintf("Your listing %q was approved and is now visible", e.Title)
		case catalog.ModerationFlagged:
			msg = fmt.Sprintf("Your listing %q was flagged: %s", e.Title, e.Reason)
		case catalog.ModerationUnflagged:
			msg = fmt.Sprintf("Your listing %q is visible again", e.Title)
		default:
			return nil
		}
		return h.notify(ctx, e.OwnerID, notification.TypeItemModerated, msg, e.AggregateID())
	case *catalog.ItemDeletedEvent:
		if e.DeletedBy == e.OwnerID {
			return nil
		}
		return h.notify(ctx, e.OwnerID, notification.TypeItemModerated,
			fmt.Sprintf("Your listing %q was removed by an administrator", e.Title), e.AggregateID())
	}
	return unexpected(catalog.EventTypeItemModerated+"|"+catalog.EventTypeItemDeleted, event)
}

// ReviewNotificationHandler tells owners about new reviews
type ReviewNotificationHandler struct {
	notifier
}

// NewReviewNotificationHandler creates a new ReviewNotificationHandler
func NewReviewNotificationHandler(repo notification.NotificationRepository, logger *zap.Logger) *ReviewNotificationHandler {
	return &ReviewNotificationHandler{notifier{repo: repo, logger: logger}}
}

func (h *ReviewNotificationHandler) Name() string { return "notification.review" }

func (h *ReviewNotificationHandler) EventTypes() []string {
	return []string{review.EventTypeReviewSubmitted}
}

func (h *ReviewNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*review.ReviewSubmittedEvent)
	if !ok {
		return unexpected(review.EventTypeReviewSubmitted, event)
	}
	return h.notify(ctx, e.OwnerID, notification.TypeReviewReceived,
		fmt.Sprintf("%q received a %d-star review", e.ItemTitle, e.Rating), e.ItemID)
}

// SecurityNotificationHandler records account security events for the user
type SecurityNotificationHandler struct {
	notifier
}

// NewSecurityNotificationHandler creates a new SecurityNotificationHandler
func NewSecurityNotificationHandler(repo notification.NotificationRepository, logger *zap.Logger) *SecurityNotificationHandler {
	return &SecurityNotificationHandler{notifier{repo: repo, logger: logger}}
}

func (h *SecurityNotificationHandler) Name() string { return "notification.security" }

func (h *SecurityNotificationHandler) EventTypes() []string {
	return []string{identity.EventTypeUserPasswordChanged}
}

func (h *SecurityNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*identity.UserPasswordChangedEvent)
	if !ok {
		return unexpected(identity.EventTypeUserPasswordChanged, event)
	}
	return h.notify(ctx, e.AggregateID(), notification.TypeAccountSecurity,
		"Your password was changed and all sessions were signed out", e.AggregateID())
}

// Handlers returns every notification handler
func Handlers(repo notification.NotificationRepository, logger *zap.Logger) []shared.EventHandler {
	return []shared.EventHandler{
		NewBarterNotificationHandler(repo, logger),
		NewOrderNotificationHandler(repo, logger),
		NewModerationNotificationHandler(repo, logger),
		NewReviewNotificationHandler(repo, logger),
		NewSecurityNotificationHandler(repo, logger),
	}
}

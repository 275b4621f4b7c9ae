package event

import (
	"github.com/studyreuse/backend/internal/domain/barter"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/review"
	"github.com/studyreuse/backend/internal/domain/trade"
)

// RegisterAllEvents registers every marketplace event with the serializer
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})

	// Catalog
	serializer.Register(catalog.EventTypeItemListed, &catalog.ItemListedEvent{})
	serializer.Register(catalog.EventTypeItemUpdated, &catalog.ItemUpdatedEvent{})
	serializer.Register(catalog.EventTypeItemStatusChanged, &catalog.ItemStatusChangedEvent{})
	serializer.Register(catalog.EventTypeItemModerated, &catalog.ItemModeratedEvent{})
	serializer.Register(catalog.EventTypeItemDeleted, &catalog.ItemDeletedEvent{})

	// Barter
	serializer.Register(barter.EventTypeBarterRequested, &barter.BarterRequestedEvent{})
	serializer.Register(barter.EventTypeBarterStatusChanged, &barter.BarterStatusChangedEvent{})

	// Trade
	serializer.Register(trade.EventTypeOrderPlaced, &trade.OrderPlacedEvent{})
	serializer.Register(trade.EventTypeOrderStatusChanged, &trade.OrderStatusChangedEvent{})

	// Review
	serializer.Register(review.EventTypeReviewSubmitted, &review.ReviewSubmittedEvent{})
}

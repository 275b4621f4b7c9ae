package barter

import (
	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// AggregateTypeBarter is the aggregate type of barters
const AggregateTypeBarter = "Barter"

const (
	EventTypeBarterRequested     = "BarterRequested"
	EventTypeBarterStatusChanged = "BarterStatusChanged"
)

// BarterRequestedEvent is published when a requester proposes a barter
type BarterRequestedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID `json:"item_id"`
	ItemTitle   string    `json:"item_title"`
	RequesterID uuid.UUID `json:"requester_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Message     string    `json:"message,omitempty"`
}

func NewBarterRequestedEvent(b *Barter) *BarterRequestedEvent {
	return &BarterRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBarterRequested, AggregateTypeBarter, b.ID),
		ItemID:          b.ItemID,
		ItemTitle:       b.ItemTitle,
		RequesterID:     b.RequesterID,
		OwnerID:         b.OwnerID,
		Message:         b.Message,
	}
}

// BarterStatusChangedEvent is published on accept, reject and withdraw
type BarterStatusChangedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID `json:"item_id"`
	ItemTitle   string    `json:"item_title"`
	RequesterID uuid.UUID `json:"requester_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	OldStatus   Status    `json:"old_status"`
	NewStatus   Status    `json:"new_status"`
	Withdrawn   bool      `json:"withdrawn"`
	ChangedBy   uuid.UUID `json:"changed_by"`
}

func NewBarterStatusChangedEvent(b *Barter, old Status, changedBy uuid.UUID) *BarterStatusChangedEvent {
	return &BarterStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBarterStatusChanged, AggregateTypeBarter, b.ID),
		ItemID:          b.ItemID,
		ItemTitle:       b.ItemTitle,
		RequesterID:     b.RequesterID,
		OwnerID:         b.OwnerID,
		OldStatus:       old,
		NewStatus:       b.Status,
		Withdrawn:       b.Withdrawn,
		ChangedBy:       changedBy,
	}
}

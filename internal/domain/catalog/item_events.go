package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// AggregateTypeItem is the aggregate type of catalog items
const AggregateTypeItem = "Item"

const (
	EventTypeItemListed        = "ItemListed"
	EventTypeItemUpdated       = "ItemUpdated"
	EventTypeItemStatusChanged = "ItemStatusChanged"
	EventTypeItemModerated     = "ItemModerated"
	EventTypeItemDeleted       = "ItemDeleted"
)

// ModerationAction is what an admin did to an item
type ModerationAction string

const (
	ModerationApproved  ModerationAction = "approved"
	ModerationFlagged   ModerationAction = "flagged"
	ModerationUnflagged ModerationAction = "unflagged"
)

// ItemListedEvent is published when an item is listed
type ItemListedEvent struct {
	shared.BaseDomainEvent
	OwnerID  uuid.UUID       `json:"owner_id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

func NewItemListedEvent(i *Item) *ItemListedEvent {
	return &ItemListedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemListed, AggregateTypeItem, i.ID),
		OwnerID:         i.OwnerID,
		Title:           i.Title,
		Category:        i.Category,
		Price:           i.Price,
	}
}

// ItemUpdatedEvent is published after an owner edit
type ItemUpdatedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Title   string    `json:"title"`
}

func NewItemUpdatedEvent(i *Item) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemUpdated, AggregateTypeItem, i.ID),
		OwnerID:         i.OwnerID,
		Title:           i.Title,
	}
}

// ItemStatusChangedEvent is published when availability changes
type ItemStatusChangedEvent struct {
	shared.BaseDomainEvent
	OwnerID   uuid.UUID  `json:"owner_id"`
	OldStatus ItemStatus `json:"old_status"`
	NewStatus ItemStatus `json:"new_status"`
}

func NewItemStatusChangedEvent(i *Item, old ItemStatus) *ItemStatusChangedEvent {
	return &ItemStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemStatusChanged, AggregateTypeItem, i.ID),
		OwnerID:         i.OwnerID,
		OldStatus:       old,
		NewStatus:       i.Status,
	}
}

// ItemModeratedEvent is published on approve, flag and unflag
type ItemModeratedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID        `json:"owner_id"`
	Title   string           `json:"title"`
	Action  ModerationAction `json:"action"`
	Reason  string           `json:"reason,omitempty"`
}

func NewItemModeratedEvent(i *Item, action ModerationAction, reason string) *ItemModeratedEvent {
	return &ItemModeratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemModerated, AggregateTypeItem, i.ID),
		OwnerID:         i.OwnerID,
		Title:           i.Title,
		Action:          action,
		Reason:          reason,
	}
}

// ItemDeletedEvent is published when a listing is removed
type ItemDeletedEvent struct {
	shared.BaseDomainEvent
	OwnerID   uuid.UUID `json:"owner_id"`
	DeletedBy uuid.UUID `json:"deleted_by"`
	Title     string    `json:"title"`
	ImageKey  string    `json:"image_key,omitempty"`
}

func NewItemDeletedEvent(i *Item, deletedBy uuid.UUID) *ItemDeletedEvent {
	return &ItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeleted, AggregateTypeItem, i.ID),
		OwnerID:         i.OwnerID,
		DeletedBy:       deletedBy,
		Title:           i.Title,
		ImageKey:        i.ImageKey,
	}
}

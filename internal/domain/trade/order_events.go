package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type of orders
const AggregateTypeOrder = "Order"

const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderPlacedEvent is published when a buyer places an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	BuyerID     uuid.UUID       `json:"buyer_id"`
	SellerIDs   []uuid.UUID     `json:"seller_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		SellerIDs:       o.SellerIDs(),
		TotalAmount:     o.TotalAmount,
		ItemCount:       o.ItemCount(),
	}
}

// OrderStatusChangedEvent is published on every state transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	BuyerID     uuid.UUID   `json:"buyer_id"`
	SellerIDs   []uuid.UUID `json:"seller_ids"`
	OldState    OrderState  `json:"old_state"`
	NewState    OrderState  `json:"new_state"`
	ChangedBy   uuid.UUID   `json:"changed_by"`
	Reason      string      `json:"reason,omitempty"`
}

func NewOrderStatusChangedEvent(o *Order, old OrderState, by uuid.UUID, reason string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		SellerIDs:       o.SellerIDs(),
		OldState:        old,
		NewState:        o.State,
		ChangedBy:       by,
		Reason:          reason,
	}
}

package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/trade"
)

// CartItemRequest is one cart entry
type CartItemRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1,max=99"`
}

// ShippingAddressRequest is the delivery address of an order
type ShippingAddressRequest struct {
	FullName   string `json:"full_name" binding:"required,max=200"`
	Phone      string `json:"phone" binding:"max=30"`
	Address    string `json:"address" binding:"required,max=500"`
	City       string `json:"city" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// CreateOrderRequest is the payload of POST /orders. IdempotencyKey is
// filled from the Idempotency-Key header.
type CreateOrderRequest struct {
	Items           []CartItemRequest      `json:"items" binding:"required,min=1,max=50,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"omitempty,oneof=cash_on_delivery"`
	IdempotencyKey  string                 `json:"-"`
}

// RejectOrderRequest is the payload of POST /orders/:id/reject
type RejectOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CancelOrderRequest is the payload of POST /orders/:id/cancel
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter is the query of the order list endpoints
type OrderListFilter struct {
	State    string `form:"state" binding:"omitempty,oneof=AwaitingSeller Rejected Processing Shipped Delivered Cancelled"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OrderLineResponse is one line of an order as it was at purchase time
type OrderLineResponse struct {
	ID       uuid.UUID       `json:"id"`
	ItemID   uuid.UUID       `json:"item_id"`
	Title    string          `json:"title"`
	ImageURL string          `json:"image_url,omitempty"`
	SellerID uuid.UUID       `json:"seller_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
}

// ShippingAddressResponse mirrors the stored address
type ShippingAddressResponse struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// OrderResponse is the API view of an order. Status and SellerAction are
// derived from State for clients of the two-field representation.
type OrderResponse struct {
	ID              uuid.UUID               `json:"id"`
	OrderNumber     string                  `json:"order_number"`
	BuyerID         uuid.UUID               `json:"buyer_id"`
	Lines           []OrderLineResponse     `json:"lines"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	State           string                  `json:"state"`
	Status          string                  `json:"status"`
	SellerAction    string                  `json:"seller_action"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
	CancelReason    string                  `json:"cancel_reason,omitempty"`
	ShippingAddress ShippingAddressResponse `json:"shipping_address"`
	PaymentMethod   string                  `json:"payment_method"`
	AcceptedAt      *time.Time              `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time              `json:"rejected_at,omitempty"`
	ShippedAt       *time.Time              `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time              `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
	Version         int                     `json:"version"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *trade.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineResponse{
			ID:       l.ID,
			ItemID:   l.ItemID,
			Title:    l.Snapshot.Title,
			ImageURL: l.Snapshot.ImageURL,
			SellerID: l.Snapshot.OwnerID,
			Quantity: l.Quantity,
			Price:    l.Price,
			Amount:   l.Amount,
		}
	}
	a := o.ShippingAddress
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		Lines:           lines,
		TotalAmount:     o.TotalAmount,
		State:           string(o.State),
		Status:          string(o.Status()),
		SellerAction:    string(o.SellerAction()),
		RejectionReason: o.RejectionReason,
		CancelReason:    o.CancelReason,
		ShippingAddress: ShippingAddressResponse{
			FullName:   a.FullName,
			Phone:      a.Phone,
			Address:    a.Address,
			City:       a.City,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		},
		PaymentMethod: string(o.PaymentMethod),
		AcceptedAt:    o.AcceptedAt,
		RejectedAt:    o.RejectedAt,
		ShippedAt:     o.ShippedAt,
		DeliveredAt:   o.DeliveredAt,
		CancelledAt:   o.CancelledAt,
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

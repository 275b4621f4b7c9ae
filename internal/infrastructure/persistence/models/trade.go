package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/trade"
)

// ShippingAddressModel is embedded in OrderModel with the shipping_ prefix
type ShippingAddressModel struct {
	FullName   string `gorm:"type:varchar(100)"`
	Phone      string `gorm:"type:varchar(20)"`
	Address    string `gorm:"type:varchar(500)"`
	City       string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
	Country    string `gorm:"type:varchar(100)"`
}

// OrderModel is the persistence model for the Order aggregate root
type OrderModel struct {
	AggregateModel
	OrderNumber     string               `gorm:"type:varchar(40);not null;uniqueIndex:idx_orders_number"`
	BuyerID         uuid.UUID            `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_idempotency,where:idempotency_key <> ''"`
	IdempotencyKey  string               `gorm:"type:varchar(128);not null;default:'';uniqueIndex:idx_orders_idempotency,where:idempotency_key <> ''"`
	Lines           []OrderLineModel     `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	TotalAmount     decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	State           trade.OrderState     `gorm:"type:varchar(20);not null;index"`
	ShippingAddress ShippingAddressModel `gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod   trade.PaymentMethod  `gorm:"type:varchar(30);not null"`
	RejectionReason string               `gorm:"type:varchar(500)"`
	CancelReason    string               `gorm:"type:varchar(500)"`
	DecidedBy       *uuid.UUID           `gorm:"type:uuid"`
	CancelledBy     *uuid.UUID           `gorm:"type:uuid"`
	AcceptedAt      *time.Time
	RejectedAt      *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is one ordered item with its snapshot
type OrderLineModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position int             `gorm:"not null;default:0"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title    string          `gorm:"type:varchar(200);not null"`
	ImageURL string          `gorm:"type:varchar(1024)"`
	Quantity int             `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the line model to a domain OrderLine
func (m *OrderLineModel) ToDomain() trade.OrderLine {
	return trade.OrderLine{
		ID:      m.ID,
		OrderID: m.OrderID,
		ItemID:  m.ItemID,
		Snapshot: trade.ItemSnapshot{
			Title:    m.Title,
			ImageURL: m.ImageURL,
			Price:    m.Price,
			OwnerID:  m.SellerID,
		},
		Quantity: m.Quantity,
		Price:    m.Price,
		Amount:   m.Amount,
	}
}

// ToDomain converts the persistence model to a domain Order with its lines
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		BuyerID:           m.BuyerID,
		TotalAmount:       m.TotalAmount,
		State:             m.State,
		ShippingAddress: trade.ShippingAddress{
			FullName:   m.ShippingAddress.FullName,
			Phone:      m.ShippingAddress.Phone,
			Address:    m.ShippingAddress.Address,
			City:       m.ShippingAddress.City,
			PostalCode: m.ShippingAddress.PostalCode,
			Country:    m.ShippingAddress.Country,
		},
		PaymentMethod:   m.PaymentMethod,
		IdempotencyKey:  m.IdempotencyKey,
		RejectionReason: m.RejectionReason,
		CancelReason:    m.CancelReason,
		DecidedBy:       m.DecidedBy,
		CancelledBy:     m.CancelledBy,
		AcceptedAt:      m.AcceptedAt,
		RejectedAt:      m.RejectedAt,
		ShippedAt:       m.ShippedAt,
		DeliveredAt:     m.DeliveredAt,
		CancelledAt:     m.CancelledAt,
	}
	if len(m.Lines) > 0 {
		o.Lines = make([]trade.OrderLine, len(m.Lines))
		for i := range m.Lines {
			o.Lines[i] = m.Lines[i].ToDomain()
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.BuyerID = o.BuyerID
	m.IdempotencyKey = o.IdempotencyKey
	m.TotalAmount = o.TotalAmount
	m.State = o.State
	m.ShippingAddress = ShippingAddressModel{
		FullName:   o.ShippingAddress.FullName,
		Phone:      o.ShippingAddress.Phone,
		Address:    o.ShippingAddress.Address,
		City:       o.ShippingAddress.City,
		PostalCode: o.ShippingAddress.PostalCode,
		Country:    o.ShippingAddress.Country,
	}
	m.PaymentMethod = o.PaymentMethod
	m.RejectionReason = o.RejectionReason
	m.CancelReason = o.CancelReason
	m.DecidedBy = o.DecidedBy
	m.CancelledBy = o.CancelledBy
	m.AcceptedAt = o.AcceptedAt
	m.RejectedAt = o.RejectedAt
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt

	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, l := range o.Lines {
		m.Lines[i] = OrderLineModel{
			ID:       l.ID,
			OrderID:  o.ID,
			Position: i,
			ItemID:   l.ItemID,
			SellerID: l.Snapshot.OwnerID,
			Title:    l.Snapshot.Title,
			ImageURL: l.Snapshot.ImageURL,
			Quantity: l.Quantity,
			Price:    l.Price,
			Amount:   l.Amount,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

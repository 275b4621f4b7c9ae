package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/catalog"
)

// ItemModel is the persistence model for the Item aggregate
type ItemModel struct {
	AggregateModel
	OwnerID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Title       string             `gorm:"type:varchar(200);not null"`
	Description string             `gorm:"type:text"`
	Price       decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0"`
	Category    string             `gorm:"type:varchar(100);index"`
	Condition   catalog.Condition  `gorm:"type:varchar(20);not null"`
	ImageURL    string             `gorm:"type:varchar(1024)"`
	ImageKey    string             `gorm:"type:varchar(512)"`
	Status      catalog.ItemStatus `gorm:"type:varchar(20);not null;index"`
	IsApproved  bool               `gorm:"not null;default:false;index"`
	IsFlagged   bool               `gorm:"not null;default:false;index"`
	FlagReason  string             `gorm:"type:varchar(500)"`
	Views       int64              `gorm:"not null;default:0"`
	ApprovedAt  *time.Time
	FlaggedAt   *time.Time
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OwnerID:           m.OwnerID,
		Title:             m.Title,
		Description:       m.Description,
		Price:             m.Price,
		Category:          m.Category,
		Condition:         m.Condition,
		ImageURL:          m.ImageURL,
		ImageKey:          m.ImageKey,
		Status:            m.Status,
		IsApproved:        m.IsApproved,
		IsFlagged:         m.IsFlagged,
		FlagReason:        m.FlagReason,
		Views:             m.Views,
		ApprovedAt:        m.ApprovedAt,
		FlaggedAt:         m.FlaggedAt,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.OwnerID = i.OwnerID
	m.Title = i.Title
	m.Description = i.Description
	m.Price = i.Price
	m.Category = i.Category
	m.Condition = i.Condition
	m.ImageURL = i.ImageURL
	m.ImageKey = i.ImageKey
	m.Status = i.Status
	m.IsApproved = i.IsApproved
	m.IsFlagged = i.IsFlagged
	m.FlagReason = i.FlagReason
	m.Views = i.Views
	m.ApprovedAt = i.ApprovedAt
	m.FlaggedAt = i.FlaggedAt
}

// ItemModelFromDomain creates a new persistence model from a domain Item
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}

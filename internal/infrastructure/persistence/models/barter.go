package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/barter"
)

// BarterModel is the persistence model for the Barter aggregate.
// The partial unique index allows one pending request per requester and item.
type BarterModel struct {
	AggregateModel
	ItemID        uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:idx_barters_pending_request,where:status = 'pending'"`
	ItemTitle     string        `gorm:"type:varchar(200);not null"`
	RequesterID   uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:idx_barters_pending_request,where:status = 'pending'"`
	OwnerID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	OfferedItemID *uuid.UUID    `gorm:"type:uuid"`
	Message       string        `gorm:"type:varchar(1000)"`
	Status        barter.Status `gorm:"type:varchar(20);not null;default:'pending';index"`
	Withdrawn     bool          `gorm:"not null;default:false"`
	RespondedAt   *time.Time
}

// TableName returns the table name for GORM
func (BarterModel) TableName() string {
	return "barters"
}

// ToDomain converts the persistence model to a domain Barter
func (m *BarterModel) ToDomain() *barter.Barter {
	return &barter.Barter{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ItemID:            m.ItemID,
		ItemTitle:         m.ItemTitle,
		RequesterID:       m.RequesterID,
		OwnerID:           m.OwnerID,
		OfferedItemID:     m.OfferedItemID,
		Message:           m.Message,
		Status:            m.Status,
		Withdrawn:         m.Withdrawn,
		RespondedAt:       m.RespondedAt,
	}
}

// FromDomain populates the persistence model from a domain Barter
func (m *BarterModel) FromDomain(b *barter.Barter) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ItemID = b.ItemID
	m.ItemTitle = b.ItemTitle
	m.RequesterID = b.RequesterID
	m.OwnerID = b.OwnerID
	m.OfferedItemID = b.OfferedItemID
	m.Message = b.Message
	m.Status = b.Status
	m.Withdrawn = b.Withdrawn
	m.RespondedAt = b.RespondedAt
}

// BarterModelFromDomain creates a new persistence model from a domain Barter
func BarterModelFromDomain(b *barter.Barter) *BarterModel {
	m := &BarterModel{}
	m.FromDomain(b)
	return m
}

package models

import (
	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/review"
)

// ReviewModel is the persistence model for the Review aggregate
type ReviewModel struct {
	AggregateModel
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_item_reviewer"`
	ItemTitle  string    `gorm:"type:varchar(200);not null"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_item_reviewer"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review
func (m *ReviewModel) ToDomain() *review.Review {
	return &review.Review{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ItemID:            m.ItemID,
		ItemTitle:         m.ItemTitle,
		OwnerID:           m.OwnerID,
		ReviewerID:        m.ReviewerID,
		Rating:            m.Rating,
		Comment:           m.Comment,
	}
}

// FromDomain populates the persistence model from a domain Review
func (m *ReviewModel) FromDomain(r *review.Review) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ItemID = r.ItemID
	m.ItemTitle = r.ItemTitle
	m.OwnerID = r.OwnerID
	m.ReviewerID = r.ReviewerID
	m.Rating = r.Rating
	m.Comment = r.Comment
}

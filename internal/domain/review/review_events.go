package review

import (
	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

const AggregateTypeReview = "Review"

const EventTypeReviewSubmitted = "ReviewSubmitted"

// ReviewSubmittedEvent is published when a review is stored
type ReviewSubmittedEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID `json:"item_id"`
	ItemTitle  string    `json:"item_title"`
	OwnerID    uuid.UUID `json:"owner_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int       `json:"rating"`
}

func NewReviewSubmittedEvent(r *Review) *ReviewSubmittedEvent {
	return &ReviewSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewSubmitted, AggregateTypeReview, r.ID),
		ItemID:          r.ItemID,
		ItemTitle:       r.ItemTitle,
		OwnerID:         r.OwnerID,
		ReviewerID:      r.ReviewerID,
		Rating:          r.Rating,
	}
}

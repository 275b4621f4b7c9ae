package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/review"
)

// SubmitReviewRequest is the payload of POST /items/:id/reviews
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,min=10,max=2000"`
}

// ReviewListFilter is the query of GET /items/:id/reviews
type ReviewListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReviewResponse is the API view of a review
type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	ItemID       uuid.UUID `json:"item_id"`
	ReviewerID   uuid.UUID `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

// SummaryResponse is the aggregate rating of an item
type SummaryResponse struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// ItemReviewsResponse is a page of reviews with the item's rating summary
type ItemReviewsResponse struct {
	Summary    SummaryResponse  `json:"summary"`
	Reviews    []ReviewResponse `json:"reviews"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// ToReviewResponse converts a domain review
func ToReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ItemID:     r.ItemID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

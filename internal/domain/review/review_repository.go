package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// Filter keys understood by ReviewRepository.FindAll
const (
	FilterItemID     = "item_id"
	FilterReviewerID = "reviewer_id"
)

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindAll finds reviews with filtering, newest first by default
	FindAll(ctx context.Context, filter shared.Filter) ([]Review, error)

	// Count counts reviews matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Summarize returns the review count and average rating of an item
	Summarize(ctx context.Context, itemID uuid.UUID) (*Summary, error)

	// Create inserts a new review. A second review by the same reviewer on
	// the same item violates the unique index and returns ErrAlreadyExists.
	Create(ctx context.Context, review *Review) error

	// Delete removes a review
	Delete(ctx context.Context, id uuid.UUID) error
}

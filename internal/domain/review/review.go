package review

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 10
	MaxCommentLength = 2000
)

// ItemRef is the part of a catalog item a review needs
type ItemRef struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Title   string
}

// Review is a rating and comment left by a user on another user's item.
// A reviewer has at most one review per item; the store enforces it.
type Review struct {
	shared.BaseAggregateRoot
	ItemID     uuid.UUID
	ItemTitle  string
	OwnerID    uuid.UUID
	ReviewerID uuid.UUID
	Rating     int
	Comment    string
}

// NewReview creates a review of item by reviewerID
func NewReview(item ItemRef, reviewerID uuid.UUID, rating int, comment string) (*Review, error) {
	if item.ID == uuid.Nil || reviewerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Item and reviewer are required")
	}
	if item.OwnerID == reviewerID {
		return nil, shared.NewDomainError(shared.CodeForbidden, "You cannot review your own item")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating))
	}
	comment = strings.TrimSpace(comment)
	n := utf8.RuneCountInString(comment)
	if n < MinCommentLength {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Comment must be at least %d characters", MinCommentLength))
	}
	if n > MaxCommentLength {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Comment cannot exceed %d characters", MaxCommentLength))
	}

	r := &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            item.ID,
		ItemTitle:         item.Title,
		OwnerID:           item.OwnerID,
		ReviewerID:        reviewerID,
		Rating:            rating,
		Comment:           comment,
	}
	r.AddDomainEvent(NewReviewSubmittedEvent(r))
	return r, nil
}

// CanBeDeletedBy reports whether actor may remove the review
func (r *Review) CanBeDeletedBy(actor shared.Actor) bool {
	return actor.IsAdmin() || actor.Is(r.ReviewerID)
}

// Summary is the aggregate rating of an item
type Summary struct {
	ItemID  uuid.UUID
	Count   int64
	Average float64
}

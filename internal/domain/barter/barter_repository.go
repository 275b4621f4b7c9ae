package barter

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// Filter keys understood by BarterRepository.FindAll and Count
const (
	FilterOwnerID     = "owner_id"
	FilterRequesterID = "requester_id"
	FilterItemID      = "item_id"
	FilterStatus      = "status"
)

// BarterRepository persists barters
type BarterRepository interface {
	// FindByID returns shared.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Barter, error)

	// FindAll lists barters matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Barter, error)

	// Count counts barters matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsPending reports whether requesterID already has a pending barter on itemID
	ExistsPending(ctx context.Context, itemID, requesterID uuid.UUID) (bool, error)

	// Save inserts a new barter
	Save(ctx context.Context, b *Barter) error

	// SaveWithLock updates a barter if its stored version matches b.Version.
	// A stale version yields shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, b *Barter) error
}

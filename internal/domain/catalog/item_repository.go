package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// Filter keys understood by ItemRepository.FindAll and Count
const (
	FilterOwnerID   = "owner_id"
	FilterCategory  = "category"
	FilterCondition = "condition"
	FilterStatus    = "status"
	FilterApproved  = "is_approved"
	FilterFlagged   = "is_flagged"
	FilterMinPrice  = "min_price"
	FilterMaxPrice  = "max_price"
)

// ItemRepository persists catalog items
type ItemRepository interface {
	// FindByID returns shared.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDs loads several items, skipping unknown ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// FindAll lists items matching the filter. Search matches title and description.
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)

	// Count counts items matching the filter (pagination ignored)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindForStats returns up to limit items, newest first, for dashboard aggregation
	FindForStats(ctx context.Context, limit int) ([]Item, error)

	// Save creates or fully updates an item
	Save(ctx context.Context, item *Item) error

	// SaveWithLock updates an item if its stored version matches item.Version.
	// A stale version yields shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, item *Item) error

	// IncrementViews atomically bumps the view counter
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// Delete removes an item
	Delete(ctx context.Context, id uuid.UUID) error
}

package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// Filter keys understood by OrderRepository.FindAll and Count
const (
	FilterBuyerID  = "buyer_id"
	FilterSellerID = "seller_id"
	FilterState    = "state"
	FilterStates   = "states"
)

// OrderRepository persists orders with their lines
type OrderRepository interface {
	// FindByID loads an order with its lines; shared.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIdempotencyKey finds the order a buyer created with key
	FindByIdempotencyKey(ctx context.Context, buyerID uuid.UUID, key string) (*Order, error)

	// FindAll lists orders (with lines) matching the filter.
	// FilterSellerID matches orders containing at least one line owned by the seller.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindForStats returns up to limit orders without lines, newest first
	FindForStats(ctx context.Context, limit int) ([]Order, error)

	// Create inserts a new order and its lines in one transaction.
	// A reused idempotency key for the same buyer yields shared.ErrAlreadyExists.
	Create(ctx context.Context, order *Order) error

	// SaveWithLock updates the order header if its stored version matches.
	// A stale version yields shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, order *Order) error
}

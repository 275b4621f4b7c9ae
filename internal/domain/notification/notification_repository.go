package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// Filter keys understood by NotificationRepository.FindAll
const (
	FilterUserID = "user_id"
	FilterIsRead = "is_read"
	FilterType   = "type"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindAll finds notifications with filtering, newest first by default
	FindAll(ctx context.Context, filter shared.Filter) ([]Notification, error)

	// Count counts notifications matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountUnread counts unread notifications of a user
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// Save creates or updates a notification
	Save(ctx context.Context, n *Notification) error

	// MarkAllRead marks every unread notification of a user as read and
	// returns how many changed
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

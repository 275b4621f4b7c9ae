package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// UserRepository persists users
type UserRepository interface {
	// FindByID returns shared.ErrNotFound when the user does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail looks a user up by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByIDs loads several users at once, skipping unknown ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)

	// FindAll lists users; Filters may contain "role"
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByEmail reports whether the email is taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreatedSince returns the registration times of users created at or after since
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)

	// Save inserts or updates a user. A duplicate email yields shared.ErrAlreadyExists.
	Save(ctx context.Context, user *User) error
}

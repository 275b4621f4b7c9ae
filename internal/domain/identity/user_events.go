package identity

import (
	"github.com/studyreuse/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type of users
const AggregateTypeUser = "User"

const (
	EventTypeUserRegistered      = "UserRegistered"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
)

// UserRegisteredEvent is published when an account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  shared.Role `json:"role"`
}

func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID),
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserPasswordChangedEvent is published after a password change
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, u.ID),
		Email:           u.Email,
	}
}

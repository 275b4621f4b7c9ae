package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// Type classifies what a notification is about
type Type string

const (
	TypeBarterRequested Type = "barter_requested"
	TypeBarterAccepted  Type = "barter_accepted"
	TypeBarterRejected  Type = "barter_rejected"
	TypeBarterWithdrawn Type = "barter_withdrawn"
	TypeOrderPlaced     Type = "order_placed"
	TypeOrderStatus     Type = "order_status"
	TypeItemModerated   Type = "item_moderated"
	TypeReviewReceived  Type = "review_received"
	TypeAccountSecurity Type = "account_security"
)

// IsValid checks if the type is a known value
func (t Type) IsValid() bool {
	switch t {
	case TypeBarterRequested, TypeBarterAccepted, TypeBarterRejected, TypeBarterWithdrawn,
		TypeOrderPlaced, TypeOrderStatus, TypeItemModerated, TypeReviewReceived, TypeAccountSecurity:
		return true
	}
	return false
}

// Notification is a message for one user. Being read is its only mutation.
type Notification struct {
	shared.BaseEntity
	UserID      uuid.UUID
	Message     string
	Type        Type
	ReferenceID *uuid.UUID
	IsRead      bool
	ReadAt      *time.Time
}

// New creates an unread notification
func New(userID uuid.UUID, typ Type, message string, referenceID *uuid.UUID) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Recipient is required")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown notification type")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Message is required")
	}
	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Message:     message,
		Type:        typ,
		ReferenceID: referenceID,
	}, nil
}

// MarkRead marks the notification read. Only the recipient may do so, and
// marking twice keeps the first read time.
func (n *Notification) MarkRead(actor shared.Actor) error {
	if !actor.Is(n.UserID) {
		return shared.NewDomainError(shared.CodeForbidden, "Not your notification")
	}
	if n.IsRead {
		return nil
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	n.Touch()
	return nil
}

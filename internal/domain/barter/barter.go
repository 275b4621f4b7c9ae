package barter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// Status is the state of a barter request
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransitionTo checks the transition table. Only pending moves, and only forward.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusAccepted || target == StatusRejected
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

const maxMessageLength = 1000

// Barter is a peer-to-peer trade proposal for one listed item
type Barter struct {
	shared.BaseAggregateRoot
	ItemID        uuid.UUID
	ItemTitle     string
	RequesterID   uuid.UUID
	OwnerID       uuid.UUID
	OfferedItemID *uuid.UUID
	Message       string
	Status        Status
	Withdrawn     bool
	RespondedAt   *time.Time
}

// ItemRef is the part of a catalog item a barter needs
type ItemRef struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Available bool
}

// NewBarter proposes a barter from requesterID for item
func NewBarter(item ItemRef, requesterID uuid.UUID, message string, offeredItemID *uuid.UUID) (*Barter, error) {
	if requesterID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Requester is required")
	}
	if item.OwnerID == requesterID {
		return nil, shared.NewDomainError("CANNOT_BARTER_OWN_ITEM", "You cannot barter your own item")
	}
	if !item.Available {
		return nil, shared.NewDomainError("ITEM_NOT_AVAILABLE", "Item is not available for barter")
	}
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Message cannot exceed %d characters", maxMessageLength))
	}
	if offeredItemID != nil && *offeredItemID == item.ID {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Offered item must differ from the requested item")
	}

	b := &Barter{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            item.ID,
		ItemTitle:         item.Title,
		RequesterID:       requesterID,
		OwnerID:           item.OwnerID,
		OfferedItemID:     offeredItemID,
		Message:           message,
		Status:            StatusPending,
	}
	b.AddDomainEvent(NewBarterRequestedEvent(b))
	return b, nil
}

// UpdateStatus applies a status change requested by actor.
// The owner may accept or reject; the requester may only withdraw, which is
// recorded as rejected.
func (b *Barter) UpdateStatus(actor shared.Actor, target Status) error {
	if !target.IsValid() || target == StatusPending {
		return shared.NewDomainError(shared.CodeInvalidInput, "Status must be accepted or rejected")
	}

	isOwner := actor.Is(b.OwnerID)
	isRequester := actor.Is(b.RequesterID)
	switch {
	case isOwner:
	case isRequester:
		if target != StatusRejected {
			return shared.NewDomainError(shared.CodeForbidden, "Only the item owner can accept a barter")
		}
	default:
		return shared.NewDomainError(shared.CodeForbidden, "Only barter participants can change its status")
	}

	if !b.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot change barter from %s to %s", b.Status, target))
	}

	old := b.Status
	now := time.Now()
	b.Status = target
	b.Withdrawn = isRequester && !isOwner
	b.RespondedAt = &now
	b.Touch()
	b.AddDomainEvent(NewBarterStatusChangedEvent(b, old, actor.UserID))
	return nil
}

// Accept is UpdateStatus(actor, StatusAccepted)
func (b *Barter) Accept(actor shared.Actor) error {
	return b.UpdateStatus(actor, StatusAccepted)
}

// Reject is UpdateStatus(actor, StatusRejected)
func (b *Barter) Reject(actor shared.Actor) error {
	return b.UpdateStatus(actor, StatusRejected)
}

// IsParticipant reports whether userID is the requester or the owner
func (b *Barter) IsParticipant(userID uuid.UUID) bool {
	return b.RequesterID == userID || b.OwnerID == userID
}

// CanBeViewedBy reports whether actor may read the barter
func (b *Barter) CanBeViewedBy(actor shared.Actor) bool {
	return actor.IsAdmin() || b.IsParticipant(actor.UserID)
}

// CounterpartyOf returns the other participant
func (b *Barter) CounterpartyOf(userID uuid.UUID) uuid.UUID {
	if userID == b.OwnerID {
		return b.RequesterID
	}
	return b.OwnerID
}

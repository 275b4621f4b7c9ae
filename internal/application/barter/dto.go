package barter

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/barter"
)

// CreateBarterRequest is the payload of POST /barters
type CreateBarterRequest struct {
	ItemID        uuid.UUID  `json:"item_id" binding:"required"`
	Message       string     `json:"message" binding:"max=1000"`
	OfferedItemID *uuid.UUID `json:"offered_item_id"`
}

// UpdateBarterStatusRequest is the payload of PATCH /barters/:id/status
type UpdateBarterStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

// BarterListFilter is the query of the barter list endpoints
type BarterListFilter struct {
	Status   string     `form:"status" binding:"omitempty,oneof=pending accepted rejected"`
	ItemID   *uuid.UUID `form:"item_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Party is a participant of a barter
type Party struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// BarterResponse is the API view of a barter
type BarterResponse struct {
	ID            uuid.UUID  `json:"id"`
	ItemID        uuid.UUID  `json:"item_id"`
	ItemTitle     string     `json:"item_title"`
	Requester     Party      `json:"requester"`
	Owner         Party      `json:"owner"`
	OfferedItemID *uuid.UUID `json:"offered_item_id,omitempty"`
	Message       string     `json:"message,omitempty"`
	Status        string     `json:"status"`
	Withdrawn     bool       `json:"withdrawn"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToBarterResponse converts a domain barter
func ToBarterResponse(b *barter.Barter) BarterResponse {
	return BarterResponse{
		ID:            b.ID,
		ItemID:        b.ItemID,
		ItemTitle:     b.ItemTitle,
		Requester:     Party{ID: b.RequesterID},
		Owner:         Party{ID: b.OwnerID},
		OfferedItemID: b.OfferedItemID,
		Message:       b.Message,
		Status:        string(b.Status),
		Withdrawn:     b.Withdrawn,
		RespondedAt:   b.RespondedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

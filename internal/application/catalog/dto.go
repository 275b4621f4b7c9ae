package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/catalog"
)

// CreateItemRequest is the payload of POST /items
type CreateItemRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" binding:"required,max=100"`
	Condition   string          `json:"condition" binding:"required,oneof=new like_new good fair poor"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=1000"`
}

// UpdateItemRequest is a partial update; omitted fields stay unchanged
type UpdateItemRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Condition   *string          `json:"condition" binding:"omitempty,oneof=new like_new good fair poor"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,max=1000"`
}

// ChangeStatusRequest is the payload of PATCH /items/:id/status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Available Reserved Sold"`
}

// FlagRequest is the payload of POST /admin/items/:id/flag
type FlagRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ItemListFilter is the query of the item list endpoints
type ItemListFilter struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	Condition string `form:"condition" binding:"omitempty,oneof=new like_new good fair poor"`
	Status    string `form:"status" binding:"omitempty,oneof=Available Reserved Sold"`
	MinPrice  string `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice  string `form:"max_price" binding:"omitempty,numeric"`
	Approved  *bool  `form:"approved"`
	Flagged   *bool  `form:"flagged"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=created_at price views title"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ImageUploadRequest asks for a presigned upload URL
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

// ImageUploadResponse tells the browser where to PUT the image
type ImageUploadResponse struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Key       string            `json:"key"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ConfirmImageRequest attaches an uploaded object to the item
type ConfirmImageRequest struct {
	Key string `json:"key" binding:"required,max=500"`
}

// OwnerInfo is the public part of the seller shown on a listing
type OwnerInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// ItemResponse is the API view of an item
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Owner       OwnerInfo       `json:"owner"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	ImageURL    string          `json:"image_url,omitempty"`
	Status      string          `json:"status"`
	IsApproved  bool            `json:"is_approved"`
	IsFlagged   bool            `json:"is_flagged"`
	FlagReason  string          `json:"flag_reason,omitempty"`
	Views       int64           `json:"views"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToItemResponse converts a domain item
func ToItemResponse(i *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Owner:       OwnerInfo{ID: i.OwnerID},
		Title:       i.Title,
		Description: i.Description,
		Price:       i.Price,
		Category:    i.Category,
		Condition:   string(i.Condition),
		ImageURL:    i.ImageURL,
		Status:      string(i.Status),
		IsApproved:  i.IsApproved,
		IsFlagged:   i.IsFlagged,
		FlagReason:  i.FlagReason,
		Views:       i.Views,
		Version:     i.Version,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []catalog.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}

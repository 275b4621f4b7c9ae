package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/notification"
)

// NotificationListFilter is the query of GET /notifications
type NotificationListFilter struct {
	Unread   bool   `form:"unread"`
	Type     string `form:"type"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NotificationResponse is the API view of a notification
type NotificationResponse struct {
	ID          uuid.UUID  `json:"id"`
	Message     string     `json:"message"`
	Type        string     `json:"type"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UnreadCountResponse is the badge count
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// MarkAllReadResponse reports how many notifications changed
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ToNotificationResponse converts a domain notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Message:     n.Message,
		Type:        string(n.Type),
		ReferenceID: n.ReferenceID,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

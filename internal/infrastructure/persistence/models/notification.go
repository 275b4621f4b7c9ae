package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for notifications
type NotificationModel struct {
	BaseModel
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1"`
	Message     string            `gorm:"type:varchar(1000);not null"`
	Type        notification.Type `gorm:"type:varchar(30);not null"`
	ReferenceID *uuid.UUID        `gorm:"type:uuid"`
	IsRead      bool              `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt      *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity:  m.BaseModel.ToDomain(),
		UserID:      m.UserID,
		Message:     m.Message,
		Type:        m.Type,
		ReferenceID: m.ReferenceID,
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain Notification
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.UserID = n.UserID
	m.Message = n.Message
	m.Type = n.Type
	m.ReferenceID = n.ReferenceID
	m.IsRead = n.IsRead
	m.ReadAt = n.ReadAt
}

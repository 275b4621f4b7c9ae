package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/notification"
	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationService is the recipient's view of their notifications
type NotificationService struct {
	repo   notification.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// List returns the actor's notifications, newest first
func (s *NotificationService) List(ctx context.Context, actor shared.Actor, f NotificationListFilter) (*shared.Paginated[NotificationResponse], error) {
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize()
	filter.Filters[notification.FilterUserID] = actor.UserID
	if f.Unread {
		filter.Filters[notification.FilterIsRead] = false
	}
	if f.Type != "" {
		if !notification.Type(f.Type).IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown notification type")
		}
		filter.Filters[notification.FilterType] = f.Type
	}

	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UnreadCount returns the number of unread notifications of the actor
func (s *NotificationService) UnreadCount(ctx context.Context, actor shared.Actor) (*UnreadCountResponse, error) {
	n, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: n}, nil
}

// MarkRead marks one notification read. Others' notifications look missing.
func (s *NotificationService) MarkRead(ctx context.Context, actor shared.Actor, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(n.UserID) {
		return nil, shared.ErrNotFound
	}
	wasRead := n.IsRead
	if err := n.MarkRead(actor); err != nil {
		return nil, err
	}
	if !wasRead {
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification of the actor read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor shared.Actor) (*MarkAllReadResponse, error) {
	n, err := s.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Marked notifications read", zap.String("user_id", actor.UserID.String()), zap.Int64("count", n))
	return &MarkAllReadResponse{Updated: n}, nil
}

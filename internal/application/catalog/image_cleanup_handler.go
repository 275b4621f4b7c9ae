package catalog

import (
	"context"
	"fmt"

	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ImageCleanupHandler removes the stored image of a deleted item
type ImageCleanupHandler struct {
	storage ImageStorage
	logger  *zap.Logger
}

// NewImageCleanupHandler creates a new ImageCleanupHandler
func NewImageCleanupHandler(storage ImageStorage, logger *zap.Logger) *ImageCleanupHandler {
	return &ImageCleanupHandler{
		storage: storage,
		logger:  logger,
	}
}

// Name identifies the handler in logs and idempotency keys
func (h *ImageCleanupHandler) Name() string {
	return "catalog.image_cleanup"
}

// EventTypes returns the event types this handler is interested in
func (h *ImageCleanupHandler) EventTypes() []string {
	return []string{catalog.EventTypeItemDeleted}
}

// Handle deletes the image object, if the item had one
func (h *ImageCleanupHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deleted, ok := event.(*catalog.ItemDeletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeItemDeleted, event.EventType())
	}
	if deleted.ImageKey == "" {
		return nil
	}

	if err := h.storage.DeleteObject(ctx, deleted.ImageKey); err != nil {
		return fmt.Errorf("delete image %s: %w", deleted.ImageKey, err)
	}
	h.logger.Debug("Deleted image of removed item",
		zap.String("item_id", deleted.AggregateID().String()),
		zap.String("key", deleted.ImageKey))
	return nil
}

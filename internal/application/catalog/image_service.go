package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ImageStorage is the object store holding item images
type ImageStorage interface {
	// GenerateUploadURL presigns a PUT of key with contentType
	GenerateUploadURL(ctx context.Context, key, contentType string) (string, time.Time, error)
	// ImageURL is the address clients load the object from
	ImageURL(key string) string
	// ObjectExists reports whether key has been uploaded
	ObjectExists(ctx context.Context, key string) (bool, error)
	// DeleteObject removes key; a missing key is not an error
	DeleteObject(ctx context.Context, key string) error
}

// DefaultMaxImageSize is used when no limit is configured
const DefaultMaxImageSize int64 = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageService issues upload URLs for item images and attaches uploaded
// objects to items. The browser uploads directly to the object store.
type ImageService struct {
	itemRepo       catalog.ItemRepository
	storage        ImageStorage
	eventPublisher shared.EventPublisher
	maxSize        int64
	logger         *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(itemRepo catalog.ItemRepository, storage ImageStorage, maxSize int64, logger *zap.Logger) *ImageService {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	return &ImageService{
		itemRepo: itemRepo,
		storage:  storage,
		maxSize:  maxSize,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *ImageService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RequestUpload returns a presigned upload URL for a new image of the item
func (s *ImageService) RequestUpload(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_IMAGE_TYPE", "Image must be JPEG, PNG, WebP or GIF")
	}
	if req.Size > s.maxSize {
		return nil, shared.NewDomainError("IMAGE_TOO_LARGE", fmt.Sprintf("Image cannot exceed %d bytes", s.maxSize))
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !actor.Is(item.OwnerID) {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only the owner can change the image")
	}

	key := imageKeyPrefix(itemID) + ulid.Make().String() + ext
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		UploadURL: url,
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": contentType},
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmUpload attaches an uploaded object to the item and removes the
// image it replaces
func (s *ImageService) ConfirmUpload(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req ConfirmImageRequest) (*ItemResponse, error) {
	if !strings.HasPrefix(req.Key, imageKeyPrefix(itemID)) || strings.Contains(req.Key, "..") {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Image key does not belong to this item")
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !actor.Is(item.OwnerID) {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only the owner can change the image")
	}

	exists, err := s.storage.ObjectExists(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("IMAGE_NOT_UPLOADED", "Image has not been uploaded yet")
	}

	previous, err := item.SetImage(actor, s.storage.ImageURL(req.Key), req.Key)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, item); err != nil {
		s.logger.Warn("Failed to publish item events", zap.Error(err))
	}

	if previous != "" && previous != req.Key {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete replaced image", zap.String("key", previous), zap.Error(err))
		}
	}

	resp := ToItemResponse(item)
	return &resp, nil
}

func imageKeyPrefix(itemID uuid.UUID) string {
	return "items/" + itemID.String() + "/"
}

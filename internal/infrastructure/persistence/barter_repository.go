package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/barter"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBarterRepository implements BarterRepository using GORM
type GormBarterRepository struct {
	db *gorm.DB
}

// NewGormBarterRepository creates a new GormBarterRepository
func NewGormBarterRepository(db *gorm.DB) *GormBarterRepository {
	return &GormBarterRepository{db: db}
}

// FindByID finds a barter by ID
func (r *GormBarterRepository) FindByID(ctx context.Context, id uuid.UUID) (*barter.Barter, error) {
	var model models.BarterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists barters matching the filter
func (r *GormBarterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]barter.Barter, error) {
	var barterModels []models.BarterModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BarterModel{}), filter)
	if err := paginate(query, filter, BarterSortFields).Find(&barterModels).Error; err != nil {
		return nil, err
	}
	barters := make([]barter.Barter, len(barterModels))
	for i := range barterModels {
		barters[i] = *barterModels[i].ToDomain()
	}
	return barters, nil
}

// Count counts barters matching the filter
func (r *GormBarterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BarterModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsPending checks for an open request by requesterID on itemID
func (r *GormBarterRepository) ExistsPending(ctx context.Context, itemID, requesterID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BarterModel{}).
		Where("item_id = ? AND requester_id = ? AND status = ?", itemID, requesterID, barter.StatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts a new barter. The partial unique index turns a concurrent
// duplicate pending request into ErrAlreadyExists.
func (r *GormBarterRepository) Save(ctx context.Context, b *barter.Barter) error {
	model := models.BarterModelFromDomain(b)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// SaveWithLock saves with optimistic locking and bumps b.Version on success
func (r *GormBarterRepository) SaveWithLock(ctx context.Context, b *barter.Barter) error {
	model := models.BarterModelFromDomain(b)
	model.Version = b.Version + 1
	result := r.db.WithContext(ctx).
		Model(&models.BarterModel{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	b.Version = model.Version
	return nil
}

func (r *GormBarterRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case barter.FilterOwnerID:
			query = query.Where("owner_id = ?", value)
		case barter.FilterRequesterID:
			query = query.Where("requester_id = ?", value)
		case barter.FilterItemID:
			query = query.Where("item_id = ?", value)
		case barter.FilterStatus:
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure GormBarterRepository implements BarterRepository
var _ barter.BarterRepository = (*GormBarterRepository)(nil)

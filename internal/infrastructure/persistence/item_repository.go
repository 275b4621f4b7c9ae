package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the items with the given ids
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}
	var itemModels []models.ItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(itemModels), nil
}

// FindAll lists items matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var itemModels []models.ItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)
	if err := paginate(query, filter, ItemSortFields).Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(itemModels), nil
}

// Count counts items matching the filter
func (r *GormItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindForStats returns the newest items up to limit
func (r *GormItemRepository) FindForStats(ctx context.Context, limit int) ([]catalog.Item, error) {
	var itemModels []models.ItemModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(itemModels), nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// SaveWithLock saves with optimistic locking and bumps item.Version on success
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	model.Version = item.Version + 1
	result := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version).
		Select("*").
		Omit("id", "created_at", "views").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	item.Version = model.Version
	return nil
}

// IncrementViews bumps the view counter without touching the version
func (r *GormItemRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	return notFoundOnNoRows(result)
}

// Delete removes an item
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ItemModel{}, "id = ?", id)
	return notFoundOnNoRows(result)
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case catalog.FilterOwnerID:
			query = query.Where("owner_id = ?", value)
		case catalog.FilterCategory:
			query = query.Where("category = ?", value)
		case catalog.FilterCondition:
			query = query.Where("condition = ?", value)
		case catalog.FilterStatus:
			query = query.Where("status = ?", value)
		case catalog.FilterApproved:
			query = query.Where("is_approved = ?", value)
		case catalog.FilterFlagged:
			query = query.Where("is_flagged = ?", value)
		case catalog.FilterMinPrice:
			query = query.Where("price >= ?", value)
		case catalog.FilterMaxPrice:
			query = query.Where("price <= ?", value)
		}
	}
	return query
}

func itemsToDomain(itemModels []models.ItemModel) []catalog.Item {
	items := make([]catalog.Item, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items
}

// Ensure GormItemRepository implements ItemRepository
var _ catalog.ItemRepository = (*GormItemRepository)(nil)

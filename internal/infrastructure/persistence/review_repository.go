package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/review"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists reviews matching the filter
func (r *GormReviewRepository) FindAll(ctx context.Context, filter shared.Filter) ([]review.Review, error) {
	var reviewModels []models.ReviewModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReviewModel{}), filter)
	if err := paginate(query, filter, ReviewSortFields).Find(&reviewModels).Error; err != nil {
		return nil, err
	}
	reviews := make([]review.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = *reviewModels[i].ToDomain()
	}
	return reviews, nil
}

// Count counts reviews matching the filter
func (r *GormReviewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReviewModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summarize computes count and average rating in the database
func (r *GormReviewRepository) Summarize(ctx context.Context, itemID uuid.UUID) (*review.Summary, error) {
	var row struct {
		Count   int64
		Average float64
	}
	if err := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Select("COUNT(*) AS count, CAST(COALESCE(AVG(rating), 0) AS FLOAT) AS average").
		Where("item_id = ?", itemID).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &review.Summary{ItemID: itemID, Count: row.Count, Average: row.Average}, nil
}

// Create inserts a review
func (r *GormReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &models.ReviewModel{}
	model.FromDomain(rv)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Delete removes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReviewModel{}, "id = ?", id)
	return notFoundOnNoRows(result)
}

func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case review.FilterItemID:
			query = query.Where("item_id = ?", value)
		case review.FilterReviewerID:
			query = query.Where("reviewer_id = ?", value)
		}
	}
	return query
}

// Ensure GormReviewRepository implements ReviewRepository
var _ review.ReviewRepository = (*GormReviewRepository)(nil)

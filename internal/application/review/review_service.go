package review

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/review"
	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReviewService stores and lists item reviews. One review per reviewer and
// item is guaranteed by the unique index, not by a lookup here.
type ReviewService struct {
	reviewRepo     review.ReviewRepository
	itemRepo       catalog.ItemRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo review.ReviewRepository,
	itemRepo catalog.ItemRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		itemRepo:   itemRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *ReviewService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit records the actor's review of an item
func (s *ReviewService) Submit(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req SubmitReviewRequest) (*ReviewResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.CanBeViewedBy(actor) {
		return nil, shared.ErrNotFound
	}

	r, err := review.NewReview(review.ItemRef{ID: item.ID, OwnerID: item.OwnerID, Title: item.Title}, actor.UserID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Create(ctx, r); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "You have already reviewed this item")
		}
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, r); err != nil {
		s.logger.Warn("Failed to publish review events", zap.String("review_id", r.ID.String()), zap.Error(err))
	}

	s.logger.Info("Review submitted",
		zap.String("review_id", r.ID.String()),
		zap.String("item_id", itemID.String()),
		zap.Int("rating", r.Rating))
	resp := ToReviewResponse(r)
	return &resp, nil
}

// ListByItem returns a page of an item's reviews with its rating summary
func (s *ReviewService) ListByItem(ctx context.Context, itemID uuid.UUID, f ReviewListFilter) (*ItemReviewsResponse, error) {
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize()
	filter.Filters[review.FilterItemID] = itemID

	reviews, err := s.reviewRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.reviewRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviewRepo.Summarize(ctx, itemID)
	if err != nil {
		return nil, err
	}

	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	s.attachReviewers(ctx, responses)

	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &ItemReviewsResponse{
		Summary: SummaryResponse{
			Count:   summary.Count,
			Average: math.Round(summary.Average*10) / 10,
		},
		Reviews:    page.Items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Delete removes a review. Reviewer or admin.
func (s *ReviewService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !r.CanBeDeletedBy(actor) {
		return shared.NewDomainError(shared.CodeForbidden, "Only the reviewer or an admin can delete this review")
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Review deleted", zap.String("review_id", id.String()), zap.String("deleted_by", actor.UserID.String()))
	return nil
}

func (s *ReviewService) attachReviewers(ctx context.Context, reviews []ReviewResponse) {
	if len(reviews) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ReviewerID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to load reviewers", zap.Error(err))
		return
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for i := range reviews {
		reviews[i].ReviewerName = names[reviews[i].ReviewerID]
	}
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ItemService handles listing, editing and moderating items
type ItemService struct {
	itemRepo       catalog.ItemRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	autoApprove    bool
	logger         *zap.Logger
}

// ItemServiceOption configures ItemService
type ItemServiceOption func(*ItemService)

// WithAutoApprove makes new listings visible without moderation
func WithAutoApprove(enabled bool) ItemServiceOption {
	return func(s *ItemService) {
		s.autoApprove = enabled
	}
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo catalog.ItemRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
	opts ...ItemServiceOption,
) *ItemService {
	s := &ItemService{
		itemRepo: itemRepo,
		userRepo: userRepo,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher
func (s *ItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create lists a new item owned by the actor
func (s *ItemService) Create(ctx context.Context, actor shared.Actor, req CreateItemRequest) (*ItemResponse, error) {
	item, err := catalog.NewItem(actor.UserID, catalog.ItemDetails{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   catalog.Condition(req.Condition),
		ImageURL:    req.ImageURL,
	}, s.autoApprove)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, item)

	s.logger.Info("Item listed",
		zap.String("item_id", item.ID.String()),
		zap.String("owner_id", actor.UserID.String()),
		zap.Bool("approved", item.IsApproved))
	return s.respond(ctx, item), nil
}

// Get returns one item. Hidden items (unapproved or flagged) are only
// visible to their owner and admins; others get not found. A view by anyone
// but the owner bumps the view counter.
func (s *ItemService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.CanBeViewedBy(actor) {
		return nil, shared.ErrNotFound
	}

	if !actor.Is(item.OwnerID) {
		if err := s.itemRepo.IncrementViews(ctx, id); err != nil {
			s.logger.Warn("Failed to count item view", zap.String("item_id", id.String()), zap.Error(err))
		} else {
			item.Views++
		}
	}
	return s.respond(ctx, item), nil
}

// List returns the public catalog: approved, unflagged items
func (s *ItemService) List(ctx context.Context, f ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	filter, err := toDomainFilter(f)
	if err != nil {
		return nil, err
	}
	filter.Filters[catalog.FilterApproved] = true
	filter.Filters[catalog.FilterFlagged] = false
	return s.list(ctx, filter)
}

// ListMine returns every listing of the actor, whatever its moderation state
func (s *ItemService) ListMine(ctx context.Context, actor shared.Actor, f ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	filter, err := toDomainFilter(f)
	if err != nil {
		return nil, err
	}
	filter.Filters[catalog.FilterOwnerID] = actor.UserID
	return s.list(ctx, filter)
}

// ListForModeration lists all items with optional approved/flagged filters. Admin only.
func (s *ItemService) ListForModeration(ctx context.Context, actor shared.Actor, f ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	filter, err := toDomainFilter(f)
	if err != nil {
		return nil, err
	}
	if f.Approved != nil {
		filter.Filters[catalog.FilterApproved] = *f.Approved
	}
	if f.Flagged != nil {
		filter.Filters[catalog.FilterFlagged] = *f.Flagged
	}
	return s.list(ctx, filter)
}

func (s *ItemService) list(ctx context.Context, filter shared.Filter) (*shared.Paginated[ItemResponse], error) {
	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := ToItemResponses(items)
	s.attachOwners(ctx, responses)
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update applies the owner's partial edit
func (s *ItemService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	return s.mutate(ctx, id, func(item *catalog.Item) error {
		u := catalog.ItemUpdate{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
		}
		if req.Condition != nil {
			c := catalog.Condition(*req.Condition)
			u.Condition = &c
		}
		return item.Update(actor, u)
	})
}

// ChangeStatus sets the availability of the actor's item
func (s *ItemService) ChangeStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, req ChangeStatusRequest) (*ItemResponse, error) {
	return s.mutate(ctx, id, func(item *catalog.Item) error {
		return item.ChangeStatus(actor, catalog.ItemStatus(req.Status))
	})
}

// Approve publishes a pending listing. Admin only.
func (s *ItemService) Approve(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ItemResponse, error) {
	return s.mutate(ctx, id, func(item *catalog.Item) error {
		return item.Approve(actor)
	})
}

// Flag hides a listing with a reason. Admin only.
func (s *ItemService) Flag(ctx context.Context, actor shared.Actor, id uuid.UUID, req FlagRequest) (*ItemResponse, error) {
	return s.mutate(ctx, id, func(item *catalog.Item) error {
		return item.Flag(actor, req.Reason)
	})
}

// Unflag restores a flagged listing. Admin only.
func (s *ItemService) Unflag(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ItemResponse, error) {
	return s.mutate(ctx, id, func(item *catalog.Item) error {
		return item.Unflag(actor)
	})
}

// Delete removes a listing. Owner or admin.
func (s *ItemService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := item.MarkDeleted(actor); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, item)

	s.logger.Info("Item deleted",
		zap.String("item_id", id.String()),
		zap.String("deleted_by", actor.UserID.String()))
	return nil
}

// mutate loads an item, applies change and saves it under the optimistic lock
func (s *ItemService) mutate(ctx context.Context, id uuid.UUID, change func(*catalog.Item) error) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(item); err != nil {
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, item)
	return s.respond(ctx, item), nil
}

func (s *ItemService) publish(ctx context.Context, item *catalog.Item) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, item); err != nil {
		s.logger.Warn("Failed to publish item events", zap.String("item_id", item.ID.String()), zap.Error(err))
	}
}

func (s *ItemService) respond(ctx context.Context, item *catalog.Item) *ItemResponse {
	resp := []ItemResponse{ToItemResponse(item)}
	s.attachOwners(ctx, resp)
	return &resp[0]
}

// attachOwners fills owner names. A lookup failure leaves names empty.
func (s *ItemService) attachOwners(ctx context.Context, items []ItemResponse) {
	if len(items) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if !seen[it.Owner.ID] {
			seen[it.Owner.ID] = true
			ids = append(ids, it.Owner.ID)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to load item owners", zap.Error(err))
		return
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for i := range items {
		items[i].Owner.Name = names[items[i].Owner.ID]
	}
}

func toDomainFilter(f ItemListFilter) (shared.Filter, error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	}.Normalize()

	if f.Category != "" {
		filter.Filters[catalog.FilterCategory] = f.Category
	}
	if f.Condition != "" {
		filter.Filters[catalog.FilterCondition] = f.Condition
	}
	if f.Status != "" {
		filter.Filters[catalog.FilterStatus] = f.Status
	}
	if f.MinPrice != "" {
		d, err := decimal.NewFromString(f.MinPrice)
		if err != nil {
			return filter, shared.NewDomainError(shared.CodeInvalidInput, "min_price must be a number")
		}
		filter.Filters[catalog.FilterMinPrice] = d
	}
	if f.MaxPrice != "" {
		d, err := decimal.NewFromString(f.MaxPrice)
		if err != nil {
			return filter, shared.NewDomainError(shared.CodeInvalidInput, "max_price must be a number")
		}
		filter.Filters[catalog.FilterMaxPrice] = d
	}
	return filter, nil
}

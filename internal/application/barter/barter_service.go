package barter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/barter"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errDuplicatePending = shared.NewDomainError(shared.CodeAlreadyExists, "You already have a pending barter request for this item")

// BarterService runs the barter workflow between a requester and an item owner
type BarterService struct {
	barterRepo     barter.BarterRepository
	itemRepo       catalog.ItemRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBarterService creates a new BarterService
func NewBarterService(
	barterRepo barter.BarterRepository,
	itemRepo catalog.ItemRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *BarterService {
	return &BarterService{
		barterRepo: barterRepo,
		itemRepo:   itemRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *BarterService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create proposes a barter for an item on behalf of the actor
func (s *BarterService) Create(ctx context.Context, actor shared.Actor, req CreateBarterRequest) (*BarterResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.CanBeViewedBy(actor) {
		return nil, shared.ErrNotFound
	}

	if req.OfferedItemID != nil {
		offered, err := s.itemRepo.FindByID(ctx, *req.OfferedItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeInvalidInput, "Offered item does not exist")
			}
			return nil, err
		}
		if !offered.IsOwnedBy(actor.UserID) {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "You can only offer your own items")
		}
	}

	b, err := barter.NewBarter(barter.ItemRef{
		ID:        item.ID,
		OwnerID:   item.OwnerID,
		Title:     item.Title,
		Available: item.IsTradable(),
	}, actor.UserID, req.Message, req.OfferedItemID)
	if err != nil {
		return nil, err
	}

	exists, err := s.barterRepo.ExistsPending(ctx, item.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errDuplicatePending
	}

	if err := s.barterRepo.Save(ctx, b); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errDuplicatePending
		}
		return nil, err
	}
	s.publish(ctx, b)

	s.logger.Info("Barter requested",
		zap.String("barter_id", b.ID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("requester_id", actor.UserID.String()))
	return s.respond(ctx, b), nil
}

// Get returns a barter to one of its participants or an admin
func (s *BarterService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BarterResponse, error) {
	b, err := s.barterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.CanBeViewedBy(actor) {
		return nil, shared.ErrNotFound
	}
	return s.respond(ctx, b), nil
}

// UpdateStatus accepts, rejects or withdraws a pending barter
func (s *BarterService) UpdateStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateBarterStatusRequest) (*BarterResponse, error) {
	b, err := s.barterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.CanBeViewedBy(actor) {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only barter participants can change its status")
	}
	if err := b.UpdateStatus(actor, barter.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.barterRepo.SaveWithLock(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, b)

	s.logger.Info("Barter status changed",
		zap.String("barter_id", b.ID.String()),
		zap.String("status", string(b.Status)),
		zap.Bool("withdrawn", b.Withdrawn),
		zap.String("changed_by", actor.UserID.String()))
	return s.respond(ctx, b), nil
}

// ListIncoming lists barters proposed on the actor's items
func (s *BarterService) ListIncoming(ctx context.Context, actor shared.Actor, f BarterListFilter) (*shared.Paginated[BarterResponse], error) {
	filter := toDomainFilter(f)
	filter.Filters[barter.FilterOwnerID] = actor.UserID
	return s.list(ctx, filter)
}

// ListOutgoing lists barters the actor proposed
func (s *BarterService) ListOutgoing(ctx context.Context, actor shared.Actor, f BarterListFilter) (*shared.Paginated[BarterResponse], error) {
	filter := toDomainFilter(f)
	filter.Filters[barter.FilterRequesterID] = actor.UserID
	return s.list(ctx, filter)
}

// ListAll lists every barter. Admin only.
func (s *BarterService) ListAll(ctx context.Context, actor shared.Actor, f BarterListFilter) (*shared.Paginated[BarterResponse], error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	return s.list(ctx, toDomainFilter(f))
}

func (s *BarterService) list(ctx context.Context, filter shared.Filter) (*shared.Paginated[BarterResponse], error) {
	barters, err := s.barterRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.barterRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]BarterResponse, len(barters))
	for i := range barters {
		responses[i] = ToBarterResponse(&barters[i])
	}
	s.attachNames(ctx, responses)
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *BarterService) publish(ctx context.Context, b *barter.Barter) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, b); err != nil {
		s.logger.Warn("Failed to publish barter events", zap.String("barter_id", b.ID.String()), zap.Error(err))
	}
}

func (s *BarterService) respond(ctx context.Context, b *barter.Barter) *BarterResponse {
	resp := []BarterResponse{ToBarterResponse(b)}
	s.attachNames(ctx, resp)
	return &resp[0]
}

func (s *BarterService) attachNames(ctx context.Context, barters []BarterResponse) {
	if len(barters) == 0 {
		return
	}
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, b := range barters {
		for _, id := range []uuid.UUID{b.Requester.ID, b.Owner.ID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to load barter participants", zap.Error(err))
		return
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for i := range barters {
		barters[i].Requester.Name = names[barters[i].Requester.ID]
		barters[i].Owner.Name = names[barters[i].Owner.ID]
	}
}

func toDomainFilter(f BarterListFilter) shared.Filter {
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize()
	if f.Status != "" {
		filter.Filters[barter.FilterStatus] = f.Status
	}
	if f.ItemID != nil {
		filter.Filters[barter.FilterItemID] = *f.ItemID
	}
	return filter
}

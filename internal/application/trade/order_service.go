package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderService places orders and drives them through the seller decision,
// shipment and delivery
type OrderService struct {
	orderRepo      trade.OrderRepository
	itemRepo       catalog.ItemRepository
	userRepo       identity.UserRepository
	renderer       ReceiptRenderer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// OrderServiceOption configures OrderService
type OrderServiceOption func(*OrderService)

// WithReceiptRenderer enables order receipts
func WithReceiptRenderer(r ReceiptRenderer) OrderServiceOption {
	return func(s *OrderService) {
		s.renderer = r
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	itemRepo catalog.ItemRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
	opts ...OrderServiceOption,
) *OrderService {
	s := &OrderService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places an order for the actor's cart. With an idempotency key a
// retried request returns the order created by the first attempt; created
// reports whether this call inserted it.
func (s *OrderService) Create(ctx context.Context, actor shared.Actor, req CreateOrderRequest) (*OrderResponse, bool, error) {
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if req.IdempotencyKey != "" {
		existing, err := s.orderRepo.FindByIdempotencyKey(ctx, actor.UserID, req.IdempotencyKey)
		if err == nil {
			r := ToOrderResponse(existing)
			return &r, false, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, false, err
		}
	}

	cart, err := s.resolveCart(ctx, req.Items)
	if err != nil {
		return nil, false, err
	}

	a := req.ShippingAddress
	order, err := trade.NewOrder(actor.UserID, cart, trade.ShippingAddress{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Address:    a.Address,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}, trade.PaymentMethod(req.PaymentMethod), req.IdempotencyKey)
	if err != nil {
		return nil, false, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// a concurrent request with the same key won the insert
		if errors.Is(err, shared.ErrAlreadyExists) && order.IdempotencyKey != "" {
			existing, findErr := s.orderRepo.FindByIdempotencyKey(ctx, actor.UserID, order.IdempotencyKey)
			if findErr == nil {
				r := ToOrderResponse(existing)
				return &r, false, nil
			}
		}
		return nil, false, err
	}
	s.publish(ctx, order)

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("buyer_id", actor.UserID.String()),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	r := ToOrderResponse(order)
	return &r, true, nil
}

// resolveCart loads the cart items and snapshots their current catalog state
func (s *OrderService) resolveCart(ctx context.Context, items []CartItemRequest) ([]trade.CartLine, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Order must contain at least one item")
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ItemID)
	}
	found, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Item, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	cart := make([]trade.CartLine, 0, len(items))
	for _, it := range items {
		item, ok := byID[it.ItemID]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Item %s not found", it.ItemID))
		}
		cart = append(cart, trade.CartLine{
			ItemID:   item.ID,
			OwnerID:  item.OwnerID,
			Title:    item.Title,
			ImageURL: item.ImageURL,
			Price:    item.Price,
			Tradable: item.IsTradable(),
			Quantity: it.Quantity,
		})
	}
	return cart, nil
}

// Get returns an order to its buyer, one of its sellers or an admin
func (s *OrderService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	r := ToOrderResponse(order)
	return &r, nil
}

// ListMine lists the actor's purchases
func (s *OrderService) ListMine(ctx context.Context, actor shared.Actor, f OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	filter := toDomainFilter(f)
	filter.Filters[trade.FilterBuyerID] = actor.UserID
	return s.list(ctx, filter)
}

// ListSelling lists orders containing the actor's items
func (s *OrderService) ListSelling(ctx context.Context, actor shared.Actor, f OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	filter := toDomainFilter(f)
	filter.Filters[trade.FilterSellerID] = actor.UserID
	return s.list(ctx, filter)
}

// ListAll lists every order. Admin only.
func (s *OrderService) ListAll(ctx context.Context, actor shared.Actor, f OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	return s.list(ctx, toDomainFilter(f))
}

func (s *OrderService) list(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Accept is the seller accepting an order awaiting decision
func (s *OrderService) Accept(ctx context.Context, actor shared.Actor, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actor, id, func(o *trade.Order) error {
		return o.AcceptBySeller(actor)
	})
}

// Reject is the seller declining an order with a reason
func (s *OrderService) Reject(ctx context.Context, actor shared.Actor, id uuid.UUID, req RejectOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, actor, id, func(o *trade.Order) error {
		return o.RejectBySeller(actor, req.Reason)
	})
}

// Cancel is the buyer (or an admin) withdrawing an order before shipment
func (s *OrderService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, actor, id, func(o *trade.Order) error {
		return o.Cancel(actor, req.Reason)
	})
}

// Ship marks a processing order as shipped
func (s *OrderService) Ship(ctx context.Context, actor shared.Actor, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actor, id, func(o *trade.Order) error {
		return o.Ship(actor)
	})
}

// Deliver completes a shipped order
func (s *OrderService) Deliver(ctx context.Context, actor shared.Actor, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actor, id, func(o *trade.Order) error {
		return o.Deliver(actor)
	})
}

func (s *OrderService) transition(ctx context.Context, actor shared.Actor, id uuid.UUID, apply func(*trade.Order) error) (*OrderResponse, error) {
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	from := order.State
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	s.logger.Info("Order state changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.State)),
		zap.String("actor_id", actor.UserID.String()))
	r := ToOrderResponse(order)
	return &r, nil
}

// load fetches an order the actor may see. Others get not found.
func (s *OrderService) load(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanBeViewedBy(actor) {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, order); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func toDomainFilter(f OrderListFilter) shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
	}.Normalize()
	if f.State != "" {
		filter.Filters[trade.FilterState] = f.State
	}
	return filter
}

package trade

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// OrderState is the single lifecycle state of an order. It folds the seller
// decision and the shipment progress into one value so that combinations such
// as "shipped but never accepted" cannot be represented.
type OrderState string

const (
	OrderStateAwaitingSeller OrderState = "AwaitingSeller"
	OrderStateRejected       OrderState = "Rejected"
	OrderStateProcessing     OrderState = "Processing"
	OrderStateShipped        OrderState = "Shipped"
	OrderStateDelivered      OrderState = "Delivered"
	OrderStateCancelled      OrderState = "Cancelled"
)

// IsValid checks if the state is a known value
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateAwaitingSeller, OrderStateRejected, OrderStateProcessing,
		OrderStateShipped, OrderStateDelivered, OrderStateCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the order can no longer change
func (s OrderState) IsTerminal() bool {
	return s == OrderStateRejected || s == OrderStateDelivered || s == OrderStateCancelled
}

// CanTransitionTo is the order transition table
func (s OrderState) CanTransitionTo(target OrderState) bool {
	switch s {
	case OrderStateAwaitingSeller:
		return target == OrderStateProcessing || target == OrderStateRejected || target == OrderStateCancelled
	case OrderStateProcessing:
		return target == OrderStateShipped || target == OrderStateCancelled
	case OrderStateShipped:
		return target == OrderStateDelivered
	default:
		return false
	}
}

func (s OrderState) String() string {
	return string(s)
}

// LegacyStatus is the shipment status of the two-field order representation
type LegacyStatus string

const (
	LegacyStatusPending    LegacyStatus = "Pending"
	LegacyStatusProcessing LegacyStatus = "Processing"
	LegacyStatusShipped    LegacyStatus = "Shipped"
	LegacyStatusDelivered  LegacyStatus = "Delivered"
	LegacyStatusCancelled  LegacyStatus = "Cancelled"
)

// SellerAction is the seller decision of the two-field order representation
type SellerAction string

const (
	SellerActionPending  SellerAction = "pending"
	SellerActionAccepted SellerAction = "accepted"
	SellerActionRejected SellerAction = "rejected"
)

// PaymentMethod is how the buyer pays
type PaymentMethod string

const PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"

// IsValid checks if the payment method is supported
func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodCashOnDelivery
}

const (
	maxLineQuantity   = 99
	maxReasonLength   = 500
	maxIdempotencyKey = 128
)

// ItemSnapshot freezes the display fields of an item at order time
type ItemSnapshot struct {
	Title    string
	ImageURL string
	Price    decimal.Decimal
	OwnerID  uuid.UUID
}

// OrderLine is one item of an order
type OrderLine struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	ItemID   uuid.UUID
	Snapshot ItemSnapshot
	Quantity int
	Price    decimal.Decimal
	Amount   decimal.Decimal
}

// ShippingAddress is where the order is delivered
type ShippingAddress struct {
	FullName   string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// Validate checks the required address fields
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.FullName) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Recipient name is required")
	}
	if strings.TrimSpace(a.Address) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street address is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City is required")
	}
	return nil
}

// CartLine is an item the buyer wants to order, resolved against the catalog
type CartLine struct {
	ItemID   uuid.UUID
	OwnerID  uuid.UUID
	Title    string
	ImageURL string
	Price    decimal.Decimal
	Tradable bool
	Quantity int
}

// Order is a buyer's purchase of one or more items
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	BuyerID         uuid.UUID
	Lines           []OrderLine
	TotalAmount     decimal.Decimal
	State           OrderState
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	IdempotencyKey  string
	RejectionReason string
	CancelReason    string
	DecidedBy       *uuid.UUID
	CancelledBy     *uuid.UUID
	AcceptedAt      *time.Time
	RejectedAt      *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// NewOrderNumber returns a sortable human-readable order number
func NewOrderNumber() string {
	return "SR-" + ulid.Make().String()
}

// NewOrder places an order for buyerID. Each line snapshots the item so later
// edits or deletion of the listing do not change the order.
func NewOrder(
	buyerID uuid.UUID,
	cart []CartLine,
	address ShippingAddress,
	payment PaymentMethod,
	idempotencyKey string,
) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Buyer is required")
	}
	if len(cart) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Order must contain at least one item")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if payment == "" {
		payment = PaymentMethodCashOnDelivery
	}
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Only cash on delivery is supported")
	}
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if len(idempotencyKey) > maxIdempotencyKey {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Idempotency key is too long")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       NewOrderNumber(),
		BuyerID:           buyerID,
		State:             OrderStateAwaitingSeller,
		ShippingAddress:   address,
		PaymentMethod:     payment,
		IdempotencyKey:    idempotencyKey,
		TotalAmount:       decimal.Zero,
	}

	// duplicates of the same item merge into one line
	index := make(map[uuid.UUID]int, len(cart))
	for _, c := range cart {
		if err := validateCartLine(buyerID, c); err != nil {
			return nil, err
		}
		if i, ok := index[c.ItemID]; ok {
			order.Lines[i].Quantity += c.Quantity
			if order.Lines[i].Quantity > maxLineQuantity {
				return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity cannot exceed %d", maxLineQuantity))
			}
			continue
		}
		index[c.ItemID] = len(order.Lines)
		order.Lines = append(order.Lines, OrderLine{
			ID:      uuid.New(),
			OrderID: order.ID,
			ItemID:  c.ItemID,
			Snapshot: ItemSnapshot{
				Title:    c.Title,
				ImageURL: c.ImageURL,
				Price:    c.Price,
				OwnerID:  c.OwnerID,
			},
			Quantity: c.Quantity,
			Price:    c.Price,
		})
	}
	order.recalculate()

	order.AddDomainEvent(NewOrderPlacedEvent(order))
	return order, nil
}

func validateCartLine(buyerID uuid.UUID, c CartLine) error {
	if c.ItemID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Item is required")
	}
	if c.OwnerID == buyerID {
		return shared.NewDomainError("CANNOT_BUY_OWN_ITEM", fmt.Sprintf("You cannot order your own item %q", c.Title))
	}
	if !c.Tradable {
		return shared.NewDomainError("ITEM_NOT_AVAILABLE", fmt.Sprintf("Item %q is not available", c.Title))
	}
	if c.Quantity < 1 || c.Quantity > maxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity must be between 1 and %d", maxLineQuantity))
	}
	if c.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

func (o *Order) recalculate() {
	total := decimal.Zero
	for i := range o.Lines {
		o.Lines[i].Amount = o.Lines[i].Price.Mul(decimal.NewFromInt(int64(o.Lines[i].Quantity)))
		total = total.Add(o.Lines[i].Amount)
	}
	o.TotalAmount = total
}

// SellerIDs returns the distinct owners of the ordered items
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(o.Lines))
	ids := make([]uuid.UUID, 0, len(o.Lines))
	for _, l := range o.Lines {
		if !seen[l.Snapshot.OwnerID] {
			seen[l.Snapshot.OwnerID] = true
			ids = append(ids, l.Snapshot.OwnerID)
		}
	}
	return ids
}

// HasSeller reports whether userID owns at least one ordered item
func (o *Order) HasSeller(userID uuid.UUID) bool {
	for _, l := range o.Lines {
		if l.Snapshot.OwnerID == userID {
			return true
		}
	}
	return false
}

// ItemCount is the total quantity across lines
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// CanBeViewedBy reports whether actor may read the order
func (o *Order) CanBeViewedBy(actor shared.Actor) bool {
	return actor.IsAdmin() || actor.Is(o.BuyerID) || o.HasSeller(actor.UserID)
}

// AcceptBySeller moves the order into processing. Only a seller of the order may decide.
func (o *Order) AcceptBySeller(actor shared.Actor) error {
	if !o.HasSeller(actor.UserID) {
		return shared.NewDomainError(shared.CodeForbidden, "Only a seller of this order can accept it")
	}
	if err := o.ensureTransition(OrderStateProcessing, "accept"); err != nil {
		return err
	}

	now := time.Now()
	id := actor.UserID
	o.DecidedBy = &id
	o.AcceptedAt = &now
	o.transition(OrderStateProcessing, actor.UserID, "")
	return nil
}

// RejectBySeller declines the order with a mandatory reason
func (o *Order) RejectBySeller(actor shared.Actor, reason string) error {
	if !o.HasSeller(actor.UserID) {
		return shared.NewDomainError(shared.CodeForbidden, "Only a seller of this order can reject it")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "A reason is required to reject an order")
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Reason cannot exceed %d characters", maxReasonLength))
	}
	if err := o.ensureTransition(OrderStateRejected, "reject"); err != nil {
		return err
	}

	now := time.Now()
	id := actor.UserID
	o.DecidedBy = &id
	o.RejectedAt = &now
	o.RejectionReason = reason
	o.transition(OrderStateRejected, actor.UserID, reason)
	return nil
}

// Cancel is allowed to the buyer (or an admin) before shipment
func (o *Order) Cancel(actor shared.Actor, reason string) error {
	if !actor.Is(o.BuyerID) && !actor.IsAdmin() {
		return shared.NewDomainError(shared.CodeForbidden, "Only the buyer can cancel this order")
	}
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Reason cannot exceed %d characters", maxReasonLength))
	}
	if err := o.ensureTransition(OrderStateCancelled, "cancel"); err != nil {
		return err
	}

	now := time.Now()
	id := actor.UserID
	o.CancelledAt = &now
	o.CancelledBy = &id
	o.CancelReason = reason
	o.transition(OrderStateCancelled, actor.UserID, reason)
	return nil
}

// Ship marks an accepted order as shipped. Sellers of the order or an admin.
func (o *Order) Ship(actor shared.Actor) error {
	if !o.HasSeller(actor.UserID) && !actor.IsAdmin() {
		return shared.NewDomainError(shared.CodeForbidden, "Only a seller of this order can ship it")
	}
	if err := o.ensureTransition(OrderStateShipped, "ship"); err != nil {
		return err
	}

	now := time.Now()
	o.ShippedAt = &now
	o.transition(OrderStateShipped, actor.UserID, "")
	return nil
}

// Deliver completes a shipped order. The buyer confirming receipt, a seller or an admin.
func (o *Order) Deliver(actor shared.Actor) error {
	if !o.CanBeViewedBy(actor) {
		return shared.NewDomainError(shared.CodeForbidden, "Not allowed to complete this order")
	}
	if err := o.ensureTransition(OrderStateDelivered, "deliver"); err != nil {
		return err
	}

	now := time.Now()
	o.DeliveredAt = &now
	o.transition(OrderStateDelivered, actor.UserID, "")
	return nil
}

func (o *Order) ensureTransition(target OrderState, verb string) error {
	if !o.State.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot %s order in %s state", verb, o.State))
	}
	return nil
}

func (o *Order) transition(target OrderState, by uuid.UUID, reason string) {
	old := o.State
	o.State = target
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, by, reason))
}

// Status is the derived shipment status of the two-field representation
func (o *Order) Status() LegacyStatus {
	switch o.State {
	case OrderStateAwaitingSeller:
		return LegacyStatusPending
	case OrderStateProcessing:
		return LegacyStatusProcessing
	case OrderStateShipped:
		return LegacyStatusShipped
	case OrderStateDelivered:
		return LegacyStatusDelivered
	default:
		return LegacyStatusCancelled
	}
}

// SellerAction is the derived seller decision of the two-field representation
func (o *Order) SellerAction() SellerAction {
	switch {
	case o.State == OrderStateRejected:
		return SellerActionRejected
	case o.AcceptedAt != nil:
		return SellerActionAccepted
	default:
		return SellerActionPending
	}
}

package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// ItemStatus is the availability of a listed item
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "Available"
	ItemStatusReserved  ItemStatus = "Reserved"
	ItemStatusSold      ItemStatus = "Sold"
)

// IsValid checks if the status is a known value
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusReserved, ItemStatusSold:
		return true
	}
	return false
}

func (s ItemStatus) String() string {
	return string(s)
}

// Condition describes the physical state of a study material
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// IsValid checks if the condition is a known value
func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Item is a listed study material owned by one user
type Item struct {
	shared.BaseAggregateRoot
	OwnerID     uuid.UUID
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Condition   Condition
	ImageURL    string
	ImageKey    string
	Status      ItemStatus
	IsApproved  bool
	IsFlagged   bool
	FlagReason  string
	Views       int64
	ApprovedAt  *time.Time
	FlaggedAt   *time.Time
}

// ItemDetails are the owner-editable fields of a new listing
type ItemDetails struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Condition   Condition
	ImageURL    string
}

// ItemUpdate is a partial update; nil fields are left untouched
type ItemUpdate struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Condition   *Condition
	ImageURL    *string
}

// NewItem lists a new item for ownerID. autoApprove skips moderation.
func NewItem(ownerID uuid.UUID, d ItemDetails, autoApprove bool) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner is required")
	}
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	if err := validateTitle(d.Title); err != nil {
		return nil, err
	}
	if err := validatePrice(d.Price); err != nil {
		return nil, err
	}
	if err := validateCategory(d.Category); err != nil {
		return nil, err
	}
	if !d.Condition.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONDITION", "Condition must be one of new, like_new, good, fair, poor")
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Title:             d.Title,
		Description:       strings.TrimSpace(d.Description),
		Price:             d.Price,
		Category:          d.Category,
		Condition:         d.Condition,
		ImageURL:          d.ImageURL,
		Status:            ItemStatusAvailable,
	}
	if autoApprove {
		now := time.Now()
		item.IsApproved = true
		item.ApprovedAt = &now
	}

	item.AddDomainEvent(NewItemListedEvent(item))
	return item, nil
}

// Update applies a partial update. Only the owner may edit a listing.
func (i *Item) Update(actor shared.Actor, u ItemUpdate) error {
	if !actor.Is(i.OwnerID) {
		return shared.NewDomainError(shared.CodeForbidden, "Only the owner can edit this item")
	}

	// validate all fields first; a failed update leaves the item untouched
	title, category := i.Title, i.Category
	if u.Title != nil {
		title = strings.TrimSpace(*u.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
	}
	if u.Category != nil {
		category = strings.TrimSpace(*u.Category)
		if err := validateCategory(category); err != nil {
			return err
		}
	}
	if u.Price != nil {
		if err := validatePrice(*u.Price); err != nil {
			return err
		}
	}
	if u.Condition != nil && !u.Condition.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION", "Condition must be one of new, like_new, good, fair, poor")
	}

	i.Title = title
	i.Category = category
	if u.Description != nil {
		i.Description = strings.TrimSpace(*u.Description)
	}
	if u.Price != nil {
		i.Price = *u.Price
	}
	if u.Condition != nil {
		i.Condition = *u.Condition
	}
	if u.ImageURL != nil {
		i.ImageURL = *u.ImageURL
	}

	i.Touch()
	i.AddDomainEvent(NewItemUpdatedEvent(i))
	return nil
}

// SetImage attaches an uploaded image. Replacing returns the previous key so
// the caller can remove the old object.
func (i *Item) SetImage(actor shared.Actor, url, key string) (string, error) {
	if !actor.Is(i.OwnerID) {
		return "", shared.NewDomainError(shared.CodeForbidden, "Only the owner can change the image")
	}
	if url == "" || key == "" {
		return "", shared.NewDomainError("INVALID_IMAGE", "Image URL and key are required")
	}
	previous := i.ImageKey
	i.ImageURL = url
	i.ImageKey = key
	i.Touch()
	return previous, nil
}

// ChangeStatus lets the owner mark the item reserved, sold or available again
func (i *Item) ChangeStatus(actor shared.Actor, status ItemStatus) error {
	if !actor.Is(i.OwnerID) {
		return shared.NewDomainError(shared.CodeForbidden, "Only the owner can change the item status")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status must be Available, Reserved or Sold")
	}
	if i.Status == status {
		return nil
	}

	old := i.Status
	i.Status = status
	i.Touch()
	i.AddDomainEvent(NewItemStatusChangedEvent(i, old))
	return nil
}

// Approve publishes the listing. Admin only.
func (i *Item) Approve(actor shared.Actor) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError(shared.CodeForbidden, "Only an admin can approve items")
	}
	if i.IsApproved {
		return shared.NewDomainError(shared.CodeInvalidState, "Item is already approved")
	}
	now := time.Now()
	i.IsApproved = true
	i.ApprovedAt = &now
	i.Touch()
	i.AddDomainEvent(NewItemModeratedEvent(i, ModerationApproved, ""))
	return nil
}

// Flag hides the listing from the public catalog. Admin only.
func (i *Item) Flag(actor shared.Actor, reason string) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError(shared.CodeForbidden, "Only an admin can flag items")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "A reason is required to flag an item")
	}
	if i.IsFlagged {
		return shared.NewDomainError(shared.CodeInvalidState, "Item is already flagged")
	}
	now := time.Now()
	i.IsFlagged = true
	i.FlagReason = reason
	i.FlaggedAt = &now
	i.Touch()
	i.AddDomainEvent(NewItemModeratedEvent(i, ModerationFlagged, reason))
	return nil
}

// Unflag clears a flag. Admin only.
func (i *Item) Unflag(actor shared.Actor) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError(shared.CodeForbidden, "Only an admin can unflag items")
	}
	if !i.IsFlagged {
		return shared.NewDomainError(shared.CodeInvalidState, "Item is not flagged")
	}
	i.IsFlagged = false
	i.FlagReason = ""
	i.FlaggedAt = nil
	i.Touch()
	i.AddDomainEvent(NewItemModeratedEvent(i, ModerationUnflagged, ""))
	return nil
}

// MarkDeleted checks delete permission (owner or admin) and records the event
func (i *Item) MarkDeleted(actor shared.Actor) error {
	if !actor.Is(i.OwnerID) && !actor.IsAdmin() {
		return shared.NewDomainError(shared.CodeForbidden, "Only the owner or an admin can delete this item")
	}
	i.AddDomainEvent(NewItemDeletedEvent(i, actor.UserID))
	return nil
}

// IsOwnedBy reports whether userID owns the item
func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.OwnerID == userID
}

// IsVisible reports whether the item shows in the public catalog
func (i *Item) IsVisible() bool {
	return i.IsApproved && !i.IsFlagged
}

// IsTradable reports whether the item can be bartered or ordered
func (i *Item) IsTradable() bool {
	return i.IsVisible() && i.Status == ItemStatusAvailable
}

// CanBeViewedBy reports whether actor may see the item at all
func (i *Item) CanBeViewedBy(actor shared.Actor) bool {
	return i.IsVisible() || actor.Is(i.OwnerID) || actor.IsAdmin()
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if utf8.RuneCountInString(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

func validateCategory(category string) error {
	if category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if utf8.RuneCountInString(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}
	return nil
}

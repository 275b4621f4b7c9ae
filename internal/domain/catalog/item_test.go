package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/shared"
)

func newTestItem(t *testing.T, ownerID uuid.UUID) *Item {
	t.Helper()
	item, err := NewItem(ownerID, ItemDetails{
		Title:       "Linear Algebra, 4th ed.",
		Description: "Some pencil notes",
		Price:       decimal.NewFromInt(150),
		Category:    "Mathematics",
		Condition:   ConditionGood,
		ImageURL:    "https://img.example.com/la.jpg",
	}, true)
	require.NoError(t, err)
	return item
}

func TestNewItem(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates available item", func(t *testing.T) {
		item := newTestItem(t, ownerID)

		assert.Equal(t, ownerID, item.OwnerID)
		assert.Equal(t, ItemStatusAvailable, item.Status)
		assert.True(t, item.IsApproved)
		assert.NotNil(t, item.ApprovedAt)
		assert.False(t, item.IsFlagged)
		assert.True(t, item.IsTradable())

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeItemListed, events[0].EventType())
	})

	t.Run("awaits moderation without auto approve", func(t *testing.T) {
		item, err := NewItem(ownerID, ItemDetails{
			Title: "Notes", Price: decimal.Zero, Category: "Physics", Condition: ConditionFair,
		}, false)
		require.NoError(t, err)
		assert.False(t, item.IsApproved)
		assert.False(t, item.IsTradable())
	})

	tests := []struct {
		name    string
		details ItemDetails
		message string
	}{
		{"empty title", ItemDetails{Title: " ", Price: decimal.NewFromInt(1), Category: "Math", Condition: ConditionNew}, "Title cannot be empty"},
		{"negative price", ItemDetails{Title: "Book", Price: decimal.NewFromInt(-1), Category: "Math", Condition: ConditionNew}, "Price cannot be negative"},
		{"empty category", ItemDetails{Title: "Book", Price: decimal.NewFromInt(1), Condition: ConditionNew}, "Category cannot be empty"},
		{"bad condition", ItemDetails{Title: "Book", Price: decimal.NewFromInt(1), Category: "Math", Condition: "shiny"}, "Condition must be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(ownerID, tt.details, true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestItem_Update(t *testing.T) {
	ownerID := uuid.New()
	owner := shared.NewActor(ownerID, shared.RoleUser)

	t.Run("partial update preserves untouched fields", func(t *testing.T) {
		item := newTestItem(t, ownerID)
		newPrice := decimal.NewFromInt(120)
		newTitle := "Linear Algebra, 5th ed."

		require.NoError(t, item.Update(owner, ItemUpdate{Title: &newTitle, Price: &newPrice}))

		assert.Equal(t, newTitle, item.Title)
		assert.True(t, newPrice.Equal(item.Price))
		assert.Equal(t, "Some pencil notes", item.Description)
		assert.Equal(t, "Mathematics", item.Category)
		assert.Equal(t, ConditionGood, item.Condition)
		assert.Equal(t, "https://img.example.com/la.jpg", item.ImageURL)
	})

	t.Run("failed validation leaves item unchanged", func(t *testing.T) {
		item := newTestItem(t, ownerID)
		title := "Changed"
		bad := decimal.NewFromInt(-5)

		err := item.Update(owner, ItemUpdate{Title: &title, Price: &bad})
		require.Error(t, err)
		assert.Equal(t, "Linear Algebra, 4th ed.", item.Title)
	})

	t.Run("only owner may edit", func(t *testing.T) {
		item := newTestItem(t, ownerID)
		title := "Hijacked"

		err := item.Update(shared.NewActor(uuid.New(), shared.RoleUser), ItemUpdate{Title: &title})
		assert.ErrorIs(t, err, shared.ErrForbidden)

		err = item.Update(shared.NewActor(uuid.New(), shared.RoleAdmin), ItemUpdate{Title: &title})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestItem_ChangeStatus(t *testing.T) {
	ownerID := uuid.New()
	item := newTestItem(t, ownerID)
	item.ClearDomainEvents()

	require.NoError(t, item.ChangeStatus(shared.NewActor(ownerID, shared.RoleUser), ItemStatusSold))
	assert.Equal(t, ItemStatusSold, item.Status)
	assert.False(t, item.IsTradable())
	require.Len(t, item.GetDomainEvents(), 1)

	err := item.ChangeStatus(shared.NewActor(ownerID, shared.RoleUser), "Lost")
	assert.Error(t, err)

	err = item.ChangeStatus(shared.NewActor(uuid.New(), shared.RoleUser), ItemStatusAvailable)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestItem_Moderation(t *testing.T) {
	ownerID := uuid.New()
	admin := shared.NewActor(uuid.New(), shared.RoleAdmin)
	user := shared.NewActor(ownerID, shared.RoleUser)

	item, err := NewItem(ownerID, ItemDetails{
		Title: "Chemistry lab manual", Price: decimal.NewFromInt(80), Category: "Chemistry", Condition: ConditionLikeNew,
	}, false)
	require.NoError(t, err)

	assert.ErrorIs(t, item.Approve(user), shared.ErrForbidden)
	require.NoError(t, item.Approve(admin))
	assert.True(t, item.IsVisible())
	assert.ErrorIs(t, item.Approve(admin), shared.ErrInvalidState)

	assert.Error(t, item.Flag(admin, "  "))
	require.NoError(t, item.Flag(admin, "spam listing"))
	assert.True(t, item.IsFlagged)
	assert.Equal(t, "spam listing", item.FlagReason)
	assert.False(t, item.IsVisible())
	assert.True(t, item.CanBeViewedBy(user))
	assert.False(t, item.CanBeViewedBy(shared.NewActor(uuid.New(), shared.RoleUser)))

	require.NoError(t, item.Unflag(admin))
	assert.False(t, item.IsFlagged)
	assert.Empty(t, item.FlagReason)
	assert.ErrorIs(t, item.Unflag(admin), shared.ErrInvalidState)
}

func TestItem_MarkDeleted(t *testing.T) {
	ownerID := uuid.New()
	item := newTestItem(t, ownerID)

	assert.ErrorIs(t, item.MarkDeleted(shared.NewActor(uuid.New(), shared.RoleUser)), shared.ErrForbidden)
	assert.NoError(t, item.MarkDeleted(shared.NewActor(ownerID, shared.RoleUser)))
	assert.NoError(t, item.MarkDeleted(shared.NewActor(uuid.New(), shared.RoleAdmin)))
}

func TestItem_SetImage(t *testing.T) {
	ownerID := uuid.New()
	item := newTestItem(t, ownerID)
	owner := shared.NewActor(ownerID, shared.RoleUser)

	prev, err := item.SetImage(owner, "https://cdn/a.jpg", "items/a.jpg")
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = item.SetImage(owner, "https://cdn/b.jpg", "items/b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "items/a.jpg", prev)
	assert.Equal(t, "items/b.jpg", item.ImageKey)
}

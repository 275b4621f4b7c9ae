package review

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/shared"
)

func TestNewReview(t *testing.T) {
	owner, reviewer := uuid.New(), uuid.New()
	item := ItemRef{ID: uuid.New(), OwnerID: owner, Title: "Organic Chemistry"}

	t.Run("valid review trims comment and emits event", func(t *testing.T) {
		r, err := NewReview(item, reviewer, 4, "   Clean copy, no highlights.  ")
		require.NoError(t, err)
		assert.Equal(t, "Clean copy, no highlights.", r.Comment)
		assert.Equal(t, owner, r.OwnerID)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		ev := events[0].(*ReviewSubmittedEvent)
		assert.Equal(t, EventTypeReviewSubmitted, ev.EventType())
		assert.Equal(t, 4, ev.Rating)
	})

	tests := []struct {
		name     string
		reviewer uuid.UUID
		rating   int
		comment  string
		want     error
	}{
		{"owner reviewing own item", owner, 5, "Great book for the course", shared.ErrForbidden},
		{"rating zero", reviewer, 0, "Great book for the course", shared.ErrInvalidInput},
		{"rating six", reviewer, 6, "Great book for the course", shared.ErrInvalidInput},
		{"comment too short after trim", reviewer, 3, "   short    ", shared.ErrInvalidInput},
		{"comment too long", reviewer, 3, strings.Repeat("a", MaxCommentLength+1), shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReview(item, tt.reviewer, tt.rating, tt.comment)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewReview_CommentLengthCountsRunes(t *testing.T) {
	item := ItemRef{ID: uuid.New(), OwnerID: uuid.New()}

	_, err := NewReview(item, uuid.New(), 5, "बहुत अच्छा")
	assert.NoError(t, err)
}

func TestReview_CanBeDeletedBy(t *testing.T) {
	reviewer := uuid.New()
	r, err := NewReview(ItemRef{ID: uuid.New(), OwnerID: uuid.New()}, reviewer, 5, "Exactly as described")
	require.NoError(t, err)

	assert.True(t, r.CanBeDeletedBy(shared.NewActor(reviewer, shared.RoleUser)))
	assert.True(t, r.CanBeDeletedBy(shared.NewActor(uuid.New(), shared.RoleAdmin)))
	assert.False(t, r.CanBeDeletedBy(shared.NewActor(r.OwnerID, shared.RoleUser)))
}

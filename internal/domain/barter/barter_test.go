package barter

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/shared"
)

func newTestBarter(t *testing.T) (*Barter, shared.Actor, shared.Actor) {
	t.Helper()
	ownerID, requesterID := uuid.New(), uuid.New()
	item := ItemRef{ID: uuid.New(), OwnerID: ownerID, Title: "Organic Chemistry", Available: true}

	b, err := NewBarter(item, requesterID, "Swap for my physics book?", nil)
	require.NoError(t, err)
	return b, shared.NewActor(ownerID, shared.RoleUser), shared.NewActor(requesterID, shared.RoleUser)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
		{StatusAccepted, StatusAccepted, false},
		{StatusRejected, StatusAccepted, false},
		{StatusRejected, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewBarter(t *testing.T) {
	ownerID := uuid.New()
	item := ItemRef{ID: uuid.New(), OwnerID: ownerID, Title: "Calculus", Available: true}

	t.Run("starts pending with request event", func(t *testing.T) {
		b, err := NewBarter(item, uuid.New(), "  hi  ", nil)
		require.NoError(t, err)

		assert.Equal(t, StatusPending, b.Status)
		assert.Equal(t, ownerID, b.OwnerID)
		assert.Equal(t, "hi", b.Message)
		require.Len(t, b.GetDomainEvents(), 1)
		evt, ok := b.GetDomainEvents()[0].(*BarterRequestedEvent)
		require.True(t, ok)
		assert.Equal(t, ownerID, evt.OwnerID)
	})

	t.Run("cannot barter own item", func(t *testing.T) {
		_, err := NewBarter(item, ownerID, "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot barter your own item")
	})

	t.Run("item must be available", func(t *testing.T) {
		sold := item
		sold.Available = false
		_, err := NewBarter(sold, uuid.New(), "", nil)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "ITEM_NOT_AVAILABLE", de.Code)
	})

	t.Run("offered item must differ", func(t *testing.T) {
		id := item.ID
		_, err := NewBarter(item, uuid.New(), "", &id)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestBarter_AcceptThenSecondActionFails(t *testing.T) {
	b, owner, _ := newTestBarter(t)

	require.NoError(t, b.Accept(owner))
	assert.Equal(t, StatusAccepted, b.Status)
	assert.NotNil(t, b.RespondedAt)
	assert.False(t, b.Withdrawn)

	assert.ErrorIs(t, b.Accept(owner), shared.ErrInvalidState)
	assert.ErrorIs(t, b.Reject(owner), shared.ErrInvalidState)
	assert.Equal(t, StatusAccepted, b.Status)
}

func TestBarter_OwnerRejects(t *testing.T) {
	b, owner, _ := newTestBarter(t)
	b.ClearDomainEvents()

	require.NoError(t, b.Reject(owner))
	assert.Equal(t, StatusRejected, b.Status)

	events := b.GetDomainEvents()
	require.Len(t, events, 1)
	evt := events[0].(*BarterStatusChangedEvent)
	assert.Equal(t, StatusPending, evt.OldStatus)
	assert.Equal(t, StatusRejected, evt.NewStatus)
	assert.Equal(t, owner.UserID, evt.ChangedBy)
}

func TestBarter_RequesterWithdraws(t *testing.T) {
	b, _, requester := newTestBarter(t)

	t.Run("requester cannot accept", func(t *testing.T) {
		assert.ErrorIs(t, b.Accept(requester), shared.ErrForbidden)
		assert.Equal(t, StatusPending, b.Status)
	})

	t.Run("requester withdraws as rejected", func(t *testing.T) {
		require.NoError(t, b.Reject(requester))
		assert.Equal(t, StatusRejected, b.Status)
		assert.True(t, b.Withdrawn)
	})
}

func TestBarter_NonParticipant(t *testing.T) {
	b, _, _ := newTestBarter(t)
	stranger := shared.NewActor(uuid.New(), shared.RoleUser)
	admin := shared.NewActor(uuid.New(), shared.RoleAdmin)

	assert.ErrorIs(t, b.Accept(stranger), shared.ErrForbidden)
	assert.ErrorIs(t, b.Reject(admin), shared.ErrForbidden)
	assert.False(t, b.CanBeViewedBy(stranger))
	assert.True(t, b.CanBeViewedBy(admin))
}

func TestBarter_InvalidTarget(t *testing.T) {
	b, owner, _ := newTestBarter(t)

	assert.ErrorIs(t, b.UpdateStatus(owner, StatusPending), shared.ErrInvalidInput)
	assert.ErrorIs(t, b.UpdateStatus(owner, "maybe"), shared.ErrInvalidInput)
}

func TestBarter_CounterpartyOf(t *testing.T) {
	b, owner, requester := newTestBarter(t)

	assert.Equal(t, requester.UserID, b.CounterpartyOf(owner.UserID))
	assert.Equal(t, owner.UserID, b.CounterpartyOf(requester.UserID))
}

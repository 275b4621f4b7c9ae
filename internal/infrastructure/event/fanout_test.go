package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type publisherFunc func(ctx context.Context, events ...shared.DomainEvent) error

func (f publisherFunc) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return f(ctx, events...)
}

func TestFanoutPublisher(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	local := newRecordingHandler("OrderPlaced")
	bus.Subscribe(local)

	var mirrored int
	ok := publisherFunc(func(_ context.Context, events ...shared.DomainEvent) error {
		mirrored += len(events)
		return nil
	})
	broken := publisherFunc(func(context.Context, ...shared.DomainEvent) error {
		return errors.New("nats unavailable")
	})

	f := NewFanoutPublisher(bus, zap.New(core), broken, ok)
	require.NoError(t, f.Publish(context.Background(), newTestEvent("OrderPlaced")))

	assert.Equal(t, 1, local.count())
	assert.Equal(t, 1, mirrored)
	assert.Equal(t, 1, recorded.Len())
}

func TestFanoutPublisher_PrimaryFailure(t *testing.T) {
	primary := publisherFunc(func(context.Context, ...shared.DomainEvent) error {
		return errors.New("primary down")
	})
	called := false
	mirror := publisherFunc(func(context.Context, ...shared.DomainEvent) error {
		called = true
		return nil
	})

	err := NewFanoutPublisher(primary, zap.NewNop(), mirror).Publish(context.Background(), newTestEvent("X"))
	assert.ErrorContains(t, err, "primary down")
	assert.False(t, called)
}

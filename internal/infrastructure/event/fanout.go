package event

import (
	"context"

	"github.com/studyreuse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FanoutPublisher publishes to a primary publisher and mirrors the events to
// secondary sinks. Only a primary failure is returned; a failing mirror is
// logged.
type FanoutPublisher struct {
	primary shared.EventPublisher
	mirrors []shared.EventPublisher
	logger  *zap.Logger
}

// NewFanoutPublisher creates a fanout with the in-process bus as primary
func NewFanoutPublisher(primary shared.EventPublisher, log *zap.Logger, mirrors ...shared.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{
		primary: primary,
		mirrors: mirrors,
		logger:  log,
	}
}

// Publish implements shared.EventPublisher
func (f *FanoutPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if err := f.primary.Publish(ctx, events...); err != nil {
		return err
	}
	for _, m := range f.mirrors {
		if err := m.Publish(ctx, events...); err != nil {
			f.logger.Warn("Mirror publish failed",
				zap.Int("event_count", len(events)),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ shared.EventPublisher = (*FanoutPublisher)(nil)

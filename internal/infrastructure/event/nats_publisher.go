package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Envelope is the wire format of events published to NATS
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// msgPublisher is the subset of *nats.Conn used by NATSPublisher
type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher forwards domain events to NATS subjects of the form
// <prefix>.<EventType>, for consumers outside the API process
type NATSPublisher struct {
	conn       msgPublisher
	prefix     string
	serializer *EventSerializer
	logger     *zap.Logger
}

// ConnectNATS dials the configured server with unlimited reconnects
func ConnectNATS(cfg config.NATSConfig, log *zap.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}
	return conn, nil
}

// NewNATSPublisher creates a publisher on an open connection
func NewNATSPublisher(conn *nats.Conn, prefix string, serializer *EventSerializer, log *zap.Logger) *NATSPublisher {
	return newNATSPublisher(conn, prefix, serializer, log)
}

func newNATSPublisher(conn msgPublisher, prefix string, serializer *EventSerializer, log *zap.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:       conn,
		prefix:     prefix,
		serializer: serializer,
		logger:     log,
	}
}

// Subject returns the subject an event type is published on
func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

// Publish sends each event as an Envelope. The event id travels in the
// Nats-Msg-Id header so JetStream streams can drop redeliveries.
func (p *NATSPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		data, err := json.Marshal(Envelope{
			ID:            event.EventID(),
			Type:          event.EventType(),
			AggregateType: event.AggregateType(),
			AggregateID:   event.AggregateID(),
			OccurredAt:    event.OccurredAt(),
			Payload:       payload,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal envelope: %w", err)
		}

		msg := nats.NewMsg(p.Subject(event.EventType()))
		msg.Header.Set(nats.MsgIdHdr, event.EventID().String())
		msg.Data = data

		if err := p.conn.PublishMsg(msg); err != nil {
			return fmt.Errorf("failed to publish %s to NATS: %w", event.EventType(), err)
		}
		p.logger.Debug("Event forwarded to NATS",
			zap.String("subject", msg.Subject),
			zap.String("event_id", event.EventID().String()),
		)
	}
	return nil
}

// Close flushes buffered messages and closes the connection
func (p *NATSPublisher) Close(ctx context.Context) error {
	err := p.conn.FlushWithContext(ctx)
	p.conn.Close()
	return err
}

// Decode turns an Envelope back into a typed domain event
func (p *NATSPublisher) Decode(data []byte) (shared.DomainEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	return p.serializer.Deserialize(env.Type, env.Payload)
}

var _ shared.EventPublisher = (*NATSPublisher)(nil)

package telemetry

import (
	"context"
	"strconv"

	"github.com/studyreuse/backend/internal/domain/barter"
	"github.com/studyreuse/backend/internal/domain/catalog"
	"github.com/studyreuse/backend/internal/domain/identity"
	"github.com/studyreuse/backend/internal/domain/review"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MarketplaceMetrics counts marketplace activity from domain events
type MarketplaceMetrics struct {
	usersRegistered  metric.Int64Counter
	itemsListed      metric.Int64Counter
	itemsModerated   metric.Int64Counter
	bartersRequested metric.Int64Counter
	bartersResolved  metric.Int64Counter
	ordersPlaced     metric.Int64Counter
	orderValue       metric.Float64Histogram
	orderTransitions metric.Int64Counter
	reviewsSubmitted metric.Int64Counter
}

// NewMarketplaceMetrics creates the instruments on meter
func NewMarketplaceMetrics(meter metric.Meter) (*MarketplaceMetrics, error) {
	m := &MarketplaceMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.usersRegistered, "studyreuse.users.registered", "Accounts registered"},
		{&m.itemsListed, "studyreuse.items.listed", "Items listed"},
		{&m.itemsModerated, "studyreuse.items.moderated", "Moderation actions on items"},
		{&m.bartersRequested, "studyreuse.barters.requested", "Barter requests created"},
		{&m.bartersResolved, "studyreuse.barters.resolved", "Barter requests accepted, rejected or withdrawn"},
		{&m.ordersPlaced, "studyreuse.orders.placed", "Orders placed"},
		{&m.orderTransitions, "studyreuse.orders.transitions", "Order state changes"},
		{&m.reviewsSubmitted, "studyreuse.reviews.submitted", "Reviews submitted"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, &MetricsError{Metric: c.name, Err: err}
		}
		*c.dst = counter
	}

	var err error
	m.orderValue, err = meter.Float64Histogram("studyreuse.orders.value",
		metric.WithDescription("Total amount of placed orders"),
		metric.WithUnit("INR"),
		metric.WithExplicitBucketBoundaries(50, 100, 250, 500, 1000, 2500, 5000, 10000))
	if err != nil {
		return nil, &MetricsError{Metric: "studyreuse.orders.value", Err: err}
	}
	return m, nil
}

// Name identifies the handler
func (m *MarketplaceMetrics) Name() string {
	return "telemetry.marketplace_metrics"
}

// EventTypes returns the events that are counted
func (m *MarketplaceMetrics) EventTypes() []string {
	return []string{
		identity.EventTypeUserRegistered,
		catalog.EventTypeItemListed,
		catalog.EventTypeItemModerated,
		barter.EventTypeBarterRequested,
		barter.EventTypeBarterStatusChanged,
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		review.EventTypeReviewSubmitted,
	}
}

// Handle records event. Unknown events are ignored.
func (m *MarketplaceMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *identity.UserRegisteredEvent:
		m.usersRegistered.Add(ctx, 1)
	case *catalog.ItemListedEvent:
		m.itemsListed.Add(ctx, 1, metric.WithAttributes(attribute.String("category", e.Category)))
	case *catalog.ItemModeratedEvent:
		m.itemsModerated.Add(ctx, 1, metric.WithAttributes(attribute.String("action", string(e.Action))))
	case *barter.BarterRequestedEvent:
		m.bartersRequested.Add(ctx, 1)
	case *barter.BarterStatusChangedEvent:
		outcome := string(e.NewStatus)
		if e.Withdrawn {
			outcome = "withdrawn"
		}
		m.bartersResolved.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	case *trade.OrderPlacedEvent:
		m.ordersPlaced.Add(ctx, 1)
		m.orderValue.Record(ctx, e.TotalAmount.InexactFloat64())
	case *trade.OrderStatusChangedEvent:
		m.orderTransitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", string(e.OldState)),
			attribute.String("to", string(e.NewState))))
	case *review.ReviewSubmittedEvent:
		m.reviewsSubmitted.Add(ctx, 1, metric.WithAttributes(attribute.String("rating", strconv.Itoa(e.Rating))))
	}
	return nil
}

// MetricsError reports an instrument that could not be created
type MetricsError struct {
	Metric string
	Err    error
}

func (e *MetricsError) Error() string {
	return "create metric " + e.Metric + ": " + e.Err.Error()
}

func (e *MetricsError) Unwrap() error {
	return e.Err
}

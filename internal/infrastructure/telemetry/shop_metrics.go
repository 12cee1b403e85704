package telemetry

import (
	"context"

	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ShopMetrics turns domain events into business counters. It is subscribed
// to the event bus like any other handler.
type ShopMetrics struct {
	ordersPlaced    metric.Int64Counter
	orderAmount     metric.Float64Histogram
	unitsOrdered    metric.Int64Counter
	statusChanges   metric.Int64Counter
	ordersCancelled metric.Int64Counter
	ordersDeleted   metric.Int64Counter
	usersRegistered metric.Int64Counter
	usersUnlocked   metric.Int64Counter
}

// NewShopMetrics creates the instruments on meter
func NewShopMetrics(meter metric.Meter) (*ShopMetrics, error) {
	m := &ShopMetrics{}
	var err error
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&m.ordersPlaced, "shop.orders.placed", "Orders placed", "{order}"},
		{&m.unitsOrdered, "shop.orders.units", "Product units ordered", "{unit}"},
		{&m.statusChanges, "shop.orders.status_changes", "Order status transitions", "{change}"},
		{&m.ordersCancelled, "shop.orders.cancelled", "Orders cancelled", "{order}"},
		{&m.ordersDeleted, "shop.orders.deleted", "Orders deleted by administrators", "{order}"},
		{&m.usersRegistered, "shop.users.registered", "Customer registrations", "{user}"},
		{&m.usersUnlocked, "shop.users.unlocked", "Accounts unlocked by administrators", "{user}"},
	}
	for _, c := range counters {
		*c.target, err = meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
	}

	m.orderAmount, err = meter.Float64Histogram("shop.orders.amount",
		metric.WithDescription("Order total amount"),
		metric.WithUnit("{currency}"),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Handle records the event
func (m *ShopMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		m.ordersPlaced.Add(ctx, 1)
		amount, _ := e.TotalAmount.Float64()
		m.orderAmount.Record(ctx, amount)
		units := 0
		for _, item := range e.Items {
			units += item.Quantity
		}
		m.unitsOrdered.Add(ctx, int64(units))
	case *trade.OrderStatusChangedEvent:
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", string(e.PreviousStatus)),
			attribute.String("to", string(e.NewStatus)),
		))
	case *trade.OrderCancelledEvent:
		m.ordersCancelled.Add(ctx, 1, metric.WithAttributes(attribute.String("from", string(e.PreviousStatus))))
	case *trade.OrderDeletedEvent:
		m.ordersDeleted.Add(ctx, 1)
	case *identity.UserRegisteredEvent:
		m.usersRegistered.Add(ctx, 1)
	case *identity.UserUnlockedEvent:
		m.usersUnlocked.Add(ctx, 1, metric.WithAttributes(attribute.String("previous_status", string(e.PreviousStatus))))
	}
	return nil
}

// EventTypes lists the events ShopMetrics counts
func (m *ShopMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeOrderCancelled,
		trade.EventTypeOrderDeleted,
		identity.EventTypeUserRegistered,
		identity.EventTypeUserUnlocked,
	}
}

var _ shared.EventHandler = (*ShopMetrics)(nil)

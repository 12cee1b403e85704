package event

import (
	"context"

	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/domain/trade"
	"github.com/shopapi/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LoggingHandler writes one structured log line per domain event
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(log *zap.Logger) *LoggingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingHandler{logger: log.Named("events")}
}

// Handle logs the event with fields specific to its type
func (h *LoggingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := append(logger.Fields(ctx),
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)

	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("customer_id", e.UserID.String()),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
			zap.Int("items", len(e.Items)),
		)
	case *trade.OrderStatusChangedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("previous_status", string(e.PreviousStatus)),
			zap.String("new_status", string(e.NewStatus)),
		)
	case *trade.OrderCancelledEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("previous_status", string(e.PreviousStatus)),
		)
	case *trade.OrderDeletedEvent:
		fields = append(fields, zap.String("order_number", e.OrderNumber))
	case *identity.UserUnlockedEvent:
		fields = append(fields,
			zap.String("username", e.Username),
			zap.String("previous_status", string(e.PreviousStatus)),
		)
	case *identity.UserRegisteredEvent:
		fields = append(fields, zap.String("username", e.Username))
	}

	h.logger.Info("Domain event", fields...)
	return nil
}

// EventTypes returns nil so the handler receives every event
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

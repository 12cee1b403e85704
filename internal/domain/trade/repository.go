package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
)

// OrderFilter narrows order listings
type OrderFilter struct {
	shared.Filter
	UserID        *uuid.UUID
	OrderStatus   *OrderStatus
	PaymentStatus *PaymentStatus
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate finds an order and locks it for the rest of the
	// transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindAll returns one page of orders and the total count
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	// Create inserts a new order and its items. The stored total is
	// recomputed from the items and must match TotalAmount.
	Create(ctx context.Context, order *Order) error
	// UpdateStatus persists order and payment status fields. It fails with
	// shared.ErrConcurrencyConflict when the stored order is no longer at
	// the version it was loaded at.
	UpdateStatus(ctx context.Context, order *Order) error
	// Delete removes an order and its items, with the same version check
	Delete(ctx context.Context, order *Order) error
}

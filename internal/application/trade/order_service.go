package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appaudit "github.com/shopapi/backend/internal/application/audit"
	"github.com/shopapi/backend/internal/domain/audit"
	"github.com/shopapi/backend/internal/domain/cart"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/domain/trade"
	"github.com/shopapi/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderService handles order placement and administration
type OrderService struct {
	txScope        TransactionScope
	orderRepo      trade.OrderRepository
	cartRepo       cart.CartRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope TransactionScope,
	orderRepo trade.OrderRepository,
	cartRepo cart.CartRepository,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		txScope:   txScope,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the publisher for order events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places an order from the user's cart or from a direct item.
// Stock is validated and decremented and the order is written in one
// transaction. The cart is cleared after commit.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order", "create", attribute.String(telemetry.AttrUserID, userID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	address, err := req.ShippingAddress.ToAddress()
	if err != nil {
		return nil, err
	}

	fromCart := req.Item == nil
	var lines []stockLine
	if fromCart {
		c, err := s.cartRepo.FindByUser(ctx, userID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if c == nil || c.IsEmpty() {
			return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
		}
		for _, item := range c.Items {
			lines = append(lines, stockLine{ProductID: item.ProductID, Size: item.Size, Color: item.Color, Quantity: item.Quantity})
		}
	} else {
		lines = []stockLine{{
			ProductID: req.Item.ProductID,
			Size:      req.Item.Size,
			Color:     req.Item.Color,
			Quantity:  req.Item.Quantity,
		}}
	}

	var order *trade.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		items := make([]trade.OrderItem, 0, len(lines))
		for _, line := range lines {
			if line.Quantity <= 0 {
				return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
			}
			product, err := applyStockDelta(ctx, repos.ProductRepo(), line, decrement)
			if err != nil {
				return err
			}
			item, err := trade.NewOrderItem(product, line.Quantity, line.Size, line.Color)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		o, err := trade.NewOrder(userID, items, address, req.PaymentMethod)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String(telemetry.AttrOrderID, order.ID.String()),
		attribute.String(telemetry.AttrOrderNumber, order.OrderNumber),
		attribute.Int(telemetry.AttrItemCount, len(order.Items)),
	)
	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(order.Items)),
	)

	if fromCart {
		s.clearCart(ctx, userID)
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID returns an order visible to the actor: its owner or an admin
func (s *OrderService) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !order.IsOwnedBy(actor.UserID) {
		// hide the existence of other users' orders
		return nil, shared.ErrNotFound
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListMine returns the user's own orders
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, query OrderListQuery) ([]OrderResponse, int64, error) {
	filter, err := buildOrderFilter(query)
	if err != nil {
		return nil, 0, err
	}
	filter.UserID = &userID
	return s.list(ctx, filter)
}

// ListAll returns every order (admin)
func (s *OrderService) ListAll(ctx context.Context, query OrderListQuery) ([]OrderResponse, int64, error) {
	filter, err := buildOrderFilter(query)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter trade.OrderFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// UpdateStatus sets the order status. Cancelling an order that was not
// already cancelled restores its stock in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, req UpdateStatusRequest) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order", "update_status",
		attribute.String(telemetry.AttrOrderID, id.String()),
		attribute.String(telemetry.AttrOrderStatus, req.Status),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	status, err := trade.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous := o.OrderStatus

		cancelling, err := o.UpdateStatus(status)
		if err != nil {
			return err
		}
		if cancelling {
			if err := s.restoreStock(ctx, repos, o); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().UpdateStatus(ctx, o); err != nil {
			return err
		}

		if err := appaudit.Record(ctx, repos.AuditRepo(), actor.UserID, audit.ActionOrderStatusChanged, audit.TargetOrder, o.ID,
			map[string]interface{}{
				"order_number":    o.OrderNumber,
				"previous_status": previous.String(),
				"new_status":      status.String(),
				"stock_restored":  cancelling,
			}, actor.ClientIP); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// UpdatePaymentStatus sets the payment status
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, actor Actor, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	status, err := trade.ParsePaymentStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous := o.PaymentStatus
		if err := o.UpdatePaymentStatus(status); err != nil {
			return err
		}
		if err := repos.OrderRepo().UpdateStatus(ctx, o); err != nil {
			return err
		}
		if err := appaudit.Record(ctx, repos.AuditRepo(), actor.UserID, audit.ActionOrderPaymentStatus, audit.TargetOrder, o.ID,
			map[string]interface{}{
				"order_number":    o.OrderNumber,
				"previous_status": string(previous),
				"new_status":      string(status),
			}, actor.ClientIP); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete restores the order's stock and removes it in one transaction.
// A cancelled order already had its stock returned and is removed as is.
func (s *OrderService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		restore := o.OrderStatus != trade.OrderStatusCancelled
		if restore {
			if err := s.restoreStock(ctx, repos, o); err != nil {
				return err
			}
		}
		o.MarkDeleted()
		if err := repos.OrderRepo().Delete(ctx, o); err != nil {
			return err
		}

		if err := appaudit.Record(ctx, repos.AuditRepo(), actor.UserID, audit.ActionOrderDeleted, audit.TargetOrder, o.ID,
			map[string]interface{}{
				"order_number":   o.OrderNumber,
				"order_status":   o.OrderStatus.String(),
				"stock_restored": restore,
			}, actor.ClientIP); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("order deleted",
		zap.String("order_id", order.ID.String()),
		zap.String("actor_id", actor.UserID.String()),
	)
	s.publishEvents(ctx, order)
	return nil
}

func (s *OrderService) restoreStock(ctx context.Context, repos TransactionalRepositories, order *trade.Order) error {
	for _, item := range order.Items {
		product, err := applyStockDelta(ctx, repos.ProductRepo(), lineOf(item), increment)
		if err != nil {
			return err
		}
		if product == nil {
			s.logger.Warn("skipping stock restore for missing product",
				zap.String("order_id", order.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
			)
		}
	}
	return nil
}

// clearCart empties the cart after an order commits. Failures are logged
// and do not affect the placed order.
func (s *OrderService) clearCart(ctx context.Context, userID uuid.UUID) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err == nil {
		c.Clear()
		err = s.cartRepo.Save(ctx, c)
	}
	if err != nil {
		s.logger.Warn("failed to clear cart after order",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

func buildOrderFilter(query OrderListQuery) (trade.OrderFilter, error) {
	filter := trade.OrderFilter{Filter: shared.DefaultFilter()}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.OrderDir != "" {
		filter.OrderDir = query.OrderDir
	}
	if query.Status != "" {
		status, err := trade.ParseOrderStatus(query.Status)
		if err != nil {
			return filter, err
		}
		filter.OrderStatus = &status
	}
	if query.PaymentStatus != "" {
		status, err := trade.ParsePaymentStatus(query.PaymentStatus)
		if err != nil {
			return filter, err
		}
		filter.PaymentStatus = &status
	}
	return filter, nil
}

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	apptrade "github.com/shopapi/backend/internal/application/trade"
	"github.com/shopapi/backend/internal/domain/audit"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/domain/shared/valueobject"
	"github.com/shopapi/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, userID uuid.UUID, products ...*catalog.Product) *trade.Order {
	t.Helper()
	items := make([]trade.OrderItem, 0, len(products))
	for _, p := range products {
		item, err := trade.NewOrderItem(p, 2, "", "")
		require.NoError(t, err)
		items = append(items, item)
	}
	address, err := valueobject.NewAddress("1 Main St", "Springfield", "US", valueobject.WithPostalCode("12345"))
	require.NoError(t, err)
	order, err := trade.NewOrder(userID, items, address, "card")
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDB(t))
	userID := uuid.New()

	first := newTestProduct(t, "Mug", "12.50")
	second := newTestProduct(t, "Teapot", "30")
	order := newTestOrder(t, userID, first, second)
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	assert.True(t, decimal.RequireFromString("85").Equal(found.TotalAmount))
	assert.Equal(t, "Springfield", found.ShippingAddress.City())
	assert.Equal(t, trade.OrderStatusPending, found.OrderStatus)
	require.Len(t, found.Items, 2)
	assert.Equal(t, first.ID, found.Items[0].ProductID)
	assert.Equal(t, second.ID, found.Items[1].ProductID)
	assert.NoError(t, found.VerifyTotal())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_CreateRejectsTamperedTotal(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDB(t))

	order := newTestOrder(t, uuid.New(), newTestProduct(t, "Mug", "12.50"))
	order.TotalAmount = decimal.NewFromInt(1)

	err := repo.Create(ctx, order)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ORDER_TOTAL_MISMATCH", domainErr.Code)
	_, err = repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDB(t))
	alice, bob := uuid.New(), uuid.New()
	mug := newTestProduct(t, "Mug", "10")

	aliceOrder := newTestOrder(t, alice, mug)
	require.NoError(t, repo.Create(ctx, aliceOrder))
	shipped := newTestOrder(t, alice, mug)
	_, err := shipped.UpdateStatus(trade.OrderStatusShipped)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, shipped))
	require.NoError(t, repo.Create(ctx, newTestOrder(t, bob, mug)))

	orders, total, err := repo.FindAll(ctx, trade.OrderFilter{UserID: &alice})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)

	status := trade.OrderStatusShipped
	orders, total, err = repo.FindAll(ctx, trade.OrderFilter{OrderStatus: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, shipped.ID, orders[0].ID)

	orders, _, err = repo.FindAll(ctx, trade.OrderFilter{Filter: shared.Filter{Search: aliceOrder.OrderNumber}})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, aliceOrder.ID, orders[0].ID)
}

func TestGormOrderRepository_UpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDB(t))

	order := newTestOrder(t, uuid.New(), newTestProduct(t, "Mug", "10"))
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, order.UpdatePaymentStatus(trade.PaymentStatusPaid))
	require.NoError(t, repo.UpdateStatus(ctx, order))
	_, err := order.UpdateStatus(trade.OrderStatusDelivered)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, order))

	found, err := repo.FindByIDForUpdate(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusDelivered, found.OrderStatus)
	assert.Equal(t, trade.PaymentStatusPaid, found.PaymentStatus)
	assert.NotNil(t, found.PaidAt)
	assert.NotNil(t, found.DeliveredAt)
	assert.Equal(t, 3, found.Version)
	require.Len(t, found.Items, 1)

	require.NoError(t, repo.Delete(ctx, order))
	_, err = repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, order), shared.ErrNotFound)

	missing := newTestOrder(t, uuid.New(), newTestProduct(t, "Cup", "5"))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, missing), shared.ErrNotFound)
}

func TestGormOrderRepository_StaleVersionConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDB(t))

	order := newTestOrder(t, uuid.New(), newTestProduct(t, "Mug", "10"))
	require.NoError(t, repo.Create(ctx, order))

	first, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	_, err = first.UpdateStatus(trade.OrderStatusCancelled)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, first))

	_, err = second.UpdateStatus(trade.OrderStatusCancelled)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, second), shared.ErrConcurrencyConflict)

	t.Run("delete of a stale copy", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		fresh, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.UpdatePaymentStatus(trade.PaymentStatusRefunded))
		require.NoError(t, repo.UpdateStatus(ctx, fresh))

		assert.ErrorIs(t, repo.Delete(ctx, stale), shared.ErrConcurrencyConflict)
		_, err = repo.FindByID(ctx, order.ID)
		assert.NoError(t, err)
	})
}

func TestGormTradeTransactionScope(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	products := NewGormProductRepository(db)
	orders := NewGormOrderRepository(db)

	product := newTestProduct(t, "Mug", "10")
	require.NoError(t, product.SetStock(5))
	require.NoError(t, products.Create(ctx, product))
	slot := product.ResolveStock("", "")
	scope := NewGormTradeTransactionScope(db)

	t.Run("rolls back every write on error", func(t *testing.T) {
		order := newTestOrder(t, uuid.New(), product)
		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			require.NoError(t, repos.ProductRepo().AdjustStock(ctx, slot, -2))
			require.NoError(t, repos.OrderRepo().Create(ctx, order))
			return repos.ProductRepo().AdjustStock(ctx, slot, -10)
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		reloaded, err := products.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, reloaded.Stock)
		_, err = orders.FindByID(ctx, order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("commits together", func(t *testing.T) {
		order := newTestOrder(t, uuid.New(), product)
		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			if err := repos.ProductRepo().AdjustStock(ctx, slot, -2); err != nil {
				return err
			}
			if err := repos.OrderRepo().Create(ctx, order); err != nil {
				return err
			}
			entry, err := audit.NewEntry(uuid.New(), audit.ActionOrderStatusChanged, audit.TargetOrder, order.ID, nil, "")
			if err != nil {
				return err
			}
			return repos.AuditRepo().Append(ctx, entry)
		})
		require.NoError(t, err)

		reloaded, err := products.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, reloaded.Stock)
		_, err = orders.FindByID(ctx, order.ID)
		assert.NoError(t, err)
	})
}

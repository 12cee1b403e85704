package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderSortColumns = sortColumns{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"total_amount": "total_amount",
	"order_status": "order_status",
	"order_number": "order_number",
}

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.withItems(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindByIDForUpdate finds an order with its items and locks the order row
// until the surrounding transaction ends
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	err := r.withItems(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindAll returns one page of orders and the total count
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	conditions := func(query *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.OrderStatus != nil {
			query = query.Where("order_status = ?", *filter.OrderStatus)
		}
		if filter.PaymentStatus != nil {
			query = query.Where("payment_status = ?", *filter.PaymentStatus)
		}
		if filter.Search != "" {
			query = query.Where(`LOWER(order_number) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
		}
		return query
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&trade.Order{}).Scopes(conditions).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []trade.Order
	query := r.withItems(ctx).Model(&trade.Order{}).Scopes(conditions)
	if err := applyPage(query, filter.Filter, orderSortColumns, "created_at DESC, id ASC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Create inserts a new order and its items after checking that the total
// matches the items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	if err := order.VerifyTotal(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return translateError(err)
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			order.Items[i].Position = i
		}
		return tx.Create(&order.Items).Error
	})
}

// UpdateStatus persists the status fields and their timestamps. The write
// only applies to the version the order was loaded at; a row changed since
// then yields ErrConcurrencyConflict.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).Model(&trade.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"order_status":   order.OrderStatus,
			"payment_status": order.PaymentStatus,
			"paid_at":        order.PaidAt,
			"shipped_at":     order.ShippedAt,
			"delivered_at":   order.DeliveredAt,
			"cancelled_at":   order.CancelledAt,
			"version":        order.Version,
			"updated_at":     order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(r.db.WithContext(ctx), order.ID)
	}
	return nil
}

// Delete removes an order and its items if the order is still at the
// version it was loaded at
func (r *GormOrderRepository) Delete(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&trade.Order{}, "id = ? AND version = ?", order.ID, order.Version)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return staleOrMissing(tx, order.ID)
		}
		return tx.Where("order_id = ?", order.ID).Delete(&trade.OrderItem{}).Error
	})
}

func staleOrMissing(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&trade.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser returns the user's cart with its lines in insertion order
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&c, "user_id = ?", userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// Save writes the cart row and replaces its lines
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(c).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		if len(c.Items) == 0 {
			return nil
		}
		for i := range c.Items {
			c.Items[i].CartID = c.ID
			c.Items[i].Position = i
		}
		return tx.Create(&c.Items).Error
	})
}

var _ cart.CartRepository = (*GormCartRepository)(nil)

// GormWishlistRepository implements cart.WishlistRepository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// FindByUser returns the user's wishlist, oldest entry first
func (r *GormWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Wishlist, error) {
	var w cart.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC, id ASC") }).
		First(&w, "user_id = ?", userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &w, nil
}

// Save writes the wishlist row and replaces its entries
func (r *GormWishlistRepository) Save(ctx context.Context, w *cart.Wishlist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(w).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("wishlist_id = ?", w.ID).Delete(&cart.WishlistItem{}).Error; err != nil {
			return err
		}
		if len(w.Items) == 0 {
			return nil
		}
		for i := range w.Items {
			w.Items[i].WishlistID = w.ID
		}
		return tx.Create(&w.Items).Error
	})
}

var _ cart.WishlistRepository = (*GormWishlistRepository)(nil)

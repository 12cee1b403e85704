package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
)

// Wishlist is a user's set of saved products
type Wishlist struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items  []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName returns the table name for GORM
func (Wishlist) TableName() string {
	return "wishlists"
}

// WishlistItem references a saved product
type WishlistItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WishlistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_product,priority:1" json:"-"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_product,priority:2" json:"product_id"`
	AddedAt    time.Time `gorm:"not null" json:"added_at"`
}

// TableName returns the table name for GORM
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// NewWishlist creates an empty wishlist for a user
func NewWishlist(userID uuid.UUID) *Wishlist {
	return &Wishlist{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             []WishlistItem{},
	}
}

// Add saves a product. Adding a product twice is a no-op; the return value
// reports whether the wishlist changed.
func (w *Wishlist) Add(productID uuid.UUID) bool {
	if w.Contains(productID) {
		return false
	}
	w.Items = append(w.Items, WishlistItem{
		ID:         uuid.New(),
		WishlistID: w.ID,
		ProductID:  productID,
		AddedAt:    time.Now(),
	})
	w.UpdatedAt = time.Now()
	return true
}

// Remove drops a product from the wishlist
func (w *Wishlist) Remove(productID uuid.UUID) error {
	for i, item := range w.Items {
		if item.ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			w.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("WISHLIST_ITEM_NOT_FOUND", "Product not found in wishlist")
}

// Contains reports whether a product is saved
func (w *Wishlist) Contains(productID uuid.UUID) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// ProductIDs returns the saved product IDs in insertion order
func (w *Wishlist) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(w.Items))
	for i, item := range w.Items {
		ids[i] = item.ProductID
	}
	return ids
}

// Clear removes all saved products
func (w *Wishlist) Clear() {
	w.Items = []WishlistItem{}
	w.UpdatedAt = time.Now()
}

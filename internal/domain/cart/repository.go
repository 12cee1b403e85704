package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUser returns the user's cart or shared.ErrNotFound
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Save creates or updates the cart and replaces its lines
	Save(ctx context.Context, cart *Cart) error
}

// WishlistRepository defines the interface for wishlist persistence
type WishlistRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*Wishlist, error)
	Save(ctx context.Context, wishlist *Wishlist) error
}

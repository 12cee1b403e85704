package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/cart"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
)

// WishlistService handles wishlist operations
type WishlistService struct {
	wishlistRepo cart.WishlistRepository
	productRepo  catalog.ProductRepository
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(wishlistRepo cart.WishlistRepository, productRepo catalog.ProductRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// Get returns the user's wishlist joined with current product data
func (s *WishlistService) Get(ctx context.Context, userID uuid.UUID) (*WishlistResponse, error) {
	w, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, w)
}

// Add saves a product to the wishlist. Adding it twice is not an error.
func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) (*WishlistResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	w, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w.Add(productID) {
		if err := s.wishlistRepo.Save(ctx, w); err != nil {
			return nil, err
		}
	}
	return s.toResponse(ctx, w)
}

// Remove removes a product from the wishlist
func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) (*WishlistResponse, error) {
	w, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WISHLIST_ITEM_NOT_FOUND", "Product not in wishlist")
		}
		return nil, err
	}
	if err := w.Remove(productID); err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, w)
}

// Clear empties the wishlist
func (s *WishlistService) Clear(ctx context.Context, userID uuid.UUID) error {
	w, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	w.Clear()
	return s.wishlistRepo.Save(ctx, w)
}

func (s *WishlistService) loadOrNew(ctx context.Context, userID uuid.UUID) (*cart.Wishlist, error) {
	w, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err == nil {
		return w, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return cart.NewWishlist(userID), nil
	}
	return nil, err
}

func (s *WishlistService) toResponse(ctx context.Context, w *cart.Wishlist) (*WishlistResponse, error) {
	resp := &WishlistResponse{UserID: w.UserID, Items: make([]WishlistProduct, 0, len(w.Items))}
	if len(w.Items) == 0 {
		return resp, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, w.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, item := range w.Items {
		entry := WishlistProduct{ProductID: item.ProductID, AddedAt: item.AddedAt}
		if p, ok := byID[item.ProductID]; ok {
			price := p.Price
			effective := p.EffectivePrice()
			entry.Name = p.Name
			entry.ImageURL = p.ImageURL
			entry.Price = &price
			entry.EffectivePrice = &effective
			entry.Available = p.TotalStock() > 0
		}
		resp.Items = append(resp.Items, entry)
	}
	return resp, nil
}

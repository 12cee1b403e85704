package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/cart"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService handles shopping cart operations
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Get returns the user's cart. A user without a cart gets an empty one,
// which is not persisted until the first mutation.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// AddItem adds a product variant to the user's cart
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.findProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.AddItem(product, req.Quantity, req.Size, req.Color); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Debug("cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", req.Quantity),
	)

	response := ToCartResponse(c)
	return &response, nil
}

// UpdateQuantity sets the quantity of a cart line
func (s *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req UpdateQuantityRequest) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Item not found in cart")
		}
		return nil, err
	}

	var product *catalog.Product
	if req.Quantity > 0 {
		product, err = s.findProduct(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
	}

	if err := c.UpdateQuantity(req.Key(), req.Quantity, product); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// RemoveItem removes a cart line
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, sel LineSelector) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Item not found in cart")
		}
		return nil, err
	}
	if err := c.RemoveItem(sel.Key()); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			empty := ToCartResponse(cart.NewCart(userID))
			return &empty, nil
		}
		return nil, err
	}
	c.Clear()
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

func (s *CartService) loadOrNew(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return cart.NewCart(userID), nil
	}
	return nil, err
}

func (s *CartService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	return product, nil
}

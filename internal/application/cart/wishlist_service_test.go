package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/cart"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWishlistService_Add_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	wishlists := new(MockWishlistRepository)
	products := new(MockProductRepository)
	svc := NewWishlistService(wishlists, products)
	userID := uuid.New()
	product := newProduct(t, 12, 1)
	w := cart.NewWishlist(userID)

	products.On("FindByID", ctx, product.ID).Return(product, nil)
	products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
	wishlists.On("FindByUser", ctx, userID).Return(w, nil)
	wishlists.On("Save", ctx, w).Return(nil)

	_, err := svc.Add(ctx, userID, product.ID)
	require.NoError(t, err)
	resp, err := svc.Add(ctx, userID, product.ID)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, product.Name, resp.Items[0].Name)
	assert.True(t, resp.Items[0].Available)
	wishlists.AssertNumberOfCalls(t, "Save", 1)
}

func TestWishlistService_Add_RequiresProduct(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	svc := NewWishlistService(new(MockWishlistRepository), products)
	id := uuid.New()
	products.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := svc.Add(ctx, uuid.New(), id)
	requireCode(t, err, "PRODUCT_NOT_FOUND")
}

func TestWishlistService_Get_KeepsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	wishlists := new(MockWishlistRepository)
	products := new(MockProductRepository)
	svc := NewWishlistService(wishlists, products)
	userID := uuid.New()
	gone := uuid.New()

	w := cart.NewWishlist(userID)
	w.Add(gone)
	wishlists.On("FindByUser", ctx, userID).Return(w, nil)
	products.On("FindByIDs", ctx, []uuid.UUID{gone}).Return([]catalog.Product{}, nil)

	resp, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, gone, resp.Items[0].ProductID)
	assert.False(t, resp.Items[0].Available)
	assert.Nil(t, resp.Items[0].Price)
}

func TestWishlistService_Clear_WithoutWishlist(t *testing.T) {
	ctx := context.Background()
	wishlists := new(MockWishlistRepository)
	svc := NewWishlistService(wishlists, new(MockProductRepository))
	userID := uuid.New()
	wishlists.On("FindByUser", ctx, userID).Return(nil, shared.ErrNotFound)

	require.NoError(t, svc.Clear(ctx, userID))
	wishlists.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

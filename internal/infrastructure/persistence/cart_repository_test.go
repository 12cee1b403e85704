package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/cart"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCartRepository(newTestDB(t))
	userID := uuid.New()

	_, err := repo.FindByUser(ctx, userID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	shirt := newTestProduct(t, "Oxford Shirt", "50")
	require.NoError(t, shirt.SetStock(10))
	require.NoError(t, shirt.SetSale(true, decimal.RequireFromString("40")))
	hat := newTestProduct(t, "Bucket Hat", "15")
	require.NoError(t, hat.SetStock(10))

	c := cart.NewCart(userID)
	require.NoError(t, c.AddItem(shirt, 2, "M", ""))
	require.NoError(t, c.AddItem(hat, 1, "", "navy"))
	require.NoError(t, c.AddItem(shirt, 1, "L", ""))
	require.NoError(t, repo.Save(ctx, c))

	loaded, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 3)
	assert.Equal(t, "M", loaded.Items[0].Size)
	assert.Equal(t, "navy", loaded.Items[1].Color)
	assert.Equal(t, "L", loaded.Items[2].Size)
	assert.True(t, loaded.Items[0].SalePrice.Valid)
	assert.False(t, loaded.Items[1].SalePrice.Valid)
	assert.True(t, c.TotalPrice.Equal(loaded.TotalPrice))

	t.Run("save replaces lines", func(t *testing.T) {
		require.NoError(t, loaded.RemoveItem(cart.LineKey{ProductID: shirt.ID, Size: "M"}))
		require.NoError(t, repo.Save(ctx, loaded))

		reloaded, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, reloaded.Items, 2)
		assert.Equal(t, hat.ID, reloaded.Items[0].ProductID)
	})

	t.Run("clear", func(t *testing.T) {
		loaded.Clear()
		require.NoError(t, repo.Save(ctx, loaded))

		reloaded, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, reloaded.Items)
	})
}

func TestGormWishlistRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormWishlistRepository(newTestDB(t))
	userID := uuid.New()

	w := cart.NewWishlist(userID)
	first, second := uuid.New(), uuid.New()
	require.True(t, w.Add(first))
	require.True(t, w.Add(second))
	w.Items[0].AddedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, w))

	loaded, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, loaded.ProductIDs())

	require.NoError(t, loaded.Remove(first))
	require.NoError(t, repo.Save(ctx, loaded))

	loaded, err = repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second}, loaded.ProductIDs())
}


package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, name string, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, name+" description", decimal.RequireFromString(price))
	require.NoError(t, err)
	return p
}

func TestGormProductRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))

	product := newTestProduct(t, "Trail Runner", "89.90")
	require.NoError(t, product.SetVariants(
		[]catalog.SizeInput{{Size: "42", Stock: 3}, {Size: "40", Stock: 5}},
		[]catalog.ColorInput{{Color: "red", Stock: 2}},
	))
	product.AddImage("/uploads/trail.png")
	require.NoError(t, repo.Create(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trail Runner", found.Name)
	assert.True(t, decimal.RequireFromString("89.90").Equal(found.Price))
	assert.Equal(t, []string{"/uploads/trail.png"}, found.Images)
	require.Len(t, found.Sizes, 2)
	assert.Equal(t, "40", found.Sizes[0].Size)
	assert.Equal(t, "42", found.Sizes[1].Size)
	require.Len(t, found.Colors, 1)
	assert.Equal(t, 2, found.Colors[0].Stock)

	t.Run("replace variants", func(t *testing.T) {
		require.NoError(t, found.SetVariants([]catalog.SizeInput{{Size: "44", Stock: 1}}, nil))
		require.NoError(t, repo.ReplaceVariants(ctx, found))

		reloaded, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Sizes, 1)
		assert.Equal(t, "44", reloaded.Sizes[0].Size)
		assert.Empty(t, reloaded.Colors)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newTestProduct(t, "Canvas Tote", "20")))

	exists, err := repo.ExistsByName(ctx, "  canvas TOTE ", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, newTestProduct(t, "Canvas Tote", "25"))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	other := newTestProduct(t, "Canvas Bag", "25")
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, other.Update("canvas tote", other.Description, other.Price))
	assert.ErrorIs(t, repo.Save(ctx, other), shared.ErrAlreadyExists)
}

func TestGormProductRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))
	categoryID := uuid.New()

	cheap := newTestProduct(t, "Wool Socks", "9.50")
	cheap.SetCategory(&categoryID)
	mid := newTestProduct(t, "Linen Shirt", "45")
	mid.SetCategory(&categoryID)
	require.NoError(t, mid.SetSale(true, decimal.RequireFromString("39")))
	pricey := newTestProduct(t, "Leather Boots", "180")
	for _, p := range []*catalog.Product{cheap, mid, pricey} {
		require.NoError(t, repo.Create(ctx, p))
	}

	t.Run("filters by category and sorts by price", func(t *testing.T) {
		filter := catalog.ProductFilter{Filter: shared.Filter{Page: 1, PageSize: 10, OrderBy: "price", OrderDir: "asc"}, CategoryID: &categoryID}
		products, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, products, 2)
		assert.Equal(t, cheap.ID, products[0].ID)
		assert.Equal(t, mid.ID, products[1].ID)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		products, total, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Search: "LEATHER"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, pricey.ID, products[0].ID)
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		_, total, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Search: "%"}})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("on sale", func(t *testing.T) {
		onSale := true
		products, total, err := repo.FindAll(ctx, catalog.ProductFilter{OnSale: &onSale})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, mid.ID, products[0].ID)
	})

	t.Run("pages", func(t *testing.T) {
		products, total, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Page: 2, PageSize: 2, OrderBy: "price", OrderDir: "asc"}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, products, 1)
		assert.Equal(t, pricey.ID, products[0].ID)
	})
}

func TestGormProductRepository_AdjustStock(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))

	product := newTestProduct(t, "Rain Jacket", "120")
	require.NoError(t, product.SetStock(4))
	require.NoError(t, product.SetVariants([]catalog.SizeInput{{Size: "M", Stock: 2}}, nil))
	require.NoError(t, repo.Create(ctx, product))

	t.Run("decrements top-level stock", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, catalog.StockSlot{ProductID: product.ID, Kind: catalog.StockKindProduct}, -3))
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Stock)
	})

	t.Run("refuses to go negative", func(t *testing.T) {
		err := repo.AdjustStock(ctx, catalog.StockSlot{ProductID: product.ID, Kind: catalog.StockKindProduct}, -2)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Stock)
	})

	t.Run("variant stock", func(t *testing.T) {
		slot := product.ResolveStock("M", "")
		require.Equal(t, catalog.StockKindSize, slot.Kind)

		require.NoError(t, repo.AdjustStock(ctx, slot, -2))
		assert.ErrorIs(t, repo.AdjustStock(ctx, slot, -1), shared.ErrInsufficientStock)
		require.NoError(t, repo.AdjustStock(ctx, slot, 5))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, found.Sizes[0].Stock)
	})

	t.Run("increment on missing product", func(t *testing.T) {
		err := repo.AdjustStock(ctx, catalog.StockSlot{ProductID: uuid.New(), Kind: catalog.StockKindProduct}, 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_SaveLeavesStockAlone(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))

	product := newTestProduct(t, "Court Sneaker", "75")
	require.NoError(t, product.SetStock(5))
	require.NoError(t, product.SetVariants([]catalog.SizeInput{{Size: "9", Stock: 5}}, nil))
	require.NoError(t, repo.Create(ctx, product))

	stale, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)

	require.NoError(t, repo.AdjustStock(ctx, stale.ResolveStock("9", ""), -3))
	require.NoError(t, repo.AdjustStock(ctx, catalog.StockSlot{ProductID: product.ID, Kind: catalog.StockKindProduct}, -2))

	stale.AddImage("/uploads/court.png")
	require.NoError(t, stale.Update("Court Sneaker Low", stale.Description, decimal.RequireFromString("70")))
	require.NoError(t, repo.Save(ctx, stale))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Court Sneaker Low", found.Name)
	assert.True(t, decimal.RequireFromString("70").Equal(found.Price))
	assert.Equal(t, []string{"/uploads/court.png"}, found.Images)
	assert.Equal(t, 3, found.Stock)
	require.Len(t, found.Sizes, 1)
	assert.Equal(t, 2, found.Sizes[0].Stock)
	assert.Equal(t, stale.Sizes[0].ID, found.Sizes[0].ID)

	t.Run("set stock overwrites", func(t *testing.T) {
		require.NoError(t, repo.SetStock(ctx, product.ID, 10))
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, found.Stock)
		assert.Equal(t, 2, found.Sizes[0].Stock)
	})

	t.Run("unknown id", func(t *testing.T) {
		ghost := newTestProduct(t, "Ghost", "1")
		assert.ErrorIs(t, repo.Save(ctx, ghost), shared.ErrNotFound)
		assert.ErrorIs(t, repo.SetStock(ctx, ghost.ID, 1), shared.ErrNotFound)
		assert.ErrorIs(t, repo.ReplaceVariants(ctx, ghost), shared.ErrNotFound)
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	reviews := NewGormReviewRepository(db)

	product := newTestProduct(t, "Sun Hat", "30")
	require.NoError(t, product.SetVariants(nil, []catalog.ColorInput{{Color: "straw", Stock: 1}}))
	require.NoError(t, repo.Create(ctx, product))
	review, err := catalog.NewReview(product.ID, uuid.New(), "bob", 4, "Nice")
	require.NoError(t, err)
	require.NoError(t, reviews.Save(ctx, review))

	require.NoError(t, repo.Delete(ctx, product.ID))

	_, err = repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	var colors int64
	require.NoError(t, db.Model(&catalog.ColorVariant{}).Count(&colors).Error)
	assert.Zero(t, colors)
	_, count, err := reviews.RatingSummary(ctx, product.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(ctx, product.ID), shared.ErrNotFound)
}

func TestGormReviewRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormReviewRepository(newTestDB(t))
	productID := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	for _, r := range []struct {
		user   uuid.UUID
		name   string
		rating int
	}{{alice, "alice", 5}, {bob, "bob", 2}} {
		review, err := catalog.NewReview(productID, r.user, r.name, r.rating, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, review))
	}

	sum, count, err := repo.RatingSummary(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, sum)
	assert.Equal(t, 2, count)

	exists, err := repo.ExistsForUser(ctx, productID, alice)
	require.NoError(t, err)
	assert.True(t, exists)

	dup, err := catalog.NewReview(productID, alice, "alice", 1, "again")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)

	list, total, err := repo.FindByProduct(ctx, productID, shared.Filter{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)
}

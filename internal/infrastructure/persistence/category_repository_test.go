package persistence

import (
	"context"
	"testing"

	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCategoryRepository_Tree(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCategoryRepository(newTestDB(t))

	newCategory := func(name string, parent *catalog.Category) *catalog.Category {
		c, err := catalog.NewCategory(name, "", parent)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))
		return c
	}

	clothing := newCategory("Clothing", nil)
	shoes := newCategory("Shoes", nil)
	tops := newCategory("Tops", clothing)
	tees := newCategory("T-Shirts", tops)

	t.Run("subtree excludes the root", func(t *testing.T) {
		subtree, err := repo.FindSubtree(ctx, clothing)
		require.NoError(t, err)
		require.Len(t, subtree, 2)
		assert.Equal(t, tops.ID, subtree[0].ID)
		assert.Equal(t, tees.ID, subtree[1].ID)
	})

	t.Run("siblings and children", func(t *testing.T) {
		exists, err := repo.ExistsSibling(ctx, &clothing.ID, "  TOPS", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsSibling(ctx, nil, "Tops", nil)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsSibling(ctx, nil, "Shoes", &shoes.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		has, err := repo.HasChildren(ctx, tops.ID)
		require.NoError(t, err)
		assert.True(t, has)
		has, err = repo.HasChildren(ctx, tees.ID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("move rewrites descendant paths", func(t *testing.T) {
		oldPath, err := tops.MoveTo(shoes, 1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tops))
		require.NoError(t, repo.RewritePaths(ctx, oldPath, tops.Path, 0))

		moved, err := repo.FindByID(ctx, tees.ID)
		require.NoError(t, err)
		assert.Equal(t, shoes.ID.String()+"/"+tops.ID.String()+"/"+tees.ID.String(), moved.Path)
		assert.Equal(t, 2, moved.Level)

		subtree, err := repo.FindSubtree(ctx, clothing)
		require.NoError(t, err)
		assert.Empty(t, subtree)
	})

	t.Run("move to root shifts levels", func(t *testing.T) {
		oldPath, err := tops.MoveTo(nil, 1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tops))
		require.NoError(t, repo.RewritePaths(ctx, oldPath, tops.Path, -1))

		moved, err := repo.FindByID(ctx, tees.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, moved.Level)
		assert.Equal(t, tops.ID.String()+"/"+tees.ID.String(), moved.Path)
	})

	t.Run("list ordered by path", func(t *testing.T) {
		all, total, err := repo.FindAll(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, all, 4)

		found, _, err := repo.FindAll(ctx, shared.Filter{Search: "shirt"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, tees.ID, found[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, tees.ID))
		assert.ErrorIs(t, repo.Delete(ctx, tees.ID), shared.ErrNotFound)
	})
}

func TestGormBrandRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormBrandRepository(newTestDB(t))

	acme, err := catalog.NewBrand("Acme", "Outdoor gear", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, acme))

	exists, err := repo.ExistsByName(ctx, "ACME", nil)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByName(ctx, "acme", &acme.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	dup, err := catalog.NewBrand("acme", "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)

	brands, total, err := repo.FindAll(ctx, shared.Filter{Search: "cm"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Acme", brands[0].Name)

	require.NoError(t, repo.Delete(ctx, acme.ID))
	_, err = repo.FindByID(ctx, acme.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates root category", func(t *testing.T) {
		c, err := NewCategory("Shoes", "", nil)
		require.NoError(t, err)
		assert.True(t, c.IsRoot())
		assert.Equal(t, 0, c.Level)
		assert.Equal(t, c.ID.String(), c.Path)
	})

	t.Run("creates child category", func(t *testing.T) {
		root, _ := NewCategory("Shoes", "", nil)
		child, err := NewCategory("Running", "", root)
		require.NoError(t, err)
		assert.Equal(t, &root.ID, child.ParentID)
		assert.Equal(t, 1, child.Level)
		assert.Equal(t, root.Path+"/"+child.ID.String(), child.Path)
		assert.True(t, child.IsDescendantOf(root))
		assert.Equal(t, root.ID, child.AncestorIDs()[0])
	})

	t.Run("rejects depth beyond limit", func(t *testing.T) {
		parent, _ := NewCategory("L0", "", nil)
		for i := 1; i < MaxCategoryDepth; i++ {
			next, err := NewCategory("L", "", parent)
			require.NoError(t, err)
			parent = next
		}
		_, err := NewCategory("too deep", "", parent)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "depth")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCategory(" ", "", nil)
		assert.Error(t, err)
	})
}

func TestCategory_MoveTo(t *testing.T) {
	root, _ := NewCategory("Root", "", nil)
	child, _ := NewCategory("Child", "", root)
	grandchild, _ := NewCategory("Grandchild", "", child)
	other, _ := NewCategory("Other", "", nil)

	t.Run("rejects self as parent", func(t *testing.T) {
		_, err := child.MoveTo(child, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "own parent")
	})

	t.Run("rejects moving under descendant", func(t *testing.T) {
		_, err := root.MoveTo(grandchild, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "descendant")
	})

	t.Run("moves subtree under another root", func(t *testing.T) {
		oldPath, err := child.MoveTo(other, 1)
		require.NoError(t, err)
		assert.Equal(t, root.Path+"/"+child.ID.String(), oldPath)
		assert.Equal(t, other.Path+"/"+child.ID.String(), child.Path)
		assert.Equal(t, 1, child.Level)
	})

	t.Run("rejects move that would exceed depth", func(t *testing.T) {
		deep, _ := NewCategory("D0", "", nil)
		for i := 1; i < MaxCategoryDepth-1; i++ {
			deep, _ = NewCategory("D", "", deep)
		}
		_, err := child.MoveTo(deep, 1)
		require.Error(t, err)
	})

	t.Run("moves to root", func(t *testing.T) {
		_, err := child.MoveTo(nil, 1)
		require.NoError(t, err)
		assert.True(t, child.IsRoot())
		assert.Equal(t, child.ID.String(), child.Path)
	})
}

func TestBrand(t *testing.T) {
	b, err := NewBrand(" Acme ", "desc", "")
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, "acme", b.NormalizedName)

	require.NoError(t, b.Update("Acme Co", "", "https://cdn/logo.png"))
	assert.Equal(t, 2, b.Version)

	_, err = NewBrand("", "", "")
	assert.Error(t, err)
}

func TestNewReview(t *testing.T) {
	p, err := NewProduct("Shoe", "", decimalHundred())
	require.NoError(t, err)

	_, err = NewReview(p.ID, p.ID, "jane", 6, "")
	assert.Error(t, err)

	r, err := NewReview(p.ID, p.ID, "jane", 5, "  great ")
	require.NoError(t, err)
	assert.Equal(t, "great", r.Comment)
}

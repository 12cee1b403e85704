package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	OnSale     *bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product with its variants
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDs finds products with their variants; missing IDs are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	// FindAll returns one page of products and the total count
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	// ExistsByName checks for another product with the same normalized name
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	// Create inserts a product and its variants
	Create(ctx context.Context, product *Product) error
	// Save updates the catalog fields of a product. Stock, variants and the
	// rating summary are not written.
	Save(ctx context.Context, product *Product) error
	// SetStock overwrites the top-level stock
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	// ReplaceVariants replaces the size and color variants, stock included
	ReplaceVariants(ctx context.Context, product *Product) error
	// Delete deletes a product and its variants
	Delete(ctx context.Context, id uuid.UUID) error
	// CountByCategory counts products in a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	// CountByBrand counts products of a brand
	CountByBrand(ctx context.Context, brandID uuid.UUID) (int64, error)
	// AdjustStock adds delta to the stock field named by slot. A decrement
	// that would take stock below zero fails with ErrInsufficientStock and
	// changes nothing.
	AdjustStock(ctx context.Context, slot StockSlot, delta int) error
	// UpdateRating stores the rating summary
	UpdateRating(ctx context.Context, product *Product) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, int64, error)
	// FindSubtree returns the category's descendants (not the category itself)
	FindSubtree(ctx context.Context, category *Category) ([]Category, error)
	// ExistsSibling checks for a sibling with the same normalized name
	ExistsSibling(ctx context.Context, parentID *uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	// RewritePaths updates descendants after a move
	RewritePaths(ctx context.Context, oldPath, newPath string, levelDelta int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, int64, error)
	ExistsForUser(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	Save(ctx context.Context, review *Review) error
	// RatingSummary returns the sum and count of ratings for a product
	RatingSummary(ctx context.Context, productID uuid.UUID) (sum int, count int, err error)
}

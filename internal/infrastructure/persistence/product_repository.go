package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productSortColumns = sortColumns{
	"created_at":  "created_at",
	"updated_at":  "updated_at",
	"name":        "normalized_name",
	"price":       "price",
	"rating":      "rating",
	"num_reviews": "num_reviews",
	"stock":       "stock",
}

// GormProductRepository implements catalog.ProductRepository using GORM.
// Size and color variants live in their own tables and are loaded with the product.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withVariants(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("size ASC") }).
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("color ASC") })
}

// FindByID finds a product with its variants
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.withVariants(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByIDs finds products with their variants; missing IDs are skipped
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.withVariants(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll returns one page of products and the total count
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).Scopes(productConditions(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	query := r.withVariants(ctx).Model(&catalog.Product{}).Scopes(productConditions(filter))
	if err := applyPage(query, filter.Filter, productSortColumns, "created_at DESC, id ASC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func productConditions(filter catalog.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		if filter.CategoryID != nil {
			query = query.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.BrandID != nil {
			query = query.Where("brand_id = ?", *filter.BrandID)
		}
		if filter.OnSale != nil {
			query = query.Where("on_sale = ?", *filter.OnSale)
		}
		return query
	}
}

// ExistsByName checks for another product with the same normalized name
func (r *GormProductRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("normalized_name = ?", catalog.NormalizeName(name))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// productCatalogColumns are the columns Save writes. Stock lives in its own
// write paths so an update built from an earlier read cannot undo a stock
// movement committed in between.
var productCatalogColumns = []string{
	"name", "normalized_name", "description", "price", "sale_price", "on_sale",
	"category_id", "brand_id", "image_url", "images", "version", "updated_at",
}

// Create inserts the product row and its variant rows in one transaction
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return translateError(err)
		}
		return insertVariants(tx, product)
	})
}

// Save updates the product's catalog fields. Stock, variants and the
// rating summary are left untouched.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(product).
		Select(productCatalogColumns).
		Omit(clause.Associations).
		Updates(product)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetStock overwrites the top-level stock
func (r *GormProductRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"stock": stock, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReplaceVariants swaps the product's size and color rows for
// product.Sizes and product.Colors in one transaction
func (r *GormProductRepository) ReplaceVariants(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&catalog.Product{}).Where("id = ?", product.ID).
			Updates(map[string]interface{}{"version": product.Version, "updated_at": product.UpdatedAt})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.SizeVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.ColorVariant{}).Error; err != nil {
			return err
		}
		return insertVariants(tx, product)
	})
}

func insertVariants(tx *gorm.DB, product *catalog.Product) error {
	for i := range product.Sizes {
		product.Sizes[i].ProductID = product.ID
	}
	for i := range product.Colors {
		product.Colors[i].ProductID = product.ID
	}
	if len(product.Sizes) > 0 {
		if err := tx.Create(&product.Sizes).Error; err != nil {
			return translateError(err)
		}
	}
	if len(product.Colors) > 0 {
		if err := tx.Create(&product.Colors).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

// Delete removes a product, its variants and its reviews
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&catalog.SizeVariant{}, &catalog.ColorVariant{}, &catalog.Review{}} {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByCategory counts products in a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountByBrand counts products of a brand
func (r *GormProductRepository) CountByBrand(ctx context.Context, brandID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("brand_id = ?", brandID).Count(&count).Error
	return count, err
}

// AdjustStock applies delta with a single conditional UPDATE so concurrent
// decrements can never take a stock field below zero.
func (r *GormProductRepository) AdjustStock(ctx context.Context, slot catalog.StockSlot, delta int) error {
	db := r.db.WithContext(ctx)
	updates := map[string]interface{}{"stock": gorm.Expr("stock + ?", delta)}

	var where *gorm.DB
	switch slot.Kind {
	case catalog.StockKindSize:
		where = db.Table(catalog.SizeVariant{}.TableName()).Where("id = ? AND product_id = ?", slot.VariantID, slot.ProductID)
	case catalog.StockKindColor:
		where = db.Table(catalog.ColorVariant{}.TableName()).Where("id = ? AND product_id = ?", slot.VariantID, slot.ProductID)
	case catalog.StockKindProduct:
		where = db.Table(catalog.Product{}.TableName()).Where("id = ?", slot.ProductID)
		updates["updated_at"] = time.Now()
	default:
		return fmt.Errorf("unknown stock kind %q", slot.Kind)
	}

	if delta < 0 {
		where = where.Where("stock >= ?", -delta)
	}
	result := where.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if delta < 0 {
			return shared.ErrInsufficientStock
		}
		return shared.ErrNotFound
	}

	if slot.Kind == catalog.StockKindProduct {
		return nil
	}
	return db.Model(&catalog.Product{}).Where("id = ?", slot.ProductID).Update("updated_at", time.Now()).Error
}

// UpdateRating stores the rating summary
func (r *GormProductRepository) UpdateRating(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"rating":      product.Rating,
			"num_reviews": product.NumReviews,
			"updated_at":  product.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var categorySortColumns = sortColumns{
	"created_at": "created_at",
	"name":       "normalized_name",
	"path":       "path",
	"level":      "level",
}

// GormCategoryRepository implements catalog.CategoryRepository using GORM.
// The hierarchy is stored as a materialized path of IDs.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// FindAll returns categories matching the filter. PageSize <= 0 returns all.
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, int64, error) {
	conditions := func(query *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
		}
		return query
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&catalog.Category{}).Scopes(conditions).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []catalog.Category
	query := r.db.WithContext(ctx).Model(&catalog.Category{}).Scopes(conditions)
	if err := applyPage(query, filter, categorySortColumns, "path ASC").Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// FindSubtree returns every descendant of category
func (r *GormCategoryRepository) FindSubtree(ctx context.Context, category *catalog.Category) ([]catalog.Category, error) {
	var categories []catalog.Category
	err := r.db.WithContext(ctx).
		Where("path LIKE ?", category.Path+"/%").
		Order("path ASC").
		Find(&categories).Error
	return categories, err
}

// ExistsSibling checks for a category with the same normalized name under the same parent
func (r *GormCategoryRepository) ExistsSibling(ctx context.Context, parentID *uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Category{}).
		Where("normalized_name = ?", catalog.NormalizeName(name))
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasChildren reports whether any category has id as its parent
func (r *GormCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Category{}).Where("parent_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return translateError(r.db.WithContext(ctx).Save(category).Error)
}

// RewritePaths replaces the oldPath prefix of every descendant with newPath
// and shifts their level by levelDelta
func (r *GormCategoryRepository) RewritePaths(ctx context.Context, oldPath, newPath string, levelDelta int) error {
	return r.db.WithContext(ctx).Model(&catalog.Category{}).
		Where("path LIKE ?", oldPath+"/%").
		Updates(map[string]interface{}{
			"path":       gorm.Expr("? || SUBSTR(path, ?)", newPath, len(oldPath)+1),
			"level":      gorm.Expr("level + ?", levelDelta),
			"updated_at": time.Now(),
		}).Error
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

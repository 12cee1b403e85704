package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var brandSortColumns = sortColumns{
	"created_at": "created_at",
	"name":       "normalized_name",
}

// GormBrandRepository implements catalog.BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByID finds a brand by ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	var brand catalog.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &brand, nil
}

// FindAll returns one page of brands and the total count
func (r *GormBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Brand, int64, error) {
	conditions := func(query *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
		}
		return query
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&catalog.Brand{}).Scopes(conditions).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var brands []catalog.Brand
	query := r.db.WithContext(ctx).Model(&catalog.Brand{}).Scopes(conditions)
	if err := applyPage(query, filter, brandSortColumns, "normalized_name ASC").Find(&brands).Error; err != nil {
		return nil, 0, err
	}
	return brands, total, nil
}

// ExistsByName checks for another brand with the same normalized name
func (r *GormBrandRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Brand{}).
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

// Save creates or updates a brand
func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	return translateError(r.db.WithContext(ctx).Save(brand).Error)
}

// Delete deletes a brand
func (r *GormBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Brand{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.BrandRepository = (*GormBrandRepository)(nil)

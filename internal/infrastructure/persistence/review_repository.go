package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var reviewSortColumns = sortColumns{
	"created_at": "created_at",
	"rating":     "rating",
}

// GormReviewRepository implements catalog.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByProduct returns one page of a product's reviews
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&catalog.Review{}).Where("product_id = ?", productID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []catalog.Review
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if err := applyPage(query, filter, reviewSortColumns, "created_at DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ExistsForUser reports whether the user already reviewed the product
func (r *GormReviewRepository) ExistsForUser(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

// Save inserts a review. The unique (product_id, user_id) index turns a
// concurrent duplicate into ErrAlreadyExists.
func (r *GormReviewRepository) Save(ctx context.Context, review *catalog.Review) error {
	return translateError(r.db.WithContext(ctx).Create(review).Error)
}

// RatingSummary returns the sum and count of ratings for a product
func (r *GormReviewRepository) RatingSummary(ctx context.Context, productID uuid.UUID) (int, int, error) {
	var row struct {
		Total int
		Count int
	}
	err := r.db.WithContext(ctx).Model(&catalog.Review{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Count, nil
}

var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)

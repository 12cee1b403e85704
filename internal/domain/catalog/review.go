package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
)

// Review is a user's rating and comment on a product
type Review struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:1" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:2" json:"user_id"`
	Username  string    `gorm:"type:varchar(50);not null" json:"username"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "product_reviews"
}

// NewReview creates a review with a rating between 1 and 5
func NewReview(productID, userID uuid.UUID, username string, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > 2000 {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 2000 characters")
	}
	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		UserID:     userID,
		Username:   username,
		Rating:     rating,
		Comment:    comment,
	}, nil
}

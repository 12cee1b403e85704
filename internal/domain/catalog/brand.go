package catalog

import (
	"strings"
	"time"

	"github.com/shopapi/backend/internal/domain/shared"
)

// Brand is a product manufacturer or label
type Brand struct {
	shared.BaseAggregateRoot
	Name           string `gorm:"type:varchar(100);not null" json:"name"`
	NormalizedName string `gorm:"type:varchar(100);not null;uniqueIndex" json:"-"`
	Description    string `gorm:"type:text" json:"description"`
	LogoURL        string `gorm:"type:varchar(500)" json:"logo_url"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new brand
func NewBrand(name, description, logoURL string) (*Brand, error) {
	if err := validateBrandName(name); err != nil {
		return nil, err
	}
	return &Brand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		NormalizedName:    NormalizeName(name),
		Description:       description,
		LogoURL:           logoURL,
	}, nil
}

// Update updates the brand
func (b *Brand) Update(name, description, logoURL string) error {
	if err := validateBrandName(name); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.NormalizedName = NormalizeName(name)
	b.Description = description
	b.LogoURL = logoURL
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

func validateBrandName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 100 characters")
	}
	return nil
}

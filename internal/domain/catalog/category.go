package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of category hierarchy
const MaxCategoryDepth = 5

// Category represents a product category.
// Path is a materialized path of ancestor IDs ending with the category's own ID.
type Category struct {
	shared.BaseAggregateRoot
	Name           string     `gorm:"type:varchar(100);not null" json:"name"`
	NormalizedName string     `gorm:"type:varchar(100);not null;index" json:"-"`
	Description    string     `gorm:"type:text" json:"description"`
	ParentID       *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Path           string     `gorm:"type:varchar(500);not null;index" json:"path"`
	Level          int        `gorm:"not null;default:0" json:"level"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category; parent may be nil for a root category
func NewCategory(name, description string, parent *Category) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		NormalizedName:    NormalizeName(name),
		Description:       description,
	}
	category.Path = category.ID.String()

	if parent != nil {
		if parent.Level >= MaxCategoryDepth-1 {
			return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
		}
		category.ParentID = &parent.ID
		category.Level = parent.Level + 1
		category.Path = parent.Path + "/" + category.ID.String()
	}

	return category, nil
}

// Update updates the category's name and description
func (c *Category) Update(name, description string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.NormalizedName = NormalizeName(name)
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MoveTo re-parents the category. subtreeHeight is the number of levels
// below this category (0 for a leaf) and is needed to enforce the depth limit.
// It returns the old path so descendants can be rewritten.
func (c *Category) MoveTo(parent *Category, subtreeHeight int) (string, error) {
	oldPath := c.Path

	if parent == nil {
		if subtreeHeight >= MaxCategoryDepth {
			return "", shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
		}
		c.ParentID = nil
		c.Level = 0
		c.Path = c.ID.String()
	} else {
		if parent.ID == c.ID {
			return "", shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
		}
		if parent.IsDescendantOf(c) {
			return "", shared.NewDomainError("INVALID_PARENT", "Category cannot be moved under its own descendant")
		}
		if parent.Level+1+subtreeHeight >= MaxCategoryDepth {
			return "", shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
		}
		c.ParentID = &parent.ID
		c.Level = parent.Level + 1
		c.Path = parent.Path + "/" + c.ID.String()
	}

	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return oldPath, nil
}

// IsRoot returns true if the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsDescendantOf reports whether c sits anywhere under other
func (c *Category) IsDescendantOf(other *Category) bool {
	return strings.HasPrefix(c.Path, other.Path+"/")
}

// AncestorIDs returns the IDs of all ancestors, root first
func (c *Category) AncestorIDs() []uuid.UUID {
	parts := strings.Split(c.Path, "/")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts[:len(parts)-1] {
		if id, err := uuid.Parse(part); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}

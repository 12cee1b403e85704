package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents an item in the catalog.
// When Sizes or Colors are defined, stock is tracked per variant and the
// top-level Stock field is not consulted for those selectors.
type Product struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null" json:"name"`
	NormalizedName string          `gorm:"type:varchar(200);not null;uniqueIndex" json:"-"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"sale_price"`
	OnSale         bool            `gorm:"not null;default:false" json:"on_sale"`
	Stock          int             `gorm:"not null;default:0" json:"stock"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	BrandID        *uuid.UUID      `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	ImageURL       string          `gorm:"type:varchar(500)" json:"image_url"`
	Images         []string        `gorm:"serializer:json;type:text" json:"images"`
	Rating         decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	NumReviews     int             `gorm:"not null;default:0" json:"num_reviews"`
	Sizes          []SizeVariant   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes"`
	Colors         []ColorVariant  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"colors"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// SizeVariant is a size option carrying its own stock
type SizeVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Size      string    `gorm:"type:varchar(50);not null" json:"size"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
}

// TableName returns the table name for GORM
func (SizeVariant) TableName() string {
	return "product_sizes"
}

// ColorVariant is a color option carrying its own stock
type ColorVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Color     string    `gorm:"type:varchar(50);not null" json:"color"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
}

// TableName returns the table name for GORM
func (ColorVariant) TableName() string {
	return "product_colors"
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		NormalizedName:    NormalizeName(name),
		Description:       description,
		Price:             price,
		SalePrice:         decimal.Zero,
		Rating:            decimal.Zero,
		Images:            []string{},
	}, nil
}

// Update updates the product's basic information and price
func (p *Product) Update(name, description string, price decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if p.OnSale && !p.SalePrice.LessThan(price) {
		// keep the sale valid against the new price
		p.OnSale = false
	}

	p.Name = strings.TrimSpace(name)
	p.NormalizedName = NormalizeName(name)
	p.Description = description
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetSale puts the product on sale at salePrice, or takes it off sale
func (p *Product) SetSale(onSale bool, salePrice decimal.Decimal) error {
	if onSale {
		if !salePrice.IsPositive() {
			return shared.NewDomainError("INVALID_PRICE", "Sale price must be positive")
		}
		if !salePrice.LessThan(p.Price) {
			return shared.NewDomainError("INVALID_PRICE", "Sale price must be lower than price")
		}
	}
	p.OnSale = onSale
	p.SalePrice = salePrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SalePriceSnapshot returns the sale price to capture into carts and
// orders, or nil when the product is not on sale
func (p *Product) SalePriceSnapshot() *decimal.Decimal {
	if !p.OnSale {
		return nil
	}
	sp := p.SalePrice
	return &sp
}

// EffectivePrice returns the price a buyer pays for one unit
func (p *Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.Price, p.SalePriceSnapshot())
}

// SetStock sets the top-level stock
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SizeInput describes one size variant to set
type SizeInput struct {
	Size  string
	Stock int
}

// ColorInput describes one color variant to set
type ColorInput struct {
	Color string
	Stock int
}

// SetVariants replaces the size and color variants
func (p *Product) SetVariants(sizes []SizeInput, colors []ColorInput) error {
	seen := make(map[string]bool)
	newSizes := make([]SizeVariant, 0, len(sizes))
	for _, s := range sizes {
		label := strings.TrimSpace(s.Size)
		if label == "" {
			return shared.NewDomainError("INVALID_VARIANT", "Size cannot be empty")
		}
		if s.Stock < 0 {
			return shared.NewDomainError("INVALID_STOCK", "Variant stock cannot be negative")
		}
		if seen[label] {
			return shared.NewDomainError("INVALID_VARIANT", fmt.Sprintf("Duplicate size %q", label))
		}
		seen[label] = true
		newSizes = append(newSizes, SizeVariant{ID: uuid.New(), ProductID: p.ID, Size: label, Stock: s.Stock})
	}

	seen = make(map[string]bool)
	newColors := make([]ColorVariant, 0, len(colors))
	for _, c := range colors {
		label := strings.TrimSpace(c.Color)
		if label == "" {
			return shared.NewDomainError("INVALID_VARIANT", "Color cannot be empty")
		}
		if c.Stock < 0 {
			return shared.NewDomainError("INVALID_STOCK", "Variant stock cannot be negative")
		}
		if seen[label] {
			return shared.NewDomainError("INVALID_VARIANT", fmt.Sprintf("Duplicate color %q", label))
		}
		seen[label] = true
		newColors = append(newColors, ColorVariant{ID: uuid.New(), ProductID: p.ID, Color: label, Stock: c.Stock})
	}

	p.Sizes = newSizes
	p.Colors = newColors
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// HasVariants reports whether stock is tracked per variant
func (p *Product) HasVariants() bool {
	return len(p.Sizes) > 0 || len(p.Colors) > 0
}

// TotalStock returns the sum of all variant stock, or the top-level stock
// when the product has no variants
func (p *Product) TotalStock() int {
	if !p.HasVariants() {
		return p.Stock
	}
	total := 0
	for _, s := range p.Sizes {
		total += s.Stock
	}
	for _, c := range p.Colors {
		total += c.Stock
	}
	return total
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
}

// SetBrand sets the product brand
func (p *Product) SetBrand(brandID *uuid.UUID) {
	p.BrandID = brandID
	p.UpdatedAt = time.Now()
}

// AddImage appends an image URL; the first image becomes the main image
func (p *Product) AddImage(url string) {
	if p.ImageURL == "" {
		p.ImageURL = url
	}
	p.Images = append(p.Images, url)
	p.UpdatedAt = time.Now()
}

// ApplyRating sets the rating summary from the sum of all review ratings
func (p *Product) ApplyRating(sum, count int) {
	p.NumReviews = count
	if count == 0 {
		p.Rating = decimal.Zero
	} else {
		p.Rating = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count))).Round(2)
	}
	p.UpdatedAt = time.Now()
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

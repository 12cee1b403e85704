package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// VariantInput is a size or color option with its stock
type VariantInput struct {
	Value string `json:"value" binding:"required,max=50"`
	Stock int    `json:"stock" binding:"min=0"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	OnSale      bool             `json:"on_sale"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Stock       int              `json:"stock" binding:"min=0"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	BrandID     *uuid.UUID       `json:"brand_id"`
	Images      []string         `json:"images" binding:"omitempty,max=20,dive,url"`
	Sizes       []VariantInput   `json:"sizes" binding:"omitempty,dive"`
	Colors      []VariantInput   `json:"colors" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	OnSale      *bool            `json:"on_sale"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	BrandID     *uuid.UUID       `json:"brand_id"`
}

// SetVariantsRequest replaces a product's size and color variants
type SetVariantsRequest struct {
	Sizes  []VariantInput `json:"sizes" binding:"omitempty,dive"`
	Colors []VariantInput `json:"colors" binding:"omitempty,dive"`
}

// ProductListFilter represents filter options for product list.
// The id filters are parsed by the handler, not by form binding.
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"-"`
	BrandID    *uuid.UUID `form:"-"`
	OnSale     *bool      `form:"on_sale"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VariantResponse is a size or color in API responses
type VariantResponse struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
	Stock int       `json:"stock"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	OnSale         bool              `json:"on_sale"`
	SalePrice      *decimal.Decimal  `json:"sale_price,omitempty"`
	EffectivePrice decimal.Decimal   `json:"effective_price"`
	Stock          int               `json:"stock"`
	TotalStock     int               `json:"total_stock"`
	CategoryID     *uuid.UUID        `json:"category_id,omitempty"`
	BrandID        *uuid.UUID        `json:"brand_id,omitempty"`
	ImageURL       string            `json:"image_url"`
	Images         []string          `json:"images"`
	Rating         decimal.Decimal   `json:"rating"`
	NumReviews     int               `json:"num_reviews"`
	Sizes          []VariantResponse `json:"sizes"`
	Colors         []VariantResponse `json:"colors"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	sizes := make([]VariantResponse, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = VariantResponse{ID: s.ID, Value: s.Size, Stock: s.Stock}
	}
	colors := make([]VariantResponse, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = VariantResponse{ID: c.ID, Value: c.Color, Stock: c.Stock}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		OnSale:         p.OnSale,
		SalePrice:      p.SalePriceSnapshot(),
		EffectivePrice: p.EffectivePrice(),
		Stock:          p.Stock,
		TotalStock:     p.TotalStock(),
		CategoryID:     p.CategoryID,
		BrandID:        p.BrandID,
		ImageURL:       p.ImageURL,
		Images:         images,
		Rating:         p.Rating,
		NumReviews:     p.NumReviews,
		Sizes:          sizes,
		Colors:         colors,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// CreateReviewRequest represents a product review submission
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ToReviewResponse converts a domain Review
func ToReviewResponse(r *catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Username:  r.Username,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// ImageUploadResponse is returned after a product image upload
type ImageUploadResponse struct {
	URL     string          `json:"url"`
	Product ProductResponse `json:"product"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a category update. MoveToRoot detaches
// the category from its parent; ParentID moves it under another category.
type UpdateCategoryRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
	MoveToRoot  bool       `json:"move_to_root"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Level       int        `json:"level"`
	Path        string     `json:"path"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CategoryTreeNode is a category with its children
type CategoryTreeNode struct {
	CategoryResponse
	Children []*CategoryTreeNode `json:"children"`
}

// ToCategoryResponse converts a domain Category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Level:       c.Level,
		Path:        c.Path,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// BrandRequest represents a brand create or update
type BrandRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	LogoURL     string `json:"logo_url" binding:"omitempty,url,max=500"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToBrandResponse converts a domain Brand
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ListQuery is the common pagination query for simple listings
type ListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

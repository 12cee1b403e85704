package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AllowedImageTypes is the whitelist of product image content types.
// SVG is excluded because it can carry script.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStorage stores product images and resolves their public URLs.
// Implemented by the infrastructure layer (S3 or local disk).
type ImageStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
	reviewRepo   catalog.ReviewRepository
	storage      ImageStorage
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
	reviewRepo catalog.ReviewRepository,
	storage ImageStorage,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		reviewRepo:   reviewRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
	}

	if err := s.checkReferences(ctx, req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Description, req.Price)
	if err != nil {
		return nil, err
	}

	if req.OnSale {
		salePrice := decimal.Zero
		if req.SalePrice != nil {
			salePrice = *req.SalePrice
		}
		if err := product.SetSale(true, salePrice); err != nil {
			return nil, err
		}
	}

	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}
	if len(req.Sizes) > 0 || len(req.Colors) > 0 {
		if err := product.SetVariants(toSizeInputs(req.Sizes), toColorInputs(req.Colors)); err != nil {
			return nil, err
		}
	}

	product.SetCategory(req.CategoryID)
	product.SetBrand(req.BrandID)
	for _, url := range req.Images {
		product.AddImage(url)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	products, total, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		CategoryID: filter.CategoryID,
		BrandID:    filter.BrandID,
		OnSale:     filter.OnSale,
	})
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
		if catalog.NormalizeName(name) != product.NormalizedName {
			exists, err := s.productRepo.ExistsByName(ctx, name, &product.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
			}
		}
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	price := product.Price
	if req.Price != nil {
		price = *req.Price
	}
	if err := product.Update(name, description, price); err != nil {
		return nil, err
	}

	if req.OnSale != nil || req.SalePrice != nil {
		onSale := product.OnSale
		if req.OnSale != nil {
			onSale = *req.OnSale
		}
		salePrice := product.SalePrice
		if req.SalePrice != nil {
			salePrice = *req.SalePrice
		}
		if err := product.SetSale(onSale, salePrice); err != nil {
			return nil, err
		}
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil || req.BrandID != nil {
		if err := s.checkReferences(ctx, req.CategoryID, req.BrandID); err != nil {
			return nil, err
		}
		if req.CategoryID != nil {
			product.SetCategory(req.CategoryID)
		}
		if req.BrandID != nil {
			product.SetBrand(req.BrandID)
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if req.Stock != nil {
		if err := s.productRepo.SetStock(ctx, product.ID, product.Stock); err != nil {
			return nil, err
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// SetVariants replaces a product's size and color variants
func (s *ProductService) SetVariants(ctx context.Context, id uuid.UUID, req SetVariantsRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.SetVariants(toSizeInputs(req.Sizes), toColorInputs(req.Colors)); err != nil {
		return nil, err
	}
	if err := s.productRepo.ReplaceVariants(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// UploadImage stores an image and appends its URL to the product
func (s *ProductService) UploadImage(ctx context.Context, id uuid.UUID, fileName, contentType string, data []byte) (*ImageUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Image storage is not configured")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", fmt.Sprintf("Content type %q is not allowed", contentType))
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := imageKey(product.ID, fileName, ext)
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload product image: %w", err)
	}

	url := s.storage.PublicURL(key)
	product.AddImage(url)
	if err := s.productRepo.Save(ctx, product); err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned product image",
				zap.String("key", key),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.logger.Info("product image uploaded",
		zap.String("product_id", product.ID.String()),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return &ImageUploadResponse{URL: url, Product: ToProductResponse(product)}, nil
}

// AddReview records a user's review and refreshes the product rating
func (s *ProductService) AddReview(ctx context.Context, productID, userID uuid.UUID, username string, req CreateReviewRequest) (*ReviewResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForUser(ctx, productID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "Product already reviewed by this user")
	}

	review, err := catalog.NewReview(productID, userID, username, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}

	sum, count, err := s.reviewRepo.RatingSummary(ctx, productID)
	if err != nil {
		return nil, err
	}
	product.ApplyRating(sum, count)
	if err := s.productRepo.UpdateRating(ctx, product); err != nil {
		return nil, err
	}

	response := ToReviewResponse(review)
	return &response, nil
}

// ListReviews retrieves a page of reviews for a product
func (s *ProductService) ListReviews(ctx context.Context, productID uuid.UUID, query ListQuery) ([]ReviewResponse, int64, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviewRepo.FindByProduct(ctx, productID, listFilter(query))
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ToReviewResponse(&reviews[i])
	}
	return out, total, nil
}

func (s *ProductService) checkReferences(ctx context.Context, categoryID, brandID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return err
		}
	}
	if brandID != nil {
		if _, err := s.brandRepo.FindByID(ctx, *brandID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_BRAND", "Brand not found")
			}
			return err
		}
	}
	return nil
}

func imageKey(productID uuid.UUID, fileName, ext string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
	if base == "" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("products/%s/%s-%s%s", productID, uuid.New().String()[:8], base, ext)
}

func toSizeInputs(in []VariantInput) []catalog.SizeInput {
	out := make([]catalog.SizeInput, len(in))
	for i, v := range in {
		out[i] = catalog.SizeInput{Size: v.Value, Stock: v.Stock}
	}
	return out
}

func toColorInputs(in []VariantInput) []catalog.ColorInput {
	out := make([]catalog.ColorInput, len(in))
	for i, v := range in {
		out[i] = catalog.ColorInput{Color: v.Value, Stock: v.Stock}
	}
	return out
}

func listFilter(query ListQuery) shared.Filter {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.Search = query.Search
	return filter
}

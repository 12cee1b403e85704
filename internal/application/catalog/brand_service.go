package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
)

// BrandService handles brand-related business operations
type BrandService struct {
	brandRepo   catalog.BrandRepository
	productRepo catalog.ProductRepository
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository, productRepo catalog.ProductRepository) *BrandService {
	return &BrandService{
		brandRepo:   brandRepo,
		productRepo: productRepo,
	}
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, req BrandRequest) (*BrandResponse, error) {
	exists, err := s.brandRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this name already exists")
	}

	brand, err := catalog.NewBrand(req.Name, req.Description, req.LogoURL)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	response := ToBrandResponse(brand)
	return &response, nil
}

// GetByID retrieves a brand by ID
func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// List retrieves a page of brands
func (s *BrandService) List(ctx context.Context, query ListQuery) ([]BrandResponse, int64, error) {
	filter := listFilter(query)
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	brands, total, err := s.brandRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]BrandResponse, len(brands))
	for i := range brands {
		out[i] = ToBrandResponse(&brands[i])
	}
	return out, total, nil
}

// Update updates a brand
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req BrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if catalog.NormalizeName(req.Name) != brand.NormalizedName {
		exists, err := s.brandRepo.ExistsByName(ctx, req.Name, &brand.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this name already exists")
		}
	}

	if err := brand.Update(req.Name, req.Description, req.LogoURL); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	response := ToBrandResponse(brand)
	return &response, nil
}

// Delete deletes a brand that no product references
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brandRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.productRepo.CountByBrand(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("BRAND_IN_USE", "Cannot delete a brand that is referenced by products")
	}

	return s.brandRepo.Delete(ctx, id)
}

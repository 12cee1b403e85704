package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new category, optionally under a parent
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	var parent *catalog.Category
	if req.ParentID != nil {
		p, err := s.findParent(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		parent = p
	}

	if err := s.checkSiblingName(ctx, req.ParentID, req.Name, nil); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, req.Description, parent)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves a page of categories
func (s *CategoryService) List(ctx context.Context, query ListQuery) ([]CategoryResponse, int64, error) {
	filter := listFilter(query)
	filter.OrderBy = "path"
	filter.OrderDir = "asc"

	categories, total, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, total, nil
}

// Tree returns all categories arranged under their parents
func (s *CategoryService) Tree(ctx context.Context) ([]*CategoryTreeNode, error) {
	// PageSize 0 loads every row
	categories, _, err := s.categoryRepo.FindAll(ctx, shared.Filter{OrderBy: "path", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	return buildTree(categories), nil
}

// Update renames a category and optionally moves it to another parent
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	targetParentID := category.ParentID
	moving := false
	var newParent *catalog.Category
	switch {
	case req.MoveToRoot:
		moving = category.ParentID != nil
		targetParentID = nil
	case req.ParentID != nil && (category.ParentID == nil || *category.ParentID != *req.ParentID):
		if *req.ParentID == category.ID {
			return nil, shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
		}
		newParent, err = s.findParent(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		moving = true
		targetParentID = req.ParentID
	}

	name := category.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := category.Description
	if req.Description != nil {
		description = *req.Description
	}
	if moving || catalog.NormalizeName(name) != category.NormalizedName {
		if err := s.checkSiblingName(ctx, targetParentID, name, &category.ID); err != nil {
			return nil, err
		}
	}
	if err := category.Update(name, description); err != nil {
		return nil, err
	}

	if !moving {
		if err := s.categoryRepo.Save(ctx, category); err != nil {
			return nil, err
		}
		response := ToCategoryResponse(category)
		return &response, nil
	}

	descendants, err := s.categoryRepo.FindSubtree(ctx, category)
	if err != nil {
		return nil, err
	}
	height := 0
	for _, d := range descendants {
		if h := d.Level - category.Level; h > height {
			height = h
		}
	}

	oldLevel := category.Level
	oldPath, err := category.MoveTo(newParent, height)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	if len(descendants) > 0 {
		if err := s.categoryRepo.RewritePaths(ctx, oldPath, category.Path, category.Level-oldLevel); err != nil {
			return nil, err
		}
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete deletes a category that has no children and no products
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("CATEGORY_HAS_CHILDREN", "Cannot delete a category that has child categories")
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CATEGORY_HAS_PRODUCTS", "Cannot delete a category that has products")
	}

	return s.categoryRepo.Delete(ctx, id)
}

func (s *CategoryService) findParent(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	parent, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
		}
		return nil, err
	}
	return parent, nil
}

func (s *CategoryService) checkSiblingName(ctx context.Context, parentID *uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsSibling(ctx, parentID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists under the same parent")
	}
	return nil
}

func buildTree(categories []catalog.Category) []*CategoryTreeNode {
	nodes := make(map[uuid.UUID]*CategoryTreeNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryTreeNode{
			CategoryResponse: ToCategoryResponse(&categories[i]),
			Children:         []*CategoryTreeNode{},
		}
	}

	roots := make([]*CategoryTreeNode, 0)
	for i := range categories {
		node := nodes[categories[i].ID]
		if categories[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*categories[i].ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

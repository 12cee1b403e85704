package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopapi/backend/internal/application/catalog"
	"github.com/shopapi/backend/internal/interfaces/http/dto"
	"github.com/shopapi/backend/internal/interfaces/http/middleware"
)

// ImageFormField is the multipart field carrying a product image
const ImageFormField = "image"

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	maxUploadSize  int64
}

// NewProductHandler creates a new ProductHandler. Uploaded images larger
// than maxUploadSize bytes are rejected.
func NewProductHandler(productService *catalogapp.ProductService, maxUploadSize int64) *ProductHandler {
	return &ProductHandler{productService: productService, maxUploadSize: maxUploadSize}
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "Name search"
// @Param        category_id query string false "Category ID"
// @Param        brand_id query string false "Brand ID"
// @Param        on_sale query bool false "Only products on sale"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.CategoryID, ok = h.QueryUUID(c, "category_id"); !ok {
		return
	}
	if filter.BrandID, ok = h.QueryUUID(c, "brand_id"); !ok {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetVariants godoc
// @Summary      Replace size and color variants
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.SetVariantsRequest true "Variants"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Router       /products/{id}/variants [put]
func (h *ProductHandler) SetVariants(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetVariantsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.SetVariants(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage godoc
// @Summary      Upload a product image
// @Description  Accepts JPEG, PNG, GIF or WebP. The type is detected from the file content.
// @Tags         products
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        image formData file true "Image file"
// @Success      201 {object} dto.Response{data=catalogapp.ImageUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/images [post]
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile(ImageFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Image exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, "Missing image file in field \""+ImageFormField+"\"")
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Image exceeds maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	contentType := http.DetectContentType(data)
	result, err := h.productService.UploadImage(c.Request.Context(), id, fileHeader.Filename, contentType, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// AddReview godoc
// @Summary      Review a product
// @Description  One review per user per product. The product rating is recomputed.
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.CreateReviewRequest true "Review"
// @Success      201 {object} dto.Response{data=catalogapp.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews [post]
func (h *ProductHandler) AddReview(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.CreateReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	review, err := h.productService.AddReview(c.Request.Context(), id, userID, middleware.GetJWTUsername(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, review)
}

// ListReviews godoc
// @Summary      List product reviews
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.ReviewResponse}
// @Router       /products/{id}/reviews [get]
func (h *ProductHandler) ListReviews(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var query catalogapp.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	reviews, total, err := h.productService.ListReviews(c.Request.Context(), id, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, reviews, total, query.Page, query.PageSize)
}

package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopapi/backend/internal/application/catalog"
)

// BrandHandler handles brand-related API endpoints
type BrandHandler struct {
	BaseHandler
	brandService *catalogapp.BrandService
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brandService *catalogapp.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// List godoc
// @Summary      List brands
// @Tags         brands
// @Produce      json
// @Param        search query string false "Name search"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.BrandResponse}
// @Router       /brands [get]
func (h *BrandHandler) List(c *gin.Context) {
	var query catalogapp.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	brands, total, err := h.brandService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, brands, total, query.Page, query.PageSize)
}

// Get godoc
// @Summary      Get a brand
// @Tags         brands
// @Produce      json
// @Param        id path string true "Brand ID"
// @Success      200 {object} dto.Response{data=catalogapp.BrandResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /brands/{id} [get]
func (h *BrandHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	brand, err := h.brandService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Create godoc
// @Summary      Create a brand
// @Tags         brands
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.BrandRequest true "Brand"
// @Success      201 {object} dto.Response{data=catalogapp.BrandResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /brands [post]
func (h *BrandHandler) Create(c *gin.Context) {
	var req catalogapp.BrandRequest
	if !h.BindJSON(c, &req) {
		return
	}

	brand, err := h.brandService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// Update godoc
// @Summary      Update a brand
// @Tags         brands
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Brand ID"
// @Param        request body catalogapp.BrandRequest true "Brand"
// @Success      200 {object} dto.Response{data=catalogapp.BrandResponse}
// @Router       /brands/{id} [put]
func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.BrandRequest
	if !h.BindJSON(c, &req) {
		return
	}

	brand, err := h.brandService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Delete godoc
// @Summary      Delete a brand
// @Description  Rejected while products reference the brand.
// @Tags         brands
// @Security     BearerAuth
// @Param        id path string true "Brand ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /brands/{id} [delete]
func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

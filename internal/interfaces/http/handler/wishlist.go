package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/shopapi/backend/internal/application/cart"
)

// WishlistHandler serves the authenticated user's wishlist
type WishlistHandler struct {
	BaseHandler
	wishlistService *cartapp.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService *cartapp.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// Get godoc
// @Summary      Get the wishlist
// @Tags         wishlist
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.WishlistResponse}
// @Router       /wishlist [get]
func (h *WishlistHandler) Get(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	wishlist, err := h.wishlistService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wishlist)
}

// Add godoc
// @Summary      Add a product
// @Description  Adding a product already on the wishlist is a no-op.
// @Tags         wishlist
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body cartapp.WishlistRequest true "Product"
// @Success      200 {object} dto.Response{data=cartapp.WishlistResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /wishlist [post]
func (h *WishlistHandler) Add(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req cartapp.WishlistRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wishlist, err := h.wishlistService.Add(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wishlist)
}

// Remove godoc
// @Summary      Remove a product
// @Tags         wishlist
// @Security     BearerAuth
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Success      200 {object} dto.Response{data=cartapp.WishlistResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /wishlist/{product_id} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.ParamUUID(c, "product_id")
	if !ok {
		return
	}

	wishlist, err := h.wishlistService.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wishlist)
}

// Clear godoc
// @Summary      Empty the wishlist
// @Tags         wishlist
// @Security     BearerAuth
// @Success      204
// @Router       /wishlist [delete]
func (h *WishlistHandler) Clear(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.wishlistService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

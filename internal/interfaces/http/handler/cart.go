package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/shopapi/backend/internal/application/cart"
)

// CartHandler serves the authenticated user's cart
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @Summary      Get the cart
// @Tags         cart
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add an item
// @Description  Adds to the line with the same product, size and color, or appends a new line.
// @Tags         cart
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddItemRequest true "Item"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateQuantity godoc
// @Summary      Set a line quantity
// @Description  A quantity of zero or less removes the line.
// @Tags         cart
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body cartapp.UpdateQuantityRequest true "Line and quantity"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req cartapp.UpdateQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove a line
// @Tags         cart
// @Security     BearerAuth
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        size query string false "Size"
// @Param        color query string false "Color"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items/{product_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.ParamUUID(c, "product_id")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, cartapp.LineSelector{
		ProductID: productID,
		Size:      c.Query("size"),
		Color:     c.Query("color"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Clear(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

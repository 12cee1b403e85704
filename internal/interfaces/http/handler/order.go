package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/shopapi/backend/internal/application/trade"
	"github.com/shopapi/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order placement, queries and admin status changes
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @Summary      Place an order
// @Description  Orders the given item, or the whole cart when no item is given.
// @Description  Stock is checked and reserved in the same transaction as the order write.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// ListMine godoc
// @Summary      List own orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "Order status"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var query tradeapp.OrderListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	orders, total, err := h.orderService.ListMine(c.Request.Context(), userID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, query.Page, query.PageSize)
}

// Get godoc
// @Summary      Get an order
// @Description  Visible to its owner and to administrators.
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListAll godoc
// @Summary      List all orders
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "Order status"
// @Param        payment_status query string false "Payment status"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Router       /admin/orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	var query tradeapp.OrderListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	orders, total, err := h.orderService.ListAll(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, query.Page, query.PageSize)
}

// UpdateStatus godoc
// @Summary      Set the order status
// @Description  Moving to cancelled restores stock. Any other change has no stock effect.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.UpdateStatusRequest true "Status"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdatePaymentStatus godoc
// @Summary      Set the payment status
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.UpdateStatusRequest true "Payment status"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/orders/{id}/payment-status [put]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an order
// @Description  Restores stock for every line, then removes the order.
// @Tags         admin
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *OrderHandler) actor(c *gin.Context) (tradeapp.Actor, bool) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return tradeapp.Actor{}, false
	}
	return tradeapp.Actor{
		UserID:   userID,
		IsAdmin:  middleware.IsAdmin(c),
		ClientIP: c.ClientIP(),
	}, true
}

package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared/valueobject"
	"github.com/shopapi/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// DirectItem is a single product bought without going through the cart
type DirectItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
	Size      string    `json:"size" binding:"max=50"`
	Color     string    `json:"color" binding:"max=50"`
}

// CreateOrderRequest places an order. Without Item the user's cart is used.
type CreateOrderRequest struct {
	Item            *DirectItem            `json:"item"`
	ShippingAddress valueobject.AddressDTO `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required,max=30"`
}

// UpdateStatusRequest sets an order or payment status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListQuery represents filter options for order lists
type OrderListQuery struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Actor identifies who performs an administrative change
type Actor struct {
	UserID   uuid.UUID
	IsAdmin  bool
	ClientIP string
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ProductID uuid.UUID        `json:"product_id"`
	Name      string           `json:"name"`
	Image     string           `json:"image"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	Quantity  int              `json:"quantity"`
	Size      string           `json:"size"`
	Color     string           `json:"color"`
	LineTotal decimal.Decimal  `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	UserID          uuid.UUID              `json:"user_id"`
	Items           []OrderItemResponse    `json:"items"`
	ShippingAddress valueobject.AddressDTO `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	OrderStatus     string                 `json:"order_status"`
	PaymentStatus   string                 `json:"payment_status"`
	PaidAt          *time.Time             `json:"paid_at,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
}

// ToOrderResponse converts a domain Order
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			SalePrice: item.SalePricePtr(),
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			LineTotal: item.LineTotal(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: o.ShippingAddress.ToDTO(),
		PaymentMethod:   o.PaymentMethod,
		TotalAmount:     o.TotalAmount,
		OrderStatus:     o.OrderStatus.String(),
		PaymentStatus:   string(o.PaymentStatus),
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

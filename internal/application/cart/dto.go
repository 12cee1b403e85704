package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product variant to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
	Size      string    `json:"size" binding:"max=50"`
	Color     string    `json:"color" binding:"max=50"`
}

// LineSelector identifies a cart line
type LineSelector struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"max=50"`
	Color     string    `json:"color" binding:"max=50"`
}

// Key converts the selector into a domain line key
func (s LineSelector) Key() cart.LineKey {
	return cart.LineKey{ProductID: s.ProductID, Size: s.Size, Color: s.Color}
}

// UpdateQuantityRequest sets a line quantity. Zero or below removes the line.
type UpdateQuantityRequest struct {
	LineSelector
	Quantity int `json:"quantity" binding:"max=999"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ProductID      uuid.UUID        `json:"product_id"`
	Name           string           `json:"name"`
	Image          string           `json:"image"`
	Price          decimal.Decimal  `json:"price"`
	SalePrice      *decimal.Decimal `json:"sale_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Quantity       int              `json:"quantity"`
	Size           string           `json:"size"`
	Color          string           `json:"color"`
	LineTotal      decimal.Decimal  `json:"line_total"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"user_id"`
	Items      []CartItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ToCartResponse converts a domain Cart
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		sp := item.SalePricePtr()
		effective := item.Price
		if item.Quantity > 0 {
			effective = item.LineTotal().Div(decimal.NewFromInt(int64(item.Quantity)))
		}
		items[i] = CartItemResponse{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Image:          item.Image,
			Price:          item.Price,
			SalePrice:      sp,
			EffectivePrice: effective,
			Quantity:       item.Quantity,
			Size:           item.Size,
			Color:          item.Color,
			LineTotal:      item.LineTotal(),
		}
	}
	return CartResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      items,
		ItemCount:  c.ItemCount(),
		TotalPrice: c.TotalPrice,
		UpdatedAt:  c.UpdatedAt,
	}
}

// WishlistRequest names a product to add to the wishlist
type WishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// WishlistProduct is a wishlist entry joined with current product data.
// Name and price are empty when the product has since been deleted.
type WishlistProduct struct {
	ProductID      uuid.UUID        `json:"product_id"`
	Name           string           `json:"name,omitempty"`
	ImageURL       string           `json:"image_url,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	EffectivePrice *decimal.Decimal `json:"effective_price,omitempty"`
	Available      bool             `json:"available"`
	AddedAt        time.Time        `json:"added_at"`
}

// WishlistResponse represents a wishlist in API responses
type WishlistResponse struct {
	UserID uuid.UUID         `json:"user_id"`
	Items  []WishlistProduct `json:"items"`
}

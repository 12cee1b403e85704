package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. An empty Size or Color is a distinct
// selector value, not a wildcard.
type LineKey struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// Cart is a user's shopping cart. There is exactly one cart per user.
type Cart struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items      []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_price"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a cart line with prices captured when it was added
type CartItem struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CartID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string              `gorm:"type:varchar(200);not null" json:"name"`
	Image     string              `gorm:"type:varchar(500)" json:"image"`
	Price     decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"price"`
	SalePrice decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"sale_price"`
	Quantity  int                 `gorm:"not null" json:"quantity"`
	Size      string              `gorm:"type:varchar(50);not null;default:''" json:"size"`
	Color     string              `gorm:"type:varchar(50);not null;default:''" json:"color"`
	Position  int                 `gorm:"not null;default:0" json:"-"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Key returns the line's uniqueness key
func (i CartItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, Size: i.Size, Color: i.Color}
}

// SalePricePtr returns the captured sale price or nil
func (i CartItem) SalePricePtr() *decimal.Decimal {
	if !i.SalePrice.Valid {
		return nil
	}
	sp := i.SalePrice.Decimal
	return &sp
}

// LineTotal returns effective price times quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return catalog.LineTotal(i.Price, i.SalePricePtr(), i.Quantity)
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             []CartItem{},
		TotalPrice:        decimal.Zero,
	}
}

// AddItem adds quantity of the selected product variant. If a line with the
// same key exists its quantity grows; otherwise a new line captures the
// product's current name, image and prices. The resulting line quantity is
// checked against the resolved stock.
func (c *Cart) AddItem(product *catalog.Product, quantity int, size, color string) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	key := LineKey{ProductID: product.ID, Size: size, Color: color}
	if idx := c.indexOf(key); idx >= 0 {
		newQty := c.Items[idx].Quantity + quantity
		if err := product.CheckAvailable(size, color, newQty); err != nil {
			return err
		}
		c.Items[idx].Quantity = newQty
	} else {
		if err := product.CheckAvailable(size, color, quantity); err != nil {
			return err
		}
		c.Items = append(c.Items, CartItem{
			ID:        uuid.New(),
			CartID:    c.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.ImageURL,
			Price:     product.Price,
			SalePrice: toNullDecimal(product.SalePriceSnapshot()),
			Quantity:  quantity,
			Size:      size,
			Color:     color,
		})
	}

	c.touch()
	return nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or below removes the line. product is used for the stock check and may be
// nil only when removing.
func (c *Cart) UpdateQuantity(key LineKey, quantity int, product *catalog.Product) error {
	idx := c.indexOf(key)
	if idx < 0 {
		return shared.NewDomainError("CART_ITEM_NOT_FOUND", "Item not found in cart")
	}

	if quantity <= 0 {
		c.removeAt(idx)
		c.touch()
		return nil
	}

	if product == nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product no longer exists")
	}
	if err := product.CheckAvailable(key.Size, key.Color, quantity); err != nil {
		return err
	}
	c.Items[idx].Quantity = quantity
	c.touch()
	return nil
}

// RemoveItem removes a line
func (c *Cart) RemoveItem(key LineKey) error {
	idx := c.indexOf(key)
	if idx < 0 {
		return shared.NewDomainError("CART_ITEM_NOT_FOUND", "Item not found in cart")
	}
	c.removeAt(idx)
	c.touch()
	return nil
}

// Clear removes all lines
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.touch()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total number of units in the cart
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Recalculate recomputes the total from scratch
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	c.TotalPrice = total
}

func (c *Cart) indexOf(key LineKey) int {
	for i, item := range c.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

func (c *Cart) touch() {
	c.Recalculate()
	c.UpdatedAt = time.Now()
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

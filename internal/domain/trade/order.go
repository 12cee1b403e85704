package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus validates a raw status value
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_ORDER_STATUS", fmt.Sprintf("Invalid order status %q", raw))
	}
	return s, nil
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ParsePaymentStatus validates a raw payment status value
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Invalid payment status %q", raw))
	}
	return s, nil
}

// OrderItem is a frozen snapshot of a product at purchase time
type OrderItem struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"-"`
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
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem snapshots the product's current name, image and prices
func NewOrderItem(product *catalog.Product, quantity int, size, color string) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	item := OrderItem{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.ImageURL,
		Price:     product.Price,
		Quantity:  quantity,
		Size:      size,
		Color:     color,
	}
	if sp := product.SalePriceSnapshot(); sp != nil {
		item.SalePrice = decimal.NullDecimal{Decimal: *sp, Valid: true}
	}
	return item, nil
}

// SalePricePtr returns the captured sale price or nil
func (i OrderItem) SalePricePtr() *decimal.Decimal {
	if !i.SalePrice.Valid {
		return nil
	}
	sp := i.SalePrice.Decimal
	return &sp
}

// LineTotal returns effective price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return catalog.LineTotal(i.Price, i.SalePricePtr(), i.Quantity)
}

// Order is a placed order. Items never change after creation.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(40);not null;uniqueIndex" json:"order_number"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress valueobject.Address `gorm:"type:text" json:"shipping_address"`
	PaymentMethod   string              `gorm:"type:varchar(30);not null" json:"payment_method"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	OrderStatus     OrderStatus         `gorm:"type:varchar(20);not null;default:'pending';index" json:"order_status"`
	PaymentStatus   PaymentStatus       `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder builds a pending order from item snapshots and computes its total
func NewOrder(userID uuid.UUID, items []OrderItem, address valueobject.Address, paymentMethod string) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ShippingAddress:   address,
		PaymentMethod:     paymentMethod,
		OrderStatus:       OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
	}
	order.OrderNumber = generateOrderNumber(order.ID, order.CreatedAt)

	order.Items = make([]OrderItem, len(items))
	for i, item := range items {
		item.OrderID = order.ID
		order.Items[i] = item
	}
	order.TotalAmount = order.CalculateTotal()

	order.AddDomainEvent(NewOrderPlacedEvent(order))
	return order, nil
}

// CalculateTotal sums effective price times quantity over all items
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// VerifyTotal recomputes the total from the items and compares it with the
// stored TotalAmount
func (o *Order) VerifyTotal() error {
	if recomputed := o.CalculateTotal(); !recomputed.Equal(o.TotalAmount) {
		return shared.NewDomainError("ORDER_TOTAL_MISMATCH",
			fmt.Sprintf("Order total %s does not match item total %s", o.TotalAmount.StringFixed(2), recomputed.StringFixed(2)))
	}
	return nil
}

// UpdateStatus sets a new status. Any status may follow any other. The
// return value reports whether this change cancels the order, in which case
// the caller must restore stock in the same transaction.
func (o *Order) UpdateStatus(status OrderStatus) (bool, error) {
	if !status.IsValid() {
		return false, shared.NewDomainError("INVALID_ORDER_STATUS", fmt.Sprintf("Invalid order status %q", status))
	}

	previous := o.OrderStatus
	cancelling := status == OrderStatusCancelled && previous != OrderStatusCancelled

	now := time.Now()
	switch status {
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		if cancelling {
			o.CancelledAt = &now
		}
	}

	o.OrderStatus = status
	o.UpdatedAt = now
	o.IncrementVersion()

	if previous != status {
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	}
	if cancelling {
		o.AddDomainEvent(NewOrderCancelledEvent(o, previous))
	}
	return cancelling, nil
}

// UpdatePaymentStatus sets the payment status
func (o *Order) UpdatePaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Invalid payment status %q", status))
	}
	now := time.Now()
	if status == PaymentStatusPaid && o.PaidAt == nil {
		o.PaidAt = &now
	}
	o.PaymentStatus = status
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// MarkDeleted records the deletion event
func (o *Order) MarkDeleted() {
	o.AddDomainEvent(NewOrderDeletedEvent(o))
}

// IsOwnedBy reports whether the order belongs to the user
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

func generateOrderNumber(id uuid.UUID, at time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), strings.ToUpper(id.String()[:8]))
}

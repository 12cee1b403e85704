package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/shared"
)

// StockKind identifies which stock field a selector resolves to
type StockKind string

const (
	StockKindProduct StockKind = "product"
	StockKindSize    StockKind = "size"
	StockKindColor   StockKind = "color"
)

// StockSlot is the resolved stock field for a (size, color) selection
type StockSlot struct {
	ProductID uuid.UUID
	Kind      StockKind
	VariantID uuid.UUID // uuid.Nil for StockKindProduct
	Label     string
	Available int
}

// ResolveStock returns the stock field that a line with the given
// selectors draws from. A selected size that exists wins, then a selected
// color that exists, then the top-level stock.
func (p *Product) ResolveStock(size, color string) StockSlot {
	if size != "" {
		for _, s := range p.Sizes {
			if s.Size == size {
				return StockSlot{ProductID: p.ID, Kind: StockKindSize, VariantID: s.ID, Label: s.Size, Available: s.Stock}
			}
		}
	}
	if color != "" {
		for _, c := range p.Colors {
			if c.Color == color {
				return StockSlot{ProductID: p.ID, Kind: StockKindColor, VariantID: c.ID, Label: c.Color, Available: c.Stock}
			}
		}
	}
	return StockSlot{ProductID: p.ID, Kind: StockKindProduct, Available: p.Stock}
}

// CheckAvailable returns an insufficient stock error if quantity exceeds
// the resolved stock
func (p *Product) CheckAvailable(size, color string, quantity int) error {
	slot := p.ResolveStock(size, color)
	if quantity > slot.Available {
		return NewInsufficientStockError(p.ID, p.Name, quantity, slot.Available)
	}
	return nil
}

// NewInsufficientStockError builds the error returned when demand exceeds supply
func NewInsufficientStockError(productID uuid.UUID, productName string, requested, available int) *shared.DomainError {
	return shared.NewDomainError(
		shared.ErrInsufficientStock.Code,
		fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", productName, requested, available),
	).WithDetails(map[string]interface{}{
		"product_id":   productID.String(),
		"product_name": productName,
		"requested":    requested,
		"available":    available,
	})
}

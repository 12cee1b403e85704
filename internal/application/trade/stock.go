package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/domain/trade"
)

const (
	decrement = -1
	increment = +1
)

// stockLine is the part of an order line that stock adjustment needs
type stockLine struct {
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}

func lineOf(item trade.OrderItem) stockLine {
	return stockLine{ProductID: item.ProductID, Size: item.Size, Color: item.Color, Quantity: item.Quantity}
}

// applyStockDelta moves quantity units of the line's resolved stock field in
// the direction of sign. It is the single stock path for order creation,
// cancellation and deletion.
//
// For a decrement the product must exist and have enough stock; the product
// as loaded before the decrement is returned for snapshotting. For an
// increment a missing product is skipped and (nil, nil) is returned.
func applyStockDelta(ctx context.Context, products catalog.ProductRepository, line stockLine, sign int) (*catalog.Product, error) {
	product, err := products.FindByID(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			if sign > 0 {
				return nil, nil
			}
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found").
				WithDetails(map[string]interface{}{"product_id": line.ProductID.String()})
		}
		return nil, err
	}

	slot := product.ResolveStock(line.Size, line.Color)
	if sign < 0 && line.Quantity > slot.Available {
		return nil, catalog.NewInsufficientStockError(product.ID, product.Name, line.Quantity, slot.Available)
	}

	if err := products.AdjustStock(ctx, slot, sign*line.Quantity); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			// stock moved between the read and the conditional update
			return nil, catalog.NewInsufficientStockError(product.ID, product.Name, line.Quantity, slot.Available)
		}
		return nil, err
	}
	return product, nil
}

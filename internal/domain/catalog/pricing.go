package catalog

import "github.com/shopspring/decimal"

// EffectivePrice returns salePrice when it is set and strictly lower than
// price, otherwise price.
func EffectivePrice(price decimal.Decimal, salePrice *decimal.Decimal) decimal.Decimal {
	if salePrice != nil && salePrice.LessThan(price) {
		return *salePrice
	}
	return price
}

// LineTotal returns the effective price multiplied by quantity
func LineTotal(price decimal.Decimal, salePrice *decimal.Decimal, quantity int) decimal.Decimal {
	return EffectivePrice(price, salePrice).Mul(decimal.NewFromInt(int64(quantity)))
}

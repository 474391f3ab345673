package calc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/amberique/storefront/app/models"
)

// hasDiscountThreshold keeps negligible rounding gaps from counting as a
// real discount.
var hasDiscountThreshold = decimal.NewFromFloat(0.01)

// IsDiscountActive reports whether the product carries a discount value and
// the moment falls inside its validity window. An open side of the window is
// unrestricted; a product with a discount value and no window at all is
// always active.
func IsDiscountActive(p *models.Product, now time.Time) bool {
	if p == nil || !hasDiscountValue(p) {
		return false
	}

	start, end := p.DiscountStartDate, p.DiscountEndDate
	switch {
	case start != nil && end != nil:
		return !now.Before(*start) && !now.After(*end)
	case start != nil:
		return !now.Before(*start)
	case end != nil:
		return !now.After(*end)
	default:
		return true
	}
}

// PriceInfoFor resolves the effective display price of a product at the
// given moment. An explicit final or discount price wins over a percentage
// derivation; anything non-positive falls back to the original price.
func PriceInfoFor(p *models.Product, now time.Time) models.PriceInfo {
	if p == nil {
		return models.PriceInfo{OriginalPrice: decimal.Zero, CurrentPrice: decimal.Zero}
	}

	original := p.Price
	current := original

	if IsDiscountActive(p, now) {
		switch {
		case p.FinalPrice.IsPositive():
			current = p.FinalPrice
		case p.DiscountPrice.IsPositive():
			current = p.DiscountPrice
		case p.DiscountPercentage.IsPositive():
			factor := decimal.NewFromInt(1).Sub(p.DiscountPercentage.Div(decimal.NewFromInt(100)))
			current = original.Mul(factor)
		}
	}

	if !current.IsPositive() {
		current = original
	}

	return models.PriceInfo{
		OriginalPrice: original,
		CurrentPrice:  current,
		HasDiscount:   original.Sub(current).GreaterThan(hasDiscountThreshold),
	}
}

func hasDiscountValue(p *models.Product) bool {
	return p.FinalPrice.IsPositive() ||
		p.DiscountPrice.IsPositive() ||
		p.DiscountPercentage.IsPositive()
}

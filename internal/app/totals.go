package app

import "github.com/tillfolk/pos-api/internal/domain"

// Totals is the priced breakdown of a cart.
type Totals struct {
	Subtotal        float64
	DiscountPercent float64
	DiscountAmount  float64
	ServiceCharge   float64
	Tax             float64
	Total           float64
}

// ComputeTotals prices a cart. Discount percent is clamped to [0,100],
// service charge applies to dine-in only, and tax is computed after the
// service charge is added. Pure; never mutates its inputs.
func ComputeTotals(lines []domain.CartLine, discountPercent float64, orderType domain.OrderType, cfg domain.StoreConfig) Totals {
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}

	var subtotal float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	discountAmount := subtotal * discountPercent / 100
	afterDiscount := subtotal - discountAmount

	var serviceCharge float64
	if orderType == domain.OrderTypeDineIn {
		serviceCharge = afterDiscount * cfg.ServiceChargeRate / 100
	}

	tax := (afterDiscount + serviceCharge) * cfg.TaxRate / 100

	return Totals{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		ServiceCharge:   serviceCharge,
		Tax:             tax,
		Total:           afterDiscount + serviceCharge + tax,
	}
}

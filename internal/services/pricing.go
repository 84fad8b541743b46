package services

import (
	"github.com/shopspring/decimal"

	"kirana/internal/models"
)

// Fee policy. Delivery is free strictly above the threshold; the
// platform fee applies to every order.
const (
	DeliveryFee           = 49.0
	FreeDeliveryThreshold = 499.0
	PlatformFee           = 5.0
)

// bill is the computed money portion of a checkout summary.
type bill struct {
	Subtotal    float64
	DeliveryFee float64
	PlatformFee float64
	Discount    float64
	Savings     float64
	TotalAmount float64
}

// computeBill prices the cart deterministically. All arithmetic runs in
// decimal and rounds to 2 places, so the free-delivery boundary at the
// threshold is exact (499.00 pays the fee, 499.01 does not).
func computeBill(items []models.CartItem, discount float64) bill {
	subtotal := decimal.Zero
	savings := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		price := decimal.NewFromFloat(item.Product.Price)
		subtotal = subtotal.Add(price.Mul(qty))

		if item.Product.OriginalPrice != nil {
			diff := decimal.NewFromFloat(*item.Product.OriginalPrice).Sub(price)
			if diff.IsPositive() {
				savings = savings.Add(diff.Mul(qty))
			}
		}
	}
	subtotal = subtotal.Round(2)
	savings = savings.Round(2)

	deliveryFee := decimal.NewFromFloat(DeliveryFee)
	if subtotal.GreaterThan(decimal.NewFromFloat(FreeDeliveryThreshold)) {
		deliveryFee = decimal.Zero
	}
	platformFee := decimal.NewFromFloat(PlatformFee)
	disc := decimal.NewFromFloat(discount)

	total := subtotal.Add(deliveryFee).Add(platformFee).Sub(disc).Round(2)

	return bill{
		Subtotal:    subtotal.InexactFloat64(),
		DeliveryFee: deliveryFee.InexactFloat64(),
		PlatformFee: platformFee.InexactFloat64(),
		Discount:    disc.Round(2).InexactFloat64(),
		Savings:     savings.InexactFloat64(),
		TotalAmount: total.InexactFloat64(),
	}
}

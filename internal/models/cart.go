package models

import "time"

// CartLine is a single entry in the cart: a product id and the desired
// quantity. A quantity of zero is never stored; removing the line is the
// canonical representation of "none wanted".
type CartLine struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// CartItem is a cart line joined with its catalog product, the shape the
// cart's derived views expose.
type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// TotalPrice is the line total at the product's current catalog price.
func (ci CartItem) TotalPrice() float64 {
	return ci.Product.Price * float64(ci.Quantity)
}

// TotalSavings is the amount saved versus the original price, zero when
// the product carries no original price or is not actually discounted.
func (ci CartItem) TotalSavings() float64 {
	if ci.Product.OriginalPrice == nil {
		return 0
	}
	diff := *ci.Product.OriginalPrice - ci.Product.Price
	if diff <= 0 {
		return 0
	}
	return diff * float64(ci.Quantity)
}

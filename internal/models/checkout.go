package models

// CheckoutSummary is the priced view of the current checkout: cart lines
// joined with the catalog, the chosen address and payment method, and the
// computed bill. It is ephemeral, recomputed on every upstream change,
// and never persisted.
type CheckoutSummary struct {
	Items           []CartItem      `json:"items"`
	Addresses       []Address       `json:"addresses"`
	SelectedAddress *Address        `json:"selected_address,omitempty"`
	PaymentMethods  []PaymentMethod `json:"payment_methods"`
	SelectedPayment *PaymentMethod  `json:"selected_payment,omitempty"`
	Subtotal        float64         `json:"subtotal"`
	DeliveryFee     float64         `json:"delivery_fee"`
	PlatformFee     float64         `json:"platform_fee"`
	Discount        float64         `json:"discount"`
	Savings         float64         `json:"savings"`
	TotalAmount     float64         `json:"total_amount"`
	OrderNotes      string          `json:"order_notes"`
	IsPlacingOrder  bool            `json:"is_placing_order"`
}

// CanPlaceOrder reports whether the summary satisfies every placement
// precondition: a non-empty cart, a selected address, a selected payment
// method, and no placement already in flight.
func (s CheckoutSummary) CanPlaceOrder() bool {
	return len(s.Items) > 0 &&
		s.SelectedAddress != nil &&
		s.SelectedPayment != nil &&
		!s.IsPlacingOrder
}

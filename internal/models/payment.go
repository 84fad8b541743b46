package models

// PaymentMethodCOD is the id of the cash-on-delivery option, the default
// selection at checkout when present.
const PaymentMethodCOD = "cod"

// PaymentMethod is a static payment option. The catalog is fixed, not
// persisted per user.
type PaymentMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsEnabled   bool   `json:"is_enabled"`
}

// DefaultPaymentMethods returns the static payment method catalog.
func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{
			ID:          PaymentMethodCOD,
			Name:        "Cash on Delivery",
			Description: "Pay when your order arrives",
			Icon:        "cash",
			IsEnabled:   true,
		},
		{
			ID:          "upi",
			Name:        "UPI Payment",
			Description: "Pay using Google Pay, PhonePe, Paytm",
			Icon:        "upi",
			IsEnabled:   true,
		},
		{
			ID:          "card",
			Name:        "Credit/Debit Card",
			Description: "Visa, MasterCard, RuPay",
			Icon:        "card",
			IsEnabled:   true,
		},
	}
}

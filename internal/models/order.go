package models

import "time"

// Order statuses. PLACED moves forward through CONFIRMED and SHIPPED to
// DELIVERED; CANCELLED is reachable from any non-terminal state.
// DELIVERED and CANCELLED are terminal.
const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Payment statuses.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another under the fulfillment state machine.
func CanTransition(from, to string) bool {
	switch from {
	case OrderStatusPlaced:
		return to == OrderStatusConfirmed || to == OrderStatusCancelled
	case OrderStatusConfirmed:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered || to == OrderStatusCancelled
	default:
		// DELIVERED and CANCELLED are terminal.
		return false
	}
}

// Order is a committed checkout. Created exactly once per successful
// placement; only its status, payment status and delivery timestamps
// change afterwards.
type Order struct {
	ID                string     `json:"id" gorm:"primaryKey;type:varchar(64)"`
	UserID            string     `json:"user_id" gorm:"index;type:varchar(64)"`
	OrderDate         time.Time  `json:"order_date"`
	Status            string     `json:"status" gorm:"type:varchar(16)"`
	Subtotal          float64    `json:"subtotal"`
	DeliveryFee       float64    `json:"delivery_fee"`
	PlatformFee       float64    `json:"platform_fee"`
	Discount          float64    `json:"discount"`
	TotalAmount       float64    `json:"total_amount"`
	DeliveryAddressID string     `json:"delivery_address_id" gorm:"type:varchar(36)"`
	PaymentMethod     string     `json:"payment_method" gorm:"type:varchar(32)"`
	PaymentStatus     string     `json:"payment_status" gorm:"type:varchar(16)"`
	EstimatedDelivery time.Time  `json:"estimated_delivery"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
	OrderNotes        string     `json:"order_notes"`
}

// OrderItem is an immutable line of a committed order. Product name and
// price are snapshotted at placement so historical orders stay stable
// when the catalog changes.
type OrderItem struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(128)"`
	OrderID      string  `json:"order_id" gorm:"index;type:varchar(64)"`
	ProductID    string  `json:"product_id" gorm:"type:varchar(64)"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"` // ProductPrice * Quantity
}

// OrderWithItems bundles an order with its item snapshots for reads.
type OrderWithItems struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

package repositories

import (
	"context"
	"time"

	"kirana/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// CreateWithItems is the one multi-row transaction boundary in the
// system: the order and its item snapshots become visible together or
// not at all.
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	// GetAllByUser returns the user's orders newest-first.
	GetAllByUser(ctx context.Context, userID string) ([]models.Order, error)
	// UpdateStatus sets the order status; deliveredAt, when non-nil,
	// stamps the actual delivery time in the same write.
	UpdateStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	// TotalSpentByUser sums totalAmount over the user's non-cancelled
	// orders.
	TotalSpentByUser(ctx context.Context, userID string) (float64, error)
}

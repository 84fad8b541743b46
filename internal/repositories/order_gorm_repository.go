package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kirana/internal/apperrors"
	"kirana/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// CreateWithItems persists the order and its item snapshots in one
// transaction. Either both are visible to subsequent reads or neither is.
func (r *GORMOrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create order %s: %v", apperrors.ErrStorage, order.ID, err)
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order with ID %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get order by ID %s: %v", apperrors.ErrStorage, id, err)
	}
	return &order, nil
}

// GetItems retrieves the item snapshots of an order.
func (r *GORMOrderRepository) GetItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to get items for order %s: %v", apperrors.ErrStorage, orderID, err)
	}
	return items, nil
}

// GetAllByUser retrieves the user's orders newest-first.
func (r *GORMOrderRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get orders: %v", apperrors.ErrStorage, err)
	}
	return orders, nil
}

// UpdateStatus updates the status of an order, stamping the actual
// delivery time when provided.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if deliveredAt != nil {
		updates["actual_delivery"] = *deliveredAt
	}
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%w: failed to update status for order %s: %v", apperrors.ErrStorage, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order with ID %s", apperrors.ErrNotFound, id)
	}
	return nil
}

// CountByUser returns the number of orders the user has placed.
func (r *GORMOrderRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count orders: %v", apperrors.ErrStorage, err)
	}
	return count, nil
}

// TotalSpentByUser sums totalAmount over the user's non-cancelled orders.
func (r *GORMOrderRepository) TotalSpentByUser(ctx context.Context, userID string) (float64, error) {
	var total *float64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("user_id = ? AND status != ?", userID, models.OrderStatusCancelled).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("%w: failed to sum spend: %v", apperrors.ErrStorage, err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

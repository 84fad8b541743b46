package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kirana/internal/apperrors"
	"kirana/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	items  map[string][]models.OrderItem
	mu     sync.RWMutex

	// FailNext makes the next CreateWithItems fail before anything is
	// stored, for exercising the no-partial-state guarantee in tests.
	FailNext bool
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

// CreateWithItems stores the order and its items under one lock, so a
// reader can never observe the order without its items.
func (r *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailNext {
		r.FailNext = false
		return fmt.Errorf("%w: simulated order create failure", apperrors.ErrStorage)
	}
	if _, ok := r.orders[order.ID]; ok {
		return fmt.Errorf("%w: order with ID %s already exists", apperrors.ErrConstraint, order.ID)
	}
	r.orders[order.ID] = *order
	r.items[order.ID] = append([]models.OrderItem(nil), items...)
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order with ID %s", apperrors.ErrNotFound, id)
	}
	return &order, nil
}

// GetItems returns the item snapshots of an order.
func (r *MockOrderRepository) GetItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.OrderItem(nil), r.items[orderID]...), nil
}

// GetAllByUser returns the user's orders newest-first.
func (r *MockOrderRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orderList []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			orderList = append(orderList, o)
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].OrderDate.After(orderList[j].OrderDate)
	})
	return orderList, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: order with ID %s", apperrors.ErrNotFound, id)
	}
	order.Status = status
	if deliveredAt != nil {
		order.ActualDelivery = deliveredAt
	}
	r.orders[id] = order
	return nil
}

// CountByUser returns the number of orders the user has placed.
func (r *MockOrderRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, o := range r.orders {
		if o.UserID == userID {
			count++
		}
	}
	return count, nil
}

// TotalSpentByUser sums totalAmount over the user's non-cancelled orders.
func (r *MockOrderRepository) TotalSpentByUser(ctx context.Context, userID string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, o := range r.orders {
		if o.UserID == userID && o.Status != models.OrderStatusCancelled {
			total += o.TotalAmount
		}
	}
	return total, nil
}

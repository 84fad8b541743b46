package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"kirana/internal/apperrors"
	"kirana/internal/models"
	"kirana/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes order lifecycle events to the message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// deliveryEstimate is how far ahead the estimated delivery is stamped at
// placement.
const deliveryEstimate = 24 * time.Hour

// OrderService is the order ledger: it commits checkout summaries into
// persisted orders with immutable item snapshots, drives the fulfillment
// state machine, and serves historical queries and statistics.
type OrderService struct {
	orderRepo repositories.OrderRepository
	checkout  *CheckoutService
	cart      *CartService
	publisher EventPublisher // may be nil, events are then skipped
	userID    string
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, checkout *CheckoutService, cart *CartService, publisher EventPublisher, userID string) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		checkout:  checkout,
		cart:      cart,
		publisher: publisher,
		userID:    userID,
	}
}

// newOrderID generates a user-facing order reference: millisecond
// timestamp plus a random suffix, unguessable and collision-free within
// the ledger.
func newOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORDER_%d_%s", now.UnixMilli(), suffix)
}

// PlaceOrder commits the current checkout summary as a new order.
//
// Preconditions are checked against a fresh summary and failures name
// the missing prerequisite. The order and its item snapshots are
// persisted as one atomic unit; on success the cart is cleared and an
// order.created event is published, on failure the cart and the checkout
// selections are left untouched so the caller can retry.
func (s *OrderService) PlaceOrder(ctx context.Context) (string, error) {
	if !s.checkout.beginPlacement() {
		return "", fmt.Errorf("%w: an order placement is already in progress", apperrors.ErrValidation)
	}
	defer s.checkout.endPlacement()

	summary, err := s.checkout.Summary(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to place order: %w", err)
	}
	if len(summary.Items) == 0 {
		return "", fmt.Errorf("%w: cart is empty", apperrors.ErrValidation)
	}
	if summary.SelectedAddress == nil {
		return "", fmt.Errorf("%w: no delivery address selected", apperrors.ErrValidation)
	}
	if summary.SelectedPayment == nil {
		return "", fmt.Errorf("%w: no payment method selected", apperrors.ErrValidation)
	}

	now := time.Now()
	orderID := newOrderID(now)

	// COD stays pending until handover; other methods are captured at
	// placement.
	paymentStatus := models.PaymentStatusPaid
	if summary.SelectedPayment.ID == models.PaymentMethodCOD {
		paymentStatus = models.PaymentStatusPending
	}

	order := &models.Order{
		ID:                orderID,
		UserID:            s.userID,
		OrderDate:         now,
		Status:            models.OrderStatusPlaced,
		Subtotal:          summary.Subtotal,
		DeliveryFee:       summary.DeliveryFee,
		PlatformFee:       summary.PlatformFee,
		Discount:          summary.Discount,
		TotalAmount:       summary.TotalAmount,
		DeliveryAddressID: summary.SelectedAddress.ID,
		PaymentMethod:     summary.SelectedPayment.ID,
		PaymentStatus:     paymentStatus,
		EstimatedDelivery: now.Add(deliveryEstimate),
		OrderNotes:        summary.OrderNotes,
	}

	items := make([]models.OrderItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, models.OrderItem{
			ID:           fmt.Sprintf("%s_%s", orderID, item.Product.ID),
			OrderID:      orderID,
			ProductID:    item.Product.ID,
			ProductName:  item.Product.Name,
			ProductPrice: item.Product.Price,
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice(),
		})
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return "", fmt.Errorf("failed to place order: %w", err)
	}

	// Only after the commit is durable does the cart reset.
	s.cart.Clear(ctx)

	s.publishEvent("order.created", map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"total_amount":   order.TotalAmount,
	})

	return orderID, nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// GetOrderWithItems retrieves an order together with its item snapshots.
func (s *OrderService) GetOrderWithItems(ctx context.Context, id string) (*models.OrderWithItems, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.OrderWithItems{Order: *order, Items: items}, nil
}

// History retrieves the user's orders, newest first.
func (s *OrderService) History(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAllByUser(ctx, s.userID)
}

// UpdateStatus moves an order through the fulfillment state machine and
// publishes an order.status_changed event. DELIVERED stamps the actual
// delivery time.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: invalid order status %q", apperrors.ErrValidation, status)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !models.CanTransition(order.Status, status) {
		return fmt.Errorf("%w: order %s cannot move from %s to %s", apperrors.ErrValidation, id, order.Status, status)
	}

	var deliveredAt *time.Time
	if status == models.OrderStatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status, deliveredAt); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	s.publishEvent("order.status_changed", map[string]interface{}{
		"order_id": id,
		"from":     order.Status,
		"to":       status,
	})

	return nil
}

// TotalOrderCount returns the number of orders the user has placed.
func (s *OrderService) TotalOrderCount(ctx context.Context) (int64, error) {
	return s.orderRepo.CountByUser(ctx, s.userID)
}

// TotalSpent returns the sum spent across the user's non-cancelled
// orders.
func (s *OrderService) TotalSpent(ctx context.Context) (float64, error) {
	return s.orderRepo.TotalSpentByUser(ctx, s.userID)
}

// publishEvent sends an order event to the broker. Event delivery is
// best effort: a publish failure never fails the order operation.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		log.Println("Event publisher is not configured. Skipping message publication.")
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish("order", routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}

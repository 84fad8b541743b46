package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"kirana/internal/apperrors"
	"kirana/internal/models"
	"kirana/internal/repositories"
	"kirana/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a testify mock of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]models.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error {
	args := m.Called(ctx, id, status, deliveredAt)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) TotalSpentByUser(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

// MockPublisher is a testify mock of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

// checkoutFixture wires a cart, an address book and a checkout
// aggregator around an in-memory catalog.
func checkoutFixture(t *testing.T, prices map[string]float64) (*services.CheckoutService, *services.CartService, *services.AddressService) {
	t.Helper()
	return newCheckout(t, priceCatalog(t, prices))
}

func TestOrderService_PlaceOrderEndToEnd(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"tomato": 45})

	cart.Add(ctx, "tomato", 2)
	saved, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	svc := services.NewOrderService(orderRepo, checkout, cart, publisher, "default_user")

	var committed *models.Order
	var committedItems []models.OrderItem
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			committed = args.Get(1).(*models.Order)
			committedItems = args.Get(2).([]models.OrderItem)
		}).Return(nil).Once()
	publisher.On("Publish", "order", "order.created", mock.Anything).Return(nil).Once()

	orderID, err := svc.PlaceOrder(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, orderID)
	assert.Regexp(t, `^ORDER_\d+_[0-9A-F]{6}$`, orderID)

	// subtotal 90 -> delivery 49 -> platform 5 -> total 144.
	assert.NotNil(t, committed)
	assert.InDelta(t, 90.0, committed.Subtotal, 0.001)
	assert.InDelta(t, 49.0, committed.DeliveryFee, 0.001)
	assert.InDelta(t, 144.0, committed.TotalAmount, 0.001)
	assert.Equal(t, models.OrderStatusPlaced, committed.Status)
	assert.Equal(t, models.PaymentStatusPending, committed.PaymentStatus) // COD stays pending
	assert.Equal(t, saved.ID, committed.DeliveryAddressID)

	assert.Len(t, committedItems, 1)
	assert.Equal(t, "tomato", committedItems[0].ProductID)
	assert.Equal(t, 2, committedItems[0].Quantity)
	assert.InDelta(t, 90.0, committedItems[0].TotalPrice, 0.001)

	// The cart is cleared only after a successful commit.
	assert.Equal(t, 0, cart.TotalQuantity())

	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_PlaceOrderFreeDelivery(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"rice": 600})

	cart.Add(ctx, "rice", 1)
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)
	assert.NoError(t, checkout.SelectPaymentMethod("upi"))

	orderRepo := new(MockOrderRepository)
	var committed *models.Order
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			committed = args.Get(1).(*models.Order)
		}).Return(nil).Once()

	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")
	_, err = svc.PlaceOrder(ctx)
	assert.NoError(t, err)

	// subtotal 600 -> free delivery -> total 605.
	assert.InDelta(t, 600.0, committed.Subtotal, 0.001)
	assert.InDelta(t, 0.0, committed.DeliveryFee, 0.001)
	assert.InDelta(t, 605.0, committed.TotalAmount, 0.001)
	// Non-COD payment is captured at placement.
	assert.Equal(t, models.PaymentStatusPaid, committed.PaymentStatus)
}

func TestOrderService_PlaceOrderWithoutAddress(t *testing.T) {
	ctx := context.Background()
	checkout, cart, _ := checkoutFixture(t, map[string]float64{"tomato": 45})
	cart.Add(ctx, "tomato", 2)

	orderRepo := new(MockOrderRepository)
	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")

	_, err := svc.PlaceOrder(ctx)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "address")

	// The cart is untouched so the user can retry.
	assert.Equal(t, 2, cart.TotalQuantity())
	orderRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrderWithEmptyCart(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"tomato": 45})
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	svc := services.NewOrderService(new(MockOrderRepository), checkout, cart, nil, "default_user")
	_, err = svc.PlaceOrder(ctx)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "cart is empty")
}

func TestOrderService_CommitFailureLeavesCartIntact(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"tomato": 45})
	cart.Add(ctx, "tomato", 2)
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: disk full", apperrors.ErrStorage)).Once()

	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")
	_, err = svc.PlaceOrder(ctx)
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	assert.Equal(t, 2, cart.TotalQuantity())

	// The in-flight guard was released; a retry can succeed.
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	_, err = svc.PlaceOrder(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, cart.TotalQuantity())
}

func TestOrderService_RejectsConcurrentPlacement(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"tomato": 45})
	cart.Add(ctx, "tomato", 1)
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})

	orderRepo := new(MockOrderRepository)
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).Return(nil).Once()

	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.PlaceOrder(ctx)
		firstDone <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first placement never reached the repository")
	}

	// A second placement while the first is in flight is rejected.
	_, err = svc.PlaceOrder(ctx)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "already in progress")

	close(release)
	assert.NoError(t, <-firstDone)
	assert.Equal(t, 0, cart.TotalQuantity())
}

func TestOrderService_UpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"tomato": 45})
	cart.Add(ctx, "tomato", 1)
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	orderRepo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")

	orderID, err := svc.PlaceOrder(ctx)
	assert.NoError(t, err)

	// Forward path.
	assert.NoError(t, svc.UpdateStatus(ctx, orderID, models.OrderStatusConfirmed))
	assert.NoError(t, svc.UpdateStatus(ctx, orderID, models.OrderStatusShipped))
	assert.NoError(t, svc.UpdateStatus(ctx, orderID, models.OrderStatusDelivered))

	order, err := svc.GetOrder(ctx, orderID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.NotNil(t, order.ActualDelivery)

	// DELIVERED is terminal.
	err = svc.UpdateStatus(ctx, orderID, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOrderService_UpdateStatusRejectsSkipsAndUnknown(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"tomato": 45})
	cart.Add(ctx, "tomato", 1)
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	orderRepo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")
	orderID, err := svc.PlaceOrder(ctx)
	assert.NoError(t, err)

	// PLACED cannot jump straight to SHIPPED.
	err = svc.UpdateStatus(ctx, orderID, models.OrderStatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.UpdateStatus(ctx, orderID, "MISPLACED")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.UpdateStatus(ctx, "no-such-order", models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// CANCELLED is reachable from any non-terminal state.
	assert.NoError(t, svc.UpdateStatus(ctx, orderID, models.OrderStatusCancelled))
	err = svc.UpdateStatus(ctx, orderID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOrderService_StatisticsExcludeCancelled(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"tomato": 45})
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	orderRepo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")

	cart.Add(ctx, "tomato", 2) // total 144
	first, err := svc.PlaceOrder(ctx)
	assert.NoError(t, err)

	cart.Add(ctx, "tomato", 1) // total 45+49+5 = 99
	_, err = svc.PlaceOrder(ctx)
	assert.NoError(t, err)

	assert.NoError(t, svc.UpdateStatus(ctx, first, models.OrderStatusCancelled))

	count, err := svc.TotalOrderCount(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	spent, err := svc.TotalSpent(ctx)
	assert.NoError(t, err)
	assert.InDelta(t, 99.0, spent, 0.001)
}

func TestOrderService_HistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	checkout, cart, addresses := checkoutFixture(t, map[string]float64{"tomato": 45})
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	orderRepo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")

	cart.Add(ctx, "tomato", 1)
	first, err := svc.PlaceOrder(ctx)
	assert.NoError(t, err)
	time.Sleep(2 * time.Millisecond) // distinct order dates

	cart.Add(ctx, "tomato", 1)
	second, err := svc.PlaceOrder(ctx)
	assert.NoError(t, err)

	history, err := svc.History(ctx)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, second, history[0].ID)
	assert.Equal(t, first, history[1].ID)
}

func TestOrderService_GetOrderWithItemsSnapshotsPrices(t *testing.T) {
	ctx := context.Background()
	catalog := priceCatalog(t, map[string]float64{"tomato": 45})
	checkout, cart, addresses := newCheckout(t, catalog)
	_, err := addresses.Add(ctx, validAddress("Ravi Kumar"))
	assert.NoError(t, err)

	orderRepo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(orderRepo, checkout, cart, nil, "default_user")

	cart.Add(ctx, "tomato", 2)
	orderID, err := svc.PlaceOrder(ctx)
	assert.NoError(t, err)

	// A later catalog price change must not alter the committed order.
	repriced := models.Product{ID: "tomato", Name: "Fresh Tomatoes", Price: 99, Category: "test"}
	assert.NoError(t, catalog.Create(ctx, &repriced))

	withItems, err := svc.GetOrderWithItems(ctx, orderID)
	assert.NoError(t, err)
	assert.Len(t, withItems.Items, 1)
	assert.InDelta(t, 45.0, withItems.Items[0].ProductPrice, 0.001)
	assert.InDelta(t, 90.0, withItems.Items[0].TotalPrice, 0.001)
	assert.InDelta(t, 144.0, withItems.Order.TotalAmount, 0.001)
}

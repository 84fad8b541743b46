package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"kirana/internal/handlers"
	"kirana/internal/models"
	"kirana/internal/repositories"
	"kirana/internal/seed"
	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp wires a Fiber app with an in-memory SQLite database and the
// full service stack, the same way main does it. Each test gets its own
// named in-memory database so state never leaks between tests.
func setupApp(t *testing.T) (*fiber.App, error) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Address{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	if err := seed.Apply(context.Background(), productRepo); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	catalogService := services.NewCatalogService(productRepo)
	cartService := services.NewCartService(productRepo, nil, "default_user")
	addressService := services.NewAddressService(addressRepo, "default_user")
	checkoutService := services.NewCheckoutService(cartService, addressService)
	t.Cleanup(checkoutService.Close)
	orderService := services.NewOrderService(orderRepo, checkoutService, cartService, nil, "default_user")

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1)
	handlers.NewAddressHandler(addressService).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(checkoutService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1)

	return app, nil
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func testAddress() map[string]interface{} {
	return map[string]interface{}{
		"name":          "Ravi Kumar",
		"phone":         "9876543210",
		"address_line1": "12 MG Road",
		"city":          "Bengaluru",
		"state":         "Karnataka",
		"pincode":       "560001",
		"address_type":  "HOME",
	}
}

func TestGroceryOrderFlow(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	// The seeded catalog is visible.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	decodeBody(t, resp, &products)
	assert.GreaterOrEqual(t, len(products), 10)

	// Add two tomatoes to the cart.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "tomato_1kg",
		"quantity":   2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cartResp struct {
		TotalQuantity int     `json:"total_quantity"`
		Subtotal      float64 `json:"subtotal"`
	}
	decodeBody(t, resp, &cartResp)
	assert.Equal(t, 2, cartResp.TotalQuantity)
	assert.InDelta(t, 90.0, cartResp.Subtotal, 0.001)

	// Save a delivery address; the first one becomes the default.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/addresses", testAddress())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var savedAddress models.Address
	decodeBody(t, resp, &savedAddress)
	assert.NotEmpty(t, savedAddress.ID)
	assert.True(t, savedAddress.IsDefault)

	// The checkout picks up the cart, the default address and COD.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var checkoutResp struct {
		Summary       models.CheckoutSummary `json:"summary"`
		CanPlaceOrder bool                   `json:"can_place_order"`
	}
	decodeBody(t, resp, &checkoutResp)
	assert.True(t, checkoutResp.CanPlaceOrder)
	assert.InDelta(t, 90.0, checkoutResp.Summary.Subtotal, 0.001)
	assert.InDelta(t, 49.0, checkoutResp.Summary.DeliveryFee, 0.001)
	assert.InDelta(t, 144.0, checkoutResp.Summary.TotalAmount, 0.001)
	assert.NotNil(t, checkoutResp.Summary.SelectedAddress)
	assert.Equal(t, "cod", checkoutResp.Summary.SelectedPayment.ID)

	// Place the order.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var placeResp map[string]string
	decodeBody(t, resp, &placeResp)
	orderID := placeResp["order_id"]
	assert.NotEmpty(t, orderID)

	// The cart is empty afterwards.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cartResp)
	assert.Equal(t, 0, cartResp.TotalQuantity)

	// The committed order carries its item snapshots.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orderResp models.OrderWithItems
	decodeBody(t, resp, &orderResp)
	assert.Equal(t, models.OrderStatusPlaced, orderResp.Order.Status)
	assert.Equal(t, models.PaymentStatusPending, orderResp.Order.PaymentStatus)
	assert.InDelta(t, 144.0, orderResp.Order.TotalAmount, 0.001)
	assert.Len(t, orderResp.Items, 1)
	assert.Equal(t, "tomato_1kg", orderResp.Items[0].ProductID)
	assert.InDelta(t, 90.0, orderResp.Items[0].TotalPrice, 0.001)

	// The ledger statistics reflect it.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/stats", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var statsResp struct {
		TotalOrders int64   `json:"total_orders"`
		TotalSpent  float64 `json:"total_spent"`
	}
	decodeBody(t, resp, &statsResp)
	assert.Equal(t, int64(1), statsResp.TotalOrders)
	assert.InDelta(t, 144.0, statsResp.TotalSpent, 0.001)
}

func TestPlaceOrderValidationOverHTTP(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	// Empty cart is rejected.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Cart filled but no address saved.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "onion_1kg",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The cart survives the failed attempts.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/cart", nil)
	var cartResp struct {
		TotalQuantity int `json:"total_quantity"`
	}
	decodeBody(t, resp, &cartResp)
	assert.Equal(t, 1, cartResp.TotalQuantity)
}

func TestAddressEndpoints(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	// No default address yet.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/addresses/default", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Invalid pincode is rejected.
	bad := testAddress()
	bad["pincode"] = "12AB"
	resp = doJSON(t, app, http.MethodPost, "/api/v1/addresses", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/addresses", testAddress())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var home models.Address
	decodeBody(t, resp, &home)
	assert.True(t, home.IsDefault)

	office := testAddress()
	office["name"] = "Ravi Kumar Office"
	office["address_type"] = "OFFICE"
	resp = doJSON(t, app, http.MethodPost, "/api/v1/addresses", office)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var second models.Address
	decodeBody(t, resp, &second)
	assert.False(t, second.IsDefault)

	// Move the default flag to the office address.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/addresses/"+second.ID+"/default", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/addresses/default", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var current models.Address
	decodeBody(t, resp, &current)
	assert.Equal(t, second.ID, current.ID)

	// The listing keeps the default first.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/addresses", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var all []models.Address
	decodeBody(t, resp, &all)
	assert.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	// Deleting the default leaves no default behind.
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/addresses/"+second.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/addresses/default", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Unknown address is a 404.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/addresses/nope/default", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutSelectionEndpoints(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/checkout/payment-methods", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var methods []models.PaymentMethod
	decodeBody(t, resp, &methods)
	assert.Len(t, methods, 3)

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/checkout/payment", map[string]string{
		"payment_method_id": "upi",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/checkout/payment", map[string]string{
		"payment_method_id": "crypto",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Selecting an unknown address fails without disturbing the summary.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/checkout/address", map[string]string{
		"address_id": "nope",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/checkout/notes", map[string]string{
		"notes": "Ring the bell twice",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var checkoutResp struct {
		Summary models.CheckoutSummary `json:"summary"`
	}
	decodeBody(t, resp, &checkoutResp)
	assert.Equal(t, "upi", checkoutResp.Summary.SelectedPayment.ID)
	assert.Equal(t, "Ring the bell twice", checkoutResp.Summary.OrderNotes)
}

func TestOrderStatusEndpoint(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "milk_1l",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/addresses", testAddress())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var placeResp map[string]string
	decodeBody(t, resp, &placeResp)
	orderID := placeResp["order_id"]
	assert.NotEmpty(t, orderID)

	// PLACED cannot jump straight to DELIVERED.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]string{
		"status": models.OrderStatusDelivered,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	for _, status := range []string{models.OrderStatusConfirmed, models.OrderStatusShipped, models.OrderStatusDelivered} {
		resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]string{
			"status": status,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orderResp models.OrderWithItems
	decodeBody(t, resp, &orderResp)
	assert.Equal(t, models.OrderStatusDelivered, orderResp.Order.Status)
	assert.NotNil(t, orderResp.Order.ActualDelivery)
}

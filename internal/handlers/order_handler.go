package handlers

import (
	"log"

	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/stats", h.HandleGetStats)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	// Status transitions are driven by the fulfillment process.
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders retrieves the order history, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.History(c.Context())
	if err != nil {
		log.Printf("Error getting order history: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order with its item snapshots.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderWithItems(c.Context(), orderID)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandlePlaceOrder commits the current checkout as a new order.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	orderID, err := h.service.PlaceOrder(c.Context())
	if err != nil {
		log.Printf("Error placing order: %v", err)
		return respondError(c, "Could not place order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order placed successfully",
		"order_id": orderID,
	})
}

// HandleUpdateOrderStatus moves an order through the fulfillment state
// machine.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	if err := h.service.UpdateStatus(c.Context(), orderID, req.Status); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"status":  req.Status,
	})
}

// HandleGetStats returns ledger statistics for the user.
func (h *OrderHandler) HandleGetStats(c *fiber.Ctx) error {
	count, err := h.service.TotalOrderCount(c.Context())
	if err != nil {
		log.Printf("Error counting orders: %v", err)
		return respondError(c, "Could not compute order statistics", err)
	}
	spent, err := h.service.TotalSpent(c.Context())
	if err != nil {
		log.Printf("Error summing spend: %v", err)
		return respondError(c, "Could not compute order statistics", err)
	}
	return c.JSON(fiber.Map{
		"total_orders": count,
		"total_spent":  spent,
	})
}

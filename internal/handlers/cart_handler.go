package handlers

import (
	"log"

	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	cart *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{
		cart: cart,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
}

// HandleGetCart returns the cart lines joined with the catalog plus the
// derived totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.cart.Items(c.Context())
	if err != nil {
		log.Printf("Error reading cart: %v", err)
		return respondError(c, "Could not retrieve cart", err)
	}
	subtotal, err := h.cart.Subtotal(c.Context())
	if err != nil {
		return respondError(c, "Could not retrieve cart", err)
	}
	savings, err := h.cart.TotalSavings(c.Context())
	if err != nil {
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(fiber.Map{
		"items":             items,
		"unique_item_count": h.cart.UniqueItemCount(),
		"total_quantity":    h.cart.TotalQuantity(),
		"subtotal":          subtotal,
		"total_savings":     savings,
	})
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	h.cart.Add(c.Context(), req.ProductID, req.Quantity)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Item added to cart",
		"total_quantity": h.cart.TotalQuantity(),
	})
}

// HandleSetQuantity overwrites the quantity of a cart line. A quantity
// of zero removes the line.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	h.cart.SetQuantity(c.Context(), c.Params("productId"), req.Quantity)
	return c.JSON(fiber.Map{
		"message":        "Cart updated",
		"total_quantity": h.cart.TotalQuantity(),
	})
}

// HandleRemoveItem removes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	h.cart.Remove(c.Context(), c.Params("productId"))
	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
	})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	h.cart.Clear(c.Context())
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

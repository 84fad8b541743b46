package handlers

import (
	"log"

	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for the checkout summary and its
// selections.
type CheckoutHandler struct {
	checkout *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/", h.HandleGetSummary)
	checkoutRoutes.Get("/payment-methods", h.HandleGetPaymentMethods)
	checkoutRoutes.Patch("/address", h.HandleSelectAddress)
	checkoutRoutes.Patch("/payment", h.HandleSelectPayment)
	checkoutRoutes.Patch("/notes", h.HandleSetNotes)
}

// HandleGetSummary returns the current priced checkout summary.
func (h *CheckoutHandler) HandleGetSummary(c *fiber.Ctx) error {
	summary, err := h.checkout.Summary(c.Context())
	if err != nil {
		log.Printf("Error computing checkout summary: %v", err)
		return respondError(c, "Could not compute checkout summary", err)
	}
	return c.JSON(fiber.Map{
		"summary":         summary,
		"can_place_order": summary.CanPlaceOrder(),
	})
}

// HandleGetPaymentMethods returns the static payment method catalog.
func (h *CheckoutHandler) HandleGetPaymentMethods(c *fiber.Ctx) error {
	return c.JSON(h.checkout.PaymentMethods())
}

// HandleSelectAddress picks the delivery address for checkout.
func (h *CheckoutHandler) HandleSelectAddress(c *fiber.Ctx) error {
	var req struct {
		AddressID string `json:"address_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.checkout.SelectAddress(c.Context(), req.AddressID); err != nil {
		log.Printf("Error selecting address %s: %v", req.AddressID, err)
		return respondError(c, "Could not select address", err)
	}
	return c.JSON(fiber.Map{
		"message": "Delivery address selected",
	})
}

// HandleSelectPayment picks the payment method for checkout.
func (h *CheckoutHandler) HandleSelectPayment(c *fiber.Ctx) error {
	var req struct {
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.checkout.SelectPaymentMethod(req.PaymentMethodID); err != nil {
		log.Printf("Error selecting payment method %s: %v", req.PaymentMethodID, err)
		return respondError(c, "Could not select payment method", err)
	}
	return c.JSON(fiber.Map{
		"message": "Payment method selected",
	})
}

// HandleSetNotes attaches order notes to the pending checkout.
func (h *CheckoutHandler) HandleSetNotes(c *fiber.Ctx) error {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	h.checkout.SetOrderNotes(req.Notes)
	return c.JSON(fiber.Map{
		"message": "Order notes updated",
	})
}

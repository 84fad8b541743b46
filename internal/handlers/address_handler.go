package handlers

import (
	"log"

	"kirana/internal/models"
	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for the address book.
type AddressHandler struct {
	addresses *services.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(addresses *services.AddressService) *AddressHandler {
	return &AddressHandler{
		addresses: addresses,
	}
}

// RegisterRoutes registers the address routes with the Fiber app.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleListAddresses)
	addressRoutes.Post("/", h.HandleAddAddress)
	addressRoutes.Get("/default", h.HandleGetDefault)
	addressRoutes.Patch("/:id/default", h.HandleSetDefault)
	addressRoutes.Delete("/:id", h.HandleDeleteAddress)
}

// HandleListAddresses returns the saved addresses, default first.
func (h *AddressHandler) HandleListAddresses(c *fiber.Ctx) error {
	addressList, err := h.addresses.List(c.Context())
	if err != nil {
		log.Printf("Error listing addresses: %v", err)
		return respondError(c, "Could not retrieve addresses", err)
	}
	return c.JSON(addressList)
}

// HandleAddAddress saves a new address.
func (h *AddressHandler) HandleAddAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	saved, err := h.addresses.Add(c.Context(), address)
	if err != nil {
		log.Printf("Error adding address: %v", err)
		return respondError(c, "Could not save address", err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// HandleGetDefault returns the default address, 404 when none exists.
func (h *AddressHandler) HandleGetDefault(c *fiber.Ctx) error {
	address, err := h.addresses.GetDefault(c.Context())
	if err != nil {
		log.Printf("Error getting default address: %v", err)
		return respondError(c, "Could not retrieve default address", err)
	}
	if address == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No default address set",
		})
	}
	return c.JSON(address)
}

// HandleSetDefault moves the default flag to the given address.
func (h *AddressHandler) HandleSetDefault(c *fiber.Ctx) error {
	addressID := c.Params("id")
	if err := h.addresses.SetDefault(c.Context(), addressID); err != nil {
		log.Printf("Error setting default address %s: %v", addressID, err)
		return respondError(c, "Could not set default address", err)
	}
	return c.JSON(fiber.Map{
		"message": "Default address updated",
	})
}

// HandleDeleteAddress removes an address.
func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	addressID := c.Params("id")
	if err := h.addresses.Delete(c.Context(), addressID); err != nil {
		log.Printf("Error deleting address %s: %v", addressID, err)
		return respondError(c, "Could not delete address", err)
	}
	return c.JSON(fiber.Map{
		"message": "Address deleted",
	})
}

package handlers

import (
	"log"

	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for catalog browsing.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/search", h.HandleSearchProducts)
	router.Get("/products/:id", h.HandleGetProductByID)
	router.Get("/categories", h.HandleGetCategories)
	router.Get("/categories/:id/products", h.HandleGetProductsByCategory)
}

// HandleGetProducts retrieves the full catalog.
func (h *CatalogHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.Context())
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *CatalogHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(c.Context(), productID)
	if err != nil {
		log.Printf("Error getting product %s: %v", productID, err)
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleSearchProducts retrieves products matching the q query parameter.
func (h *CatalogHandler) HandleSearchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	products, err := h.service.SearchProducts(c.Context(), query)
	if err != nil {
		log.Printf("Error searching products for %q: %v", query, err)
		return respondError(c, "Could not search products", err)
	}
	return c.JSON(products)
}

// HandleGetCategories retrieves the active categories.
func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.Context())
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleGetProductsByCategory retrieves the products of one category.
func (h *CatalogHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	products, err := h.service.GetProductsByCategory(c.Context(), categoryID)
	if err != nil {
		log.Printf("Error getting products for category %s: %v", categoryID, err)
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

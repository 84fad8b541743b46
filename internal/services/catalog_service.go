package services

import (
	"context"
	"strings"

	"kirana/internal/models"
	"kirana/internal/repositories"
)

// CatalogService exposes read-only catalog lookups to the rest of the
// system. The catalog is an external collaborator as far as the cart and
// checkout are concerned; nothing here mutates products outside seeding.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *CatalogService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProductsByCategory retrieves the products of one category.
func (s *CatalogService) GetProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	return s.repo.GetByCategory(ctx, categoryID)
}

// SearchProducts retrieves products matching a text query. An empty
// query returns no results rather than the whole catalog.
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}
	return s.repo.Search(ctx, query)
}

// Categories retrieves the active categories.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.repo.Categories(ctx)
}

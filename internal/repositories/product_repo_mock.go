package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"kirana/internal/apperrors"
	"kirana/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository, used by unit tests and as a no-database fallback.
type MockProductRepository struct {
	products   map[string]models.Product
	categories map[string]models.Category
	mu         sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with ID %s", apperrors.ErrNotFound, id)
	}
	return &product, nil
}

// GetByCategory returns the products belonging to a category.
func (r *MockProductRepository) GetByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if p.Category == categoryID {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// Search returns products whose name or description contains the query,
// case-insensitively.
func (r *MockProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var productList []models.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}

// Categories returns all active categories.
func (r *MockProductRepository) Categories(ctx context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categoryList := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if c.IsActive {
			categoryList = append(categoryList, c)
		}
	}
	return categoryList, nil
}

// CreateCategory adds a new category.
func (r *MockProductRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories[category.ID] = *category
	return nil
}

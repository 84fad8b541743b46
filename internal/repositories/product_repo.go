package repositories

import (
	"context"

	"kirana/internal/models"
)

// ProductRepository defines read access to the product catalog plus the
// seeding writes used at startup.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error

	Categories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

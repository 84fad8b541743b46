package repositories

import (
	"context"
	"errors"
	"fmt"

	"kirana/internal/apperrors"
	"kirana/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to get all products: %v", apperrors.ErrStorage, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product with ID %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get product by ID %s: %v", apperrors.ErrStorage, id, err)
	}
	return &product, nil
}

// GetByCategory retrieves all products belonging to a category.
func (r *GORMProductRepository) GetByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("category = ?", categoryID).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to get products for category %s: %v", apperrors.ErrStorage, categoryID, err)
	}
	return products, nil
}

// Search retrieves products whose name or description contains the query,
// case-insensitively.
func (r *GORMProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search products for %q: %v", apperrors.ErrStorage, query, err)
	}
	return products, nil
}

// Create inserts a new product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("%w: failed to create product: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// Categories retrieves all active categories.
func (r *GORMProductRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to get categories: %v", apperrors.ErrStorage, err)
	}
	return categories, nil
}

// CreateCategory inserts a new category.
func (r *GORMProductRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("%w: failed to create category: %v", apperrors.ErrStorage, err)
	}
	return nil
}

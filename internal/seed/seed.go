// Package seed provides the sample grocery catalog loaded at startup
// when the catalog is empty.
package seed

import (
	"context"
	"fmt"

	"kirana/internal/models"
	"kirana/internal/repositories"
)

func ptr(v float64) *float64 { return &v }

// Categories returns the sample category set.
func Categories() []models.Category {
	return []models.Category{
		{ID: "vegetables", Name: "Fresh Vegetables", Icon: "🥬", IsActive: true},
		{ID: "fruits", Name: "Fresh Fruits", Icon: "🍎", IsActive: true},
		{ID: "dairy", Name: "Dairy & Eggs", Icon: "🥛", IsActive: true},
		{ID: "spices", Name: "Spices & Masalas", Icon: "🌶️", IsActive: true},
		{ID: "grains", Name: "Rice & Grains", Icon: "🌾", IsActive: true},
		{ID: "pulses", Name: "Dal & Pulses", Icon: "🫘", IsActive: true},
		{ID: "snacks", Name: "Snacks & Namkeen", Icon: "🍿", IsActive: true},
		{ID: "beverages", Name: "Tea & Beverages", Icon: "☕", IsActive: true},
	}
}

// Products returns the sample product set.
func Products() []models.Product {
	return []models.Product{
		{
			ID: "onion_1kg", Name: "Fresh Onions",
			Description: "Premium quality red onions, perfect for daily cooking",
			Price:       35, OriginalPrice: ptr(40),
			Category: "vegetables", Unit: "1 kg", IsInStock: true, Rating: 4.2, Discount: 12,
		},
		{
			ID: "tomato_1kg", Name: "Fresh Tomatoes",
			Description: "Ripe and juicy tomatoes, handpicked for freshness",
			Price:       45, OriginalPrice: ptr(50),
			Category: "vegetables", Unit: "1 kg", IsInStock: true, Rating: 4.5, Discount: 10,
		},
		{
			ID: "potato_1kg", Name: "Fresh Potatoes",
			Description: "Farm fresh potatoes, ideal for all your cooking needs",
			Price:       28,
			Category:    "vegetables", Unit: "1 kg", IsInStock: true, Rating: 4.3,
		},
		{
			ID: "green_chili_250g", Name: "Green Chillies",
			Description: "Fresh green chillies to add that perfect spice",
			Price:       25,
			Category:    "vegetables", Unit: "250 g", IsInStock: true, Rating: 4.1,
		},
		{
			ID: "banana_dozen", Name: "Fresh Bananas",
			Description: "Sweet and ripe bananas, rich in potassium",
			Price:       48, OriginalPrice: ptr(55),
			Category: "fruits", Unit: "1 dozen", IsInStock: true, Rating: 4.4, Discount: 12,
		},
		{
			ID: "apple_1kg", Name: "Kashmiri Apples",
			Description: "Crisp and juicy apples from Kashmir orchards",
			Price:       180, OriginalPrice: ptr(200),
			Category: "fruits", Unit: "1 kg", IsInStock: true, Rating: 4.6, Discount: 10,
		},
		{
			ID: "milk_1l", Name: "Full Cream Milk",
			Description: "Fresh full cream milk, pasteurized and pouch packed",
			Price:       66,
			Category:    "dairy", Unit: "1 L", IsInStock: true, Rating: 4.5,
		},
		{
			ID: "paneer_200g", Name: "Fresh Paneer",
			Description: "Soft and fresh cottage cheese, made daily",
			Price:       90, OriginalPrice: ptr(100),
			Category: "dairy", Unit: "200 g", IsInStock: true, Rating: 4.3, Discount: 10,
		},
		{
			ID: "turmeric_100g", Name: "Turmeric Powder",
			Description: "Pure ground turmeric with rich color and aroma",
			Price:       40,
			Category:    "spices", Unit: "100 g", IsInStock: true, Rating: 4.7,
		},
		{
			ID: "basmati_5kg", Name: "Basmati Rice",
			Description: "Long grain aged basmati rice, aromatic and fluffy",
			Price:       550, OriginalPrice: ptr(620),
			Category: "grains", Unit: "5 kg", IsInStock: true, Rating: 4.8, Discount: 11,
		},
		{
			ID: "toor_dal_1kg", Name: "Toor Dal",
			Description: "Premium unpolished toor dal, protein rich",
			Price:       145, OriginalPrice: ptr(160),
			Category: "pulses", Unit: "1 kg", IsInStock: true, Rating: 4.4, Discount: 9,
		},
		{
			ID: "tea_250g", Name: "Assam Tea",
			Description: "Strong Assam CTC tea for the perfect morning cup",
			Price:       120,
			Category:    "beverages", Unit: "250 g", IsInStock: true, Rating: 4.5,
		},
	}
}

// Apply inserts the sample catalog when the repository is empty.
func Apply(ctx context.Context, repo repositories.ProductRepository) error {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check catalog before seeding: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, category := range Categories() {
		c := category
		if err := repo.CreateCategory(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.ID, err)
		}
	}
	for _, product := range Products() {
		p := product
		if err := repo.Create(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", product.ID, err)
		}
	}
	return nil
}

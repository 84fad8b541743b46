package models

// Product represents a catalog product. Catalog entries are read-only
// during a session; order items snapshot name and price at purchase time.
type Product struct {
	ID            string   `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	Description   string   `json:"description" validate:"omitempty,max=500"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice *float64 `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	ImageURL      string   `json:"image_url"`
	Category      string   `json:"category" gorm:"index;type:varchar(64)" validate:"required"`
	Unit          string   `json:"unit"` // e.g. "1 kg", "500 ml", "piece"
	IsInStock     bool     `json:"is_in_stock"`
	Rating        float32  `json:"rating" validate:"gte=0,lte=5"`
	Discount      int      `json:"discount" validate:"gte=0,lte=100"` // percentage
}

// Category groups catalog products for browsing.
type Category struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name     string `json:"name" validate:"required"`
	Icon     string `json:"icon"`
	IsActive bool   `json:"is_active"`
}

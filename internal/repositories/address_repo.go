package repositories

import (
	"context"

	"kirana/internal/models"
)

// AddressRepository defines the interface for address data access.
//
// Create and SetDefault own the "clear all defaults, then set one"
// sequence: implementations must execute it as a single atomic unit so a
// failure mid-sequence can never persist zero or two defaults.
type AddressRepository interface {
	// GetAll returns the user's addresses ordered default-first, then
	// newest-first.
	GetAll(ctx context.Context, userID string) ([]models.Address, error)
	GetByID(ctx context.Context, id string) (*models.Address, error)
	// GetDefault returns the single default address, or ErrNotFound.
	GetDefault(ctx context.Context, userID string) (*models.Address, error)
	// Create inserts the address; when address.IsDefault is set it
	// atomically clears the default flag on the user's other addresses.
	Create(ctx context.Context, address *models.Address) error
	// SetDefault atomically moves the default flag to the given address.
	SetDefault(ctx context.Context, userID, addressID string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, userID string) (int64, error)
}

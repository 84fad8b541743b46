package repositories

import (
	"context"
	"errors"
	"fmt"

	"kirana/internal/apperrors"
	"kirana/internal/models"

	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{
		db: db,
	}
}

// GetAll retrieves the user's addresses, default first, then newest first.
func (r *GORMAddressRepository) GetAll(ctx context.Context, userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get addresses: %v", apperrors.ErrStorage, err)
	}
	return addresses, nil
}

// GetByID retrieves a single address by its ID.
func (r *GORMAddressRepository) GetByID(ctx context.Context, id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: address with ID %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get address by ID %s: %v", apperrors.ErrStorage, id, err)
	}
	return &address, nil
}

// GetDefault retrieves the user's default address.
func (r *GORMAddressRepository) GetDefault(ctx context.Context, userID string) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no default address for user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: failed to get default address: %v", apperrors.ErrStorage, err)
	}
	return &address, nil
}

// Create inserts the address. When the address is flagged default the
// clear-then-insert sequence runs inside one transaction, so the
// single-default invariant holds even if the insert fails.
func (r *GORMAddressRepository) Create(ctx context.Context, address *models.Address) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", address.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create address: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// SetDefault moves the default flag to the given address in a single
// transaction: clear all defaults, set the new one. A failure between the
// two steps rolls back to the previous default.
func (r *GORMAddressRepository) SetDefault(ctx context.Context, userID, addressID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: address with ID %s", apperrors.ErrNotFound, addressID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: failed to set default address: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// Delete removes the address. Deleting the default leaves the user with
// no default address; no replacement is chosen automatically.
func (r *GORMAddressRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("%w: failed to delete address: %v", apperrors.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: address with ID %s", apperrors.ErrNotFound, id)
	}
	return nil
}

// Count returns the number of addresses the user has saved.
func (r *GORMAddressRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count addresses: %v", apperrors.ErrStorage, err)
	}
	return count, nil
}

package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"kirana/internal/apperrors"
	"kirana/internal/models"
)

// MockAddressRepository is an in-memory implementation of
// AddressRepository. The mutex is the critical section standing in for
// the GORM transaction: the clear-then-set sequence cannot interleave
// across concurrent callers.
type MockAddressRepository struct {
	addresses map[string]models.Address
	mu        sync.RWMutex

	// FailNext makes the next write operation return a storage error,
	// for exercising rollback behavior in tests.
	FailNext bool
}

// NewMockAddressRepository creates a new instance of MockAddressRepository.
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{
		addresses: make(map[string]models.Address),
	}
}

func (r *MockAddressRepository) failNextLocked() bool {
	if r.FailNext {
		r.FailNext = false
		return true
	}
	return false
}

// GetAll returns the user's addresses, default first, then newest first.
func (r *MockAddressRepository) GetAll(ctx context.Context, userID string) ([]models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var addressList []models.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			addressList = append(addressList, a)
		}
	}
	sort.Slice(addressList, func(i, j int) bool {
		if addressList[i].IsDefault != addressList[j].IsDefault {
			return addressList[i].IsDefault
		}
		return addressList[i].CreatedAt.After(addressList[j].CreatedAt)
	})
	return addressList, nil
}

// GetByID returns an address by its ID.
func (r *MockAddressRepository) GetByID(ctx context.Context, id string) (*models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	address, ok := r.addresses[id]
	if !ok {
		return nil, fmt.Errorf("%w: address with ID %s", apperrors.ErrNotFound, id)
	}
	return &address, nil
}

// GetDefault returns the user's default address.
func (r *MockAddressRepository) GetDefault(ctx context.Context, userID string) (*models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.addresses {
		if a.UserID == userID && a.IsDefault {
			addr := a
			return &addr, nil
		}
	}
	return nil, fmt.Errorf("%w: no default address for user %s", apperrors.ErrNotFound, userID)
}

// Create adds a new address, clearing other defaults when flagged.
func (r *MockAddressRepository) Create(ctx context.Context, address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNextLocked() {
		return fmt.Errorf("%w: simulated create failure", apperrors.ErrStorage)
	}
	if address.IsDefault {
		for id, a := range r.addresses {
			if a.UserID == address.UserID && a.IsDefault {
				a.IsDefault = false
				r.addresses[id] = a
			}
		}
	}
	r.addresses[address.ID] = *address
	return nil
}

// SetDefault moves the default flag to the given address. The whole
// sequence runs under the write lock; when the target does not exist
// nothing is modified.
func (r *MockAddressRepository) SetDefault(ctx context.Context, userID, addressID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNextLocked() {
		return fmt.Errorf("%w: simulated set-default failure", apperrors.ErrStorage)
	}
	target, ok := r.addresses[addressID]
	if !ok || target.UserID != userID {
		return fmt.Errorf("%w: address with ID %s", apperrors.ErrNotFound, addressID)
	}
	for id, a := range r.addresses {
		if a.UserID == userID && a.IsDefault {
			a.IsDefault = false
			r.addresses[id] = a
		}
	}
	target.IsDefault = true
	r.addresses[addressID] = target
	return nil
}

// Delete removes an address by its ID.
func (r *MockAddressRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNextLocked() {
		return fmt.Errorf("%w: simulated delete failure", apperrors.ErrStorage)
	}
	if _, ok := r.addresses[id]; !ok {
		return fmt.Errorf("%w: address with ID %s", apperrors.ErrNotFound, id)
	}
	delete(r.addresses, id)
	return nil
}

// Count returns the number of addresses the user has saved.
func (r *MockAddressRepository) Count(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, a := range r.addresses {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}

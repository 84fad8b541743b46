package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kirana/internal/apperrors"
	"kirana/internal/models"
	"kirana/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AddressService is the address book for one user session. It owns the
// single-default invariant: across the user's addresses at most one
// carries the default flag. The clear-then-set sequence itself is atomic
// inside the repository; this service decides when it runs.
//
// Policy: the first address a user saves becomes the default regardless
// of the requested flag, so checkout always has an anchor once any
// address exists. Deleting the default deliberately leaves zero defaults;
// choosing a replacement is the caller's concern.
type AddressService struct {
	repo     repositories.AddressRepository
	validate *validator.Validate
	userID   string

	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository, userID string) *AddressService {
	return &AddressService{
		repo:     repo,
		validate: validator.New(),
		userID:   userID,
		subs:     make(map[chan struct{}]struct{}),
	}
}

// Add validates and saves a new address. Missing id, user, type and
// timestamp are filled in; the first address for the user is forced to
// be the default.
func (s *AddressService) Add(ctx context.Context, address models.Address) (*models.Address, error) {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	address.UserID = s.userID
	if address.AddressType == "" {
		address.AddressType = models.AddressTypeHome
	}
	if address.CreatedAt.IsZero() {
		address.CreatedAt = time.Now()
	}

	if err := s.validate.Struct(address); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	count, err := s.repo.Count(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}
	if count == 0 {
		address.IsDefault = true
	}

	if err := s.repo.Create(ctx, &address); err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}

	s.notify()
	return &address, nil
}

// List returns the user's addresses, default first, then newest first.
func (s *AddressService) List(ctx context.Context) ([]models.Address, error) {
	return s.repo.GetAll(ctx, s.userID)
}

// GetByID returns one address by id.
func (s *AddressService) GetByID(ctx context.Context, id string) (*models.Address, error) {
	return s.repo.GetByID(ctx, id)
}

// GetDefault returns the default address, or (nil, nil) when the user
// has none.
func (s *AddressService) GetDefault(ctx context.Context) (*models.Address, error) {
	address, err := s.repo.GetDefault(ctx, s.userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default address: %w", err)
	}
	return address, nil
}

// SetDefault moves the default flag to the given address.
func (s *AddressService) SetDefault(ctx context.Context, id string) error {
	if err := s.repo.SetDefault(ctx, s.userID, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to set default address: %w", err)
	}
	s.notify()
	return nil
}

// Delete removes an address. No replacement default is chosen when the
// default is deleted.
func (s *AddressService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Subscribe returns a channel signalled after every address-book
// mutation.
func (s *AddressService) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscription channel.
func (s *AddressService) Unsubscribe(ch <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if sub == ch {
			delete(s.subs, sub)
			return
		}
	}
}

func (s *AddressService) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"kirana/internal/apperrors"
	"kirana/internal/models"
)

// CheckoutService aggregates the cart, the address book and the payment
// method catalog into a priced checkout summary. The summary is a pure
// function of the latest inputs: it is recomputed on every Summary call,
// and upstream change signals are forwarded to this service's own
// subscribers so downstream callers know to recompute.
//
// Default selections on first load: the address book's default address
// (or the first listed when none is marked), and cash on delivery when
// present in the payment catalog.
type CheckoutService struct {
	cart      *CartService
	addresses *AddressService
	methods   []models.PaymentMethod

	mu              sync.Mutex
	selectedAddress *models.Address
	selectedPayment *models.PaymentMethod
	addressChosen   bool // user picked explicitly; stop tracking the book's default
	paymentChosen   bool
	discount        float64
	notes           string
	subs            map[chan struct{}]struct{}

	placing atomic.Bool
	done    chan struct{}
}

// NewCheckoutService creates the aggregator and starts forwarding
// upstream change signals. Call Close to stop the forwarder.
func NewCheckoutService(cart *CartService, addresses *AddressService) *CheckoutService {
	s := &CheckoutService{
		cart:      cart,
		addresses: addresses,
		methods:   models.DefaultPaymentMethods(),
		subs:      make(map[chan struct{}]struct{}),
		done:      make(chan struct{}),
	}
	go s.forward(cart.Subscribe(), addresses.Subscribe())
	return s
}

// Close stops forwarding upstream signals.
func (s *CheckoutService) Close() {
	close(s.done)
}

func (s *CheckoutService) forward(cartCh, addrCh <-chan struct{}) {
	defer s.cart.Unsubscribe(cartCh)
	defer s.addresses.Unsubscribe(addrCh)
	for {
		select {
		case <-cartCh:
		case <-addrCh:
		case <-s.done:
			return
		}
		s.notify()
	}
}

// Summary computes the current checkout summary from the latest cart
// contents, address book state and selections.
func (s *CheckoutService) Summary(ctx context.Context) (*models.CheckoutSummary, error) {
	items, err := s.cart.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout summary: %w", err)
	}
	addressList, err := s.addresses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout summary: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolveAddressLocked(addressList)
	s.resolvePaymentLocked()

	b := computeBill(items, s.discount)
	summary := &models.CheckoutSummary{
		Items:           items,
		Addresses:       addressList,
		SelectedAddress: s.selectedAddress,
		PaymentMethods:  s.methods,
		SelectedPayment: s.selectedPayment,
		Subtotal:        b.Subtotal,
		DeliveryFee:     b.DeliveryFee,
		PlatformFee:     b.PlatformFee,
		Discount:        b.Discount,
		Savings:         b.Savings,
		TotalAmount:     b.TotalAmount,
		OrderNotes:      s.notes,
		IsPlacingOrder:  s.placing.Load(),
	}
	return summary, nil
}

// resolveAddressLocked keeps the selected address consistent with the
// address book: an explicit selection sticks while it still exists,
// otherwise the book's default (or first listed) address is chosen.
func (s *CheckoutService) resolveAddressLocked(addressList []models.Address) {
	if s.addressChosen && s.selectedAddress != nil {
		for i := range addressList {
			if addressList[i].ID == s.selectedAddress.ID {
				s.selectedAddress = &addressList[i]
				return
			}
		}
		// Selection was deleted from the book; fall back.
		s.addressChosen = false
	}
	s.selectedAddress = nil
	for i := range addressList {
		if addressList[i].IsDefault {
			s.selectedAddress = &addressList[i]
			return
		}
	}
	if len(addressList) > 0 {
		s.selectedAddress = &addressList[0]
	}
}

func (s *CheckoutService) resolvePaymentLocked() {
	if s.paymentChosen && s.selectedPayment != nil {
		return
	}
	for i := range s.methods {
		if s.methods[i].ID == models.PaymentMethodCOD && s.methods[i].IsEnabled {
			s.selectedPayment = &s.methods[i]
			return
		}
	}
	s.selectedPayment = nil
}

// SelectAddress picks a delivery address by id.
func (s *CheckoutService) SelectAddress(ctx context.Context, id string) error {
	address, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.selectedAddress = address
	s.addressChosen = true
	s.mu.Unlock()

	s.notify()
	return nil
}

// SelectPaymentMethod picks a payment method by id.
func (s *CheckoutService) SelectPaymentMethod(id string) error {
	for i := range s.methods {
		if s.methods[i].ID == id {
			if !s.methods[i].IsEnabled {
				return fmt.Errorf("%w: payment method %s is disabled", apperrors.ErrValidation, id)
			}
			s.mu.Lock()
			s.selectedPayment = &s.methods[i]
			s.paymentChosen = true
			s.mu.Unlock()
			s.notify()
			return nil
		}
	}
	return fmt.Errorf("%w: payment method %s", apperrors.ErrNotFound, id)
}

// PaymentMethods returns the static payment method catalog.
func (s *CheckoutService) PaymentMethods() []models.PaymentMethod {
	return s.methods
}

// SetOrderNotes attaches free-text notes to the pending checkout.
func (s *CheckoutService) SetOrderNotes(notes string) {
	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
	s.notify()
}

// SetDiscount injects an externally supplied discount amount. Negative
// values are normalized to zero.
func (s *CheckoutService) SetDiscount(amount float64) {
	if amount < 0 {
		amount = 0
	}
	s.mu.Lock()
	s.discount = amount
	s.mu.Unlock()
	s.notify()
}

// beginPlacement marks a placement in flight. It returns false when one
// is already running, which makes a concurrent second placement fail the
// canPlaceOrder precondition.
func (s *CheckoutService) beginPlacement() bool {
	return s.placing.CompareAndSwap(false, true)
}

// endPlacement clears the in-flight marker.
func (s *CheckoutService) endPlacement() {
	s.placing.Store(false)
	s.notify()
}

// Subscribe returns a channel signalled whenever any checkout input
// changes: cart contents, the address book, or a selection.
func (s *CheckoutService) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscription channel.
func (s *CheckoutService) Unsubscribe(ch <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if sub == ch {
			delete(s.subs, sub)
			return
		}
	}
}

func (s *CheckoutService) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

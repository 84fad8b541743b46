package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"kirana/internal/apperrors"
	"kirana/internal/models"
	"kirana/internal/repositories"
)

// CartService is the session-scoped cart store: a mapping of product id
// to desired quantity plus derived views joined with the catalog.
// Mutations never fail under valid input; invalid quantities are
// normalized instead of rejected. Every mutation signals subscribers so
// downstream derived state (the checkout summary) is recomputed.
//
// When a session store is configured, mutations are written through to
// it best effort: a mirror failure is logged and never fails the
// mutation, since the in-memory map is the source of truth.
type CartService struct {
	catalog repositories.ProductRepository
	session repositories.CartSessionStore // optional, may be nil
	userID  string

	mu    sync.Mutex
	lines map[string]cartEntry
	seq   uint64
	subs  map[chan struct{}]struct{}
}

// cartEntry pairs a line with a monotonic counter so the
// most-recently-added ordering is stable even within one clock tick.
type cartEntry struct {
	line models.CartLine
	seq  uint64
}

// NewCartService creates a cart for one user session. session may be nil
// when no durability mirror is configured.
func NewCartService(catalog repositories.ProductRepository, session repositories.CartSessionStore, userID string) *CartService {
	return &CartService{
		catalog: catalog,
		session: session,
		userID:  userID,
		lines:   make(map[string]cartEntry),
		subs:    make(map[chan struct{}]struct{}),
	}
}

// Restore reloads the cart from the session store, replacing current
// contents. A no-op when no session store is configured.
func (s *CartService) Restore(ctx context.Context) error {
	if s.session == nil {
		return nil
	}
	lines, err := s.session.Load(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to restore cart session: %w", err)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].AddedAt.Before(lines[j].AddedAt)
	})

	s.mu.Lock()
	s.lines = make(map[string]cartEntry, len(lines))
	for _, line := range lines {
		s.seq++
		s.lines[line.ProductID] = cartEntry{line: line, seq: s.seq}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Add increments the quantity of a product, inserting the line when
// absent. Quantities below 1 are normalized to 1. Adding refreshes the
// line's position in the most-recently-added ordering.
func (s *CartService) Add(ctx context.Context, productID string, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	entry, ok := s.lines[productID]
	if ok {
		entry.line.Quantity += qty
	} else {
		entry.line = models.CartLine{ProductID: productID, Quantity: qty}
	}
	entry.line.AddedAt = time.Now()
	s.seq++
	entry.seq = s.seq
	s.lines[productID] = entry
	line := entry.line
	s.mu.Unlock()

	s.mirrorSave(ctx, line)
	s.notify()
}

// SetQuantity overwrites the quantity of a product. A quantity of zero
// or below removes the line, making SetQuantity(id, 0) equivalent to
// Remove(id).
func (s *CartService) SetQuantity(ctx context.Context, productID string, qty int) {
	if qty <= 0 {
		s.Remove(ctx, productID)
		return
	}

	s.mu.Lock()
	entry, ok := s.lines[productID]
	if !ok {
		entry.line = models.CartLine{ProductID: productID, AddedAt: time.Now()}
		s.seq++
		entry.seq = s.seq
	}
	entry.line.Quantity = qty
	s.lines[productID] = entry
	line := entry.line
	s.mu.Unlock()

	s.mirrorSave(ctx, line)
	s.notify()
}

// Remove deletes the line for a product; a no-op when absent.
func (s *CartService) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	_, ok := s.lines[productID]
	delete(s.lines, productID)
	s.mu.Unlock()

	if s.session != nil {
		if err := s.session.Remove(ctx, s.userID, productID); err != nil {
			log.Printf("cart session remove failed for product %s: %v", productID, err)
		}
	}
	if ok {
		s.notify()
	}
}

// Clear empties the cart. Idempotent; used after a successful order.
func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = make(map[string]cartEntry)
	s.mu.Unlock()

	if s.session != nil {
		if err := s.session.Clear(ctx, s.userID); err != nil {
			log.Printf("cart session clear failed: %v", err)
		}
	}
	s.notify()
}

// Lines returns the raw cart lines, most recently added first.
func (s *CartService) Lines() []models.CartLine {
	entries := s.snapshot()
	lines := make([]models.CartLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.line)
	}
	return lines
}

// Items returns the cart lines joined with their catalog products, most
// recently added first. Lines whose product no longer exists in the
// catalog are skipped; that can only happen after restoring a stale
// session.
func (s *CartService) Items(ctx context.Context) ([]models.CartItem, error) {
	entries := s.snapshot()
	items := make([]models.CartItem, 0, len(entries))
	for _, e := range entries {
		product, err := s.catalog.GetByID(ctx, e.line.ProductID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.Printf("dropping cart line for unknown product %s", e.line.ProductID)
				continue
			}
			return nil, fmt.Errorf("failed to resolve cart line %s: %w", e.line.ProductID, err)
		}
		items = append(items, models.CartItem{
			Product:  *product,
			Quantity: e.line.Quantity,
			AddedAt:  e.line.AddedAt,
		})
	}
	return items, nil
}

// UniqueItemCount returns the number of distinct products in the cart.
func (s *CartService) UniqueItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// TotalQuantity returns the sum of all line quantities.
func (s *CartService) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for _, e := range s.lines {
		total += e.line.Quantity
	}
	return total
}

// Subtotal returns the cart total at current catalog prices.
func (s *CartService) Subtotal(ctx context.Context) (float64, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	var subtotal float64
	for _, item := range items {
		subtotal += item.TotalPrice()
	}
	return subtotal, nil
}

// TotalSavings returns the amount saved versus original prices across
// the cart.
func (s *CartService) TotalSavings(ctx context.Context) (float64, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	var savings float64
	for _, item := range items {
		savings += item.TotalSavings()
	}
	return savings, nil
}

// Subscribe returns a channel that receives a signal after every cart
// mutation. Signals are coalescing: a slow reader sees at least one
// signal for any burst of writes.
func (s *CartService) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscription channel.
func (s *CartService) Unsubscribe(ch <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if sub == ch {
			delete(s.subs, sub)
			return
		}
	}
}

func (s *CartService) snapshot() []cartEntry {
	s.mu.Lock()
	entries := make([]cartEntry, 0, len(s.lines))
	for _, e := range s.lines {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq > entries[j].seq
	})
	return entries
}

func (s *CartService) mirrorSave(ctx context.Context, line models.CartLine) {
	if s.session == nil {
		return
	}
	if err := s.session.Save(ctx, s.userID, line); err != nil {
		log.Printf("cart session save failed for product %s: %v", line.ProductID, err)
	}
}

func (s *CartService) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

package cart

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/domain"
	"github.com/visionaryvybes/visiomancer-core/internal/storage"
)

// Store owns one visitor's line items, quantity math, totals, and the cart
// visibility flag. Items are keyed by (ProductID, VariantID); the list never
// holds two entries with the same pair, and mutations preserve the insertion
// order of first-added identities so the UI renders stably.
//
// Every mutation persists a snapshot through the key-value store so a
// returning visitor keeps their cart. Snapshot failures are logged and
// swallowed: cart mutations have no error path.
type Store struct {
	mu    sync.Mutex
	items []domain.CartItem
	open  bool

	kv  storage.Store
	key string
	log *zap.Logger
}

// NewStore creates a cart store persisted under key, restoring any previous
// snapshot.
func NewStore(ctx context.Context, kv storage.Store, key string, log *zap.Logger) *Store {
	s := &Store{
		kv:  kv,
		key: key,
		log: log,
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	raw, err := s.kv.Get(ctx, s.key, "")
	if err != nil {
		s.log.Warn("Failed to read cart snapshot", zap.String("key", s.key), zap.Error(err))
		return
	}
	if raw == "" {
		return
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("Discarding malformed cart snapshot", zap.String("key", s.key), zap.Error(err))
		return
	}
	s.items = items
}

func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(s.items)
	if err != nil {
		s.log.Warn("Failed to encode cart snapshot", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		s.log.Warn("Failed to persist cart snapshot", zap.String("key", s.key), zap.Error(err))
	}
}

// Add merges item into the cart. An existing entry with the same
// (ProductID, VariantID) has its quantity incremented by one; otherwise the
// item is appended with quantity 1. Adding marks the cart open.
func (s *Store) Add(ctx context.Context, item domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID && s.items[i].VariantID == item.VariantID {
			s.items[i].Quantity++
			s.open = true
			s.persist(ctx)
			return
		}
	}

	item.Quantity = 1
	s.items = append(s.items, item)
	s.open = true
	s.persist(ctx)
}

// Remove deletes entries for productID. With a non-empty variantID only the
// matching entry goes; with an empty variantID every entry for the product
// goes. Removing a non-existent entry is a no-op.
func (s *Store) Remove(ctx context.Context, productID, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID == productID && (variantID == "" || it.VariantID == variantID) {
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	s.persist(ctx)
}

// UpdateQuantity sets the entry's quantity to an absolute value. A quantity
// of zero or less removes the entry.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, productID, variantID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].VariantID == variantID {
			s.items[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Items returns a snapshot copy of the line items in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total computes the cart total on demand, never caching it.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, it := range s.items {
		total += it.LineTotal()
	}
	return total
}

// Count returns the summed quantity across all entries, for the cart badge.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// IsOpen reports the cart drawer visibility flag. It is UI state only and
// never feeds into totals or checkout.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Open marks the cart drawer visible.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

// Close marks the cart drawer hidden.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

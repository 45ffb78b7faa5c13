package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/andreasstove999/costify/internal/pricing"
)

// Persistence is the durable blob behind a cart. Load reports false when nothing was saved yet.
type Persistence interface {
	Load(ctx context.Context) ([]LineItem, bool, error)
	Save(ctx context.Context, items []LineItem) error
}

// Store owns the ordered line items of one cart session.
// Every mutation is saved; a failed save restores the previous items.
type Store struct {
	mu          sync.Mutex
	items       []LineItem
	persistence Persistence
}

// Open loads the initial state from p.
func Open(ctx context.Context, p Persistence) (*Store, error) {
	items, ok, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		items = nil
	}
	return &Store{items: cloneItems(items), persistence: p}, nil
}

// Add appends item. markupOverride nil means the default markup.
// Identifiers are not checked for uniqueness.
func (s *Store) Add(ctx context.Context, item LineItem, markupOverride *float64) error {
	it := cloneItem(item)
	it.Type = ItemTypePacket
	it.MarkupPercentage = pricing.DefaultMarkupPercentage
	if markupOverride != nil {
		it.MarkupPercentage = *markupOverride
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(cloneItems(s.items), it)
	return s.commit(ctx, next)
}

// Update applies patch to every item with the given id. Unknown ids are a no-op.
func (s *Store) Update(ctx context.Context, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneItems(s.items)
	found := false
	for i := range next {
		if next[i].ID == id {
			patch.apply(&next[i])
			found = true
		}
	}
	if !found {
		return nil
	}
	return s.commit(ctx, next)
}

// Remove deletes every item with the given id. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]LineItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, cloneItem(it))
		}
	}
	if len(next) == len(s.items) {
		return nil
	}
	return s.commit(ctx, next)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, []LineItem{})
}

// Items returns a copy of the current items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneItems(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store) Totals() (pricing.CartTotals, error) {
	s.mu.Lock()
	items := PricingItems(s.items)
	s.mu.Unlock()

	return pricing.CalculateCartTotals(items)
}

func (s *Store) commit(ctx context.Context, next []LineItem) error {
	if err := s.persistence.Save(ctx, next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.items = next
	return nil
}

// Package cart holds the in-memory shopping carts. Carts are session state:
// they are never persisted and an empty cart is rebuilt for every session.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quality  string          `json:"quality"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
}

// Cart is an ordered collection of line items. All methods are safe for
// concurrent use; the mutex gives the single-writer guarantee the handlers
// rely on (no interleaved partial mutation).
type Cart struct {
	mu    sync.Mutex
	items []Item
}

func New() *Cart { return &Cart{} }

// AddItem appends the item, or merges it into the existing entry when an
// item with the same ID is already present (quantities are summed).
func (c *Cart) AddItem(it Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == it.ID {
			c.items[i].Quantity = c.items[i].Quantity.Add(it.Quantity)
			return
		}
	}
	c.items = append(c.items, it)
}

// RemoveItem deletes the entry at index. Out-of-range indices leave the
// cart unchanged.
func (c *Cart) RemoveItem(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(index)
}

func (c *Cart) removeLocked(index int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
}

// UpdateQuantity replaces the quantity at index. A quantity of zero or less
// removes the entry instead.
func (c *Cart) UpdateQuantity(index int, quantity decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.items) {
		return
	}
	if quantity.Sign() <= 0 {
		c.removeLocked(index)
		return
	}
	c.items[index].Quantity = quantity
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// ItemCount is the sum of all quantities.
func (c *Cart) ItemCount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Quantity)
	}
	return sum
}

// Total is the sum of price times quantity over all entries.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Price.Mul(it.Quantity))
	}
	return sum
}

// Store hands out one cart per user. Carts are created lazily on first use.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func (s *Store) Cart(userID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = New()
		s.carts[userID] = c
	}
	return c
}

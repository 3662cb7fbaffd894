package stores

import (
	"fmt"
	"sync"
	"time"

	"minimarket/internal/domain"
	"minimarket/internal/kv"
)

// Cart holds the in-progress cart under one installation-wide key,
// regardless of who is signed in. Merge-on-add: adding a product that is
// already present bumps its quantity by one and leaves addedAt alone.
// Every mutation persists the full cart before returning; the mutex makes
// the read-transform-write cycle atomic against concurrent adds.
type Cart struct {
	mu    sync.Mutex
	kv    kv.Store
	items []domain.CartItem
	err   error
}

// NewCart loads the persisted cart. A read or parse failure starts the
// cart empty and records the error flag.
func NewCart(store kv.Store) *Cart {
	c := &Cart{kv: store}
	items, err := loadSlice[domain.CartItem](store, keyCart)
	if err != nil {
		c.err = fmt.Errorf("load cart: %w", err)
		c.items = []domain.CartItem{}
		return c
	}
	c.items = items
	return c
}

// Items returns a copy of the current cart in insertion order.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySlice(c.items)
}

func (c *Cart) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Add merges the product into the cart: +1 quantity when present,
// otherwise a new item with quantity 1 and addedAt stamped now.
func (c *Cart) Add(p domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := copySlice(c.items)
	merged := false
	for i := range next {
		if next[i].ID == p.ID {
			next[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, domain.CartItem{
			ID:             p.ID,
			Name:           p.Name,
			Price:          p.Price,
			Image:          p.Image,
			SellerUsername: p.SellerUsername,
			SellerCountry:  p.SellerCountry,
			SellerState:    p.SellerState,
			Quantity:       1,
			AddedAt:        time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.persist(next, "add to cart")
}

// Remove drops the item with the given id; an absent id is a no-op.
func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(productID)
}

// SetQuantity sets the item's quantity exactly. A quantity of zero or
// below removes the item; nothing below 1 is ever persisted.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		return c.removeLocked(productID)
	}
	next := copySlice(c.items)
	for i := range next {
		if next[i].ID == productID {
			next[i].Quantity = quantity
		}
	}
	return c.persist(next, "update quantity")
}

// Drain captures the totals and empties the cart in one locked step, so a
// checkout cannot misreport what was paid when another mutation lands
// between the read and the clear. The cart is left untouched on a failed
// persist.
func (c *Cart) Drain() (total float64, count int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
		count += it.Quantity
	}
	if err := c.persist([]domain.CartItem{}, "checkout"); err != nil {
		return 0, 0, err
	}
	return total, count, nil
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persist([]domain.CartItem{}, "clear cart")
}

// TotalPrice sums price times quantity over all items. Rounding to
// currency precision is the caller's concern.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// TotalItems sums the quantities over all items.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) removeLocked(productID string) error {
	next := []domain.CartItem{}
	for _, it := range c.items {
		if it.ID != productID {
			next = append(next, it)
		}
	}
	return c.persist(next, "remove from cart")
}

func (c *Cart) persist(items []domain.CartItem, op string) error {
	if err := saveSlice(c.kv, keyCart, items); err != nil {
		c.err = fmt.Errorf("%s: %w", op, err)
		return c.err
	}
	c.err = nil
	c.items = items
	return nil
}

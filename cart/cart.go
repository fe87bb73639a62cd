// Package cart accumulates canteen selections and turns them into orders.
package cart

import (
	"sync"

	"github.com/hanahehe/restore/models"
)

// Cart is keyed by menu item id. It is not safe for concurrent use; go
// through a Registry when several requests may touch it.
type Cart struct {
	lines []models.CartLine
}

func New() *Cart { return &Cart{} }

func (c *Cart) find(menuItemID string) int {
	for i, l := range c.lines {
		if l.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// Add puts one of item in the cart, incrementing an existing line
func (c *Cart) Add(item models.MenuItem) (models.CartLine, error) {
	if !item.Available {
		return models.CartLine{}, models.ErrItemUnavailable
	}
	if i := c.find(item.ID); i >= 0 {
		c.lines[i].Qty++
		return c.lines[i], nil
	}
	line := models.CartLine{MenuItemID: item.ID, Name: item.Name, Price: item.Price, Qty: 1}
	c.lines = append(c.lines, line)
	return line, nil
}

func (c *Cart) Increment(menuItemID string) error {
	i := c.find(menuItemID)
	if i < 0 {
		return models.ErrNotFound
	}
	c.lines[i].Qty++
	return nil
}

// Decrement removes the line once its quantity would drop below 1
func (c *Cart) Decrement(menuItemID string) error {
	i := c.find(menuItemID)
	if i < 0 {
		return models.ErrNotFound
	}
	if c.lines[i].Qty > 1 {
		c.lines[i].Qty--
		return nil
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

func (c *Cart) Lines() []models.CartLine {
	return append([]models.CartLine{}, c.lines...)
}

func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) Clear() { c.lines = nil }

// Registry keeps one transient cart per user
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: map[string]*Cart{}}
}

// With runs fn on the user's cart, creating it on first use
func (r *Registry) With(userID string, fn func(c *Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		c = New()
		r.carts[userID] = c
	}
	return fn(c)
}

// Drop discards the user's cart
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
}

package cart

import (
	"errors"
	"sync"

	"github.com/chrisdamba/foodsite/internal/models"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Cart holds line items for one shopper. The total is derived from the items
// on every read, never stored.
type Cart struct {
	mu      sync.Mutex
	id      string
	items   []models.CartItem
	visible bool
}

func New(id string) *Cart {
	return &Cart{id: id}
}

func (c *Cart) ID() string { return c.id }

// AddItem merges by item id: an existing entry grows by quantity, otherwise a
// new entry is appended.
func (c *Cart) AddItem(item models.MenuItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(item.ID); i >= 0 {
		c.items[i].Quantity += quantity
		return nil
	}
	c.items = append(c.items, models.CartItem{Item: item.Clone(), Quantity: quantity})
	return nil
}

func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(id)
}

// UpdateQuantity sets the quantity for id; zero or less removes the entry.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.remove(id)
		return
	}
	c.items[i].Quantity = quantity
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.visible = false
}

func (c *Cart) Total() models.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ci := range c.items {
		n += ci.Quantity
	}
	return n
}

// Open shows the cart drawer.
func (c *Cart) Open() { c.setVisible(true) }

func (c *Cart) Hide() { c.setVisible(false) }

func (c *Cart) Toggle() {
	c.mu.Lock()
	c.visible = !c.visible
	c.mu.Unlock()
}

func (c *Cart) setVisible(v bool) {
	c.mu.Lock()
	c.visible = v
	c.mu.Unlock()
}

// State returns a snapshot that shares nothing with the cart.
func (c *Cart) State() models.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.CartItem, len(c.items))
	for i, ci := range c.items {
		items[i] = models.CartItem{Item: ci.Item.Clone(), Quantity: ci.Quantity}
	}
	return models.CartState{
		ID:      c.id,
		Items:   items,
		Total:   c.total(),
		Visible: c.visible,
	}
}

func (c *Cart) total() models.Money {
	var sum models.Money
	for _, ci := range c.items {
		sum += ci.LineTotal()
	}
	return sum
}

func (c *Cart) indexOf(id string) int {
	for i, ci := range c.items {
		if ci.Item.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) remove(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

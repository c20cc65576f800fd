package cart

import (
	"strconv"
	"strings"
	"sync"
)

// Item is the normalized catalog shape accepted by the ledger. Handlers
// resolve a menu record into this form before anything reaches the cart.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Line is one cart row: an item plus the quantity held.
type Line struct {
	Item
	Quantity int `json:"quantity"`
}

// Cart keeps at most one line per item id, in insertion order. It does no
// I/O and none of its operations fail; all validation against the catalog
// happens before an item is handed in.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{lines: make([]Line, 0)}
}

// AddItem merges into the existing line for the same item id or appends a
// new one. A non-positive quantity is treated as 1.
func (c *Cart) AddItem(item Item, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == item.ID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: quantity})
}

// RemoveItem deletes the line with the given id. Removing an absent id is
// a no-op, which keeps handlers idempotent.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity on the line with the given id. A value
// of zero or less removes the line. Unknown ids are a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		for i := range c.lines {
			if c.lines[i].ID == id {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
				return
			}
		}
		return
	}

	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the ledger unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = c.lines[:0]
}

// Lines returns a copy of the current lines so callers cannot mutate
// ledger state behind its back.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItems is the sum of quantities over all lines.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalCents is the sum of price * quantity over all lines.
func (c *Cart) TotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, l := range c.lines {
		total += l.PriceCents * int64(l.Quantity)
	}
	return total
}

// ParseQuantity coerces raw quantity input from a form or query field.
// Input that does not parse as an integer defaults to 1; parsed values are
// returned as-is, including non-positive ones, so UpdateQuantity can apply
// its remove-on-zero rule. The fallback to 1 is a boundary default for
// garbled input, not a business rule.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

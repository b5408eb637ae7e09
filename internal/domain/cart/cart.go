package cart

import (
	"github.com/xenking/hotpot/internal/domain/menu"
	"github.com/xenking/hotpot/internal/domain/price"
)

// State is the position of a cart in the ordering lifecycle. A placed order
// is terminal and lives in the order package; a cart never returns to it.
type State string

const (
	StateEmpty    State = "empty"
	StateBuilding State = "building"
)

// Line is one menu item in the cart. Name and Price are copied from the menu
// when the item is first added.
type Line struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// Subtotal is the parsed unit price times the quantity.
func (l Line) Subtotal() int64 {
	return price.Parse(l.Price) * int64(l.Quantity)
}

// Cart is a shopper's unpersisted selection. It has value semantics: every
// mutating operation returns a new Cart and leaves the receiver untouched.
// The zero value is an empty cart.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// Add increments the quantity of the line for item, or appends a new line
// with quantity 1.
func (c Cart) Add(item menu.Item) Cart {
	if i := c.index(item.ID); i >= 0 {
		next := c.clone()
		next.lines[i].Quantity++
		return next
	}
	next := Cart{lines: make([]Line, len(c.lines), len(c.lines)+1)}
	copy(next.lines, c.lines)
	next.lines = append(next.lines, Line{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
	return next
}

// UpdateQuantity sets the quantity of the line with the given id. Quantities
// below 1 are raised to 1; use Remove to drop a line. Unknown ids are ignored.
func (c Cart) UpdateQuantity(id, quantity int) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}
	next := c.clone()
	next.lines[i].Quantity = max(quantity, 1)
	return next
}

// Remove drops the line with the given id, if present.
func (c Cart) Remove(id int) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}
	next := Cart{lines: make([]Line, 0, len(c.lines)-1)}
	next.lines = append(next.lines, c.lines[:i]...)
	next.lines = append(next.lines, c.lines[i+1:]...)
	return next
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// Total sums the subtotals of all lines in whole Naira.
func (c Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for id.
func (c Cart) Line(id int) (Line, bool) {
	if i := c.index(id); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Len is the number of distinct items.
func (c Cart) Len() int {
	return len(c.lines)
}

// Count is the number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// State reports StateEmpty or StateBuilding.
func (c Cart) State() State {
	if c.IsEmpty() {
		return StateEmpty
	}
	return StateBuilding
}

func (c Cart) index(id int) int {
	for i, l := range c.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return Cart{lines: lines}
}

package cart

import (
	"math"

	"tokoku.id/tokoku-web/internal/catalog"
)

// Line is one cart entry. Title and image are snapshots taken at add time;
// Price is the unit price converted to whole display rupiah at the moment
// the line was created. Quantity is always >= 1 while the line exists.
type Line struct {
	ProductID int64
	Title     string
	Image     string
	Price     int64
	Quantity  int
}

// Cart is an ordered collection of lines, at most one per product id.
// Insertion order is preserved for display consistency.
type Cart struct {
	lines []Line
}

// Add merges the product into the cart: an existing line gains quantity 1,
// otherwise a new line is appended with the converted display price.
func (c *Cart) Add(p catalog.Product, conversionRate float64) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Title:     p.Title,
		Image:     p.Image,
		Price:     int64(math.Round(p.Price * conversionRate)),
		Quantity:  1,
	})
}

// Increment raises the quantity of the matching line by one. Unknown ids are
// no-ops.
func (c *Cart) Increment(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity++
			return
		}
	}
}

// Decrement lowers the quantity by one and deletes the line the instant it
// would reach zero. Unknown ids are no-ops.
func (c *Cart) Decrement(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity--
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			return
		}
	}
}

// Remove deletes the line unconditionally regardless of quantity.
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total sums Price x Quantity across all lines, in whole rupiah.
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Price * int64(l.Quantity)
	}
	return total
}

// ItemCount sums quantities (the badge value), not the number of lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Clear empties the cart. Called only after a completed checkout handoff.
func (c *Cart) Clear() {
	c.lines = nil
}

// Snapshot returns a copy of the lines in insertion order for rendering and
// formatting; mutating the copy does not touch the cart.
func (c *Cart) Snapshot() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal is the line total for display.
func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

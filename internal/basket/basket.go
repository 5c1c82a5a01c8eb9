package basket

import (
	"errors"

	"meo-pos/internal/models"
)

// ErrEmptyBasket is returned when an order is built from a basket with no
// lines. Callers must check it before talking to the orders API.
var ErrEmptyBasket = errors.New("basket is empty")

// Line pairs a menu item snapshot with a quantity. Qty is always > 0;
// a decrement that would reach zero removes the line instead.
type Line struct {
	Item models.MenuItem
	Qty  int64
}

// Basket is an ordered collection of lines, one per distinct item id,
// in first-added order. All amounts are int64 minor units.
//
// A Basket belongs to a single chat session and is only touched from the
// bot's update loop, so it carries no locking of its own.
type Basket struct {
	lines      []Line
	taxRateBps int64
}

func New(taxRateBps int64) *Basket {
	if taxRateBps < 0 {
		taxRateBps = 0
	}
	return &Basket{taxRateBps: taxRateBps}
}

// Add appends a new line with qty 1, or bumps the existing line for the
// same item id in place without moving it.
func (b *Basket) Add(item models.MenuItem) {
	for i := range b.lines {
		if b.lines[i].Item.ID == item.ID {
			b.lines[i].Qty++
			return
		}
	}
	b.lines = append(b.lines, Line{Item: item, Qty: 1})
}

// Increment bumps the line for itemID by one. Unknown id is a no-op.
func (b *Basket) Increment(itemID int64) {
	for i := range b.lines {
		if b.lines[i].Item.ID == itemID {
			b.lines[i].Qty++
			return
		}
	}
}

// Decrement lowers the line for itemID by one, removing the line when the
// quantity would drop to zero. Unknown id is a no-op.
func (b *Basket) Decrement(itemID int64) {
	for i := range b.lines {
		if b.lines[i].Item.ID == itemID {
			b.lines[i].Qty--
			if b.lines[i].Qty <= 0 {
				b.lines = append(b.lines[:i], b.lines[i+1:]...)
			}
			return
		}
	}
}

// Remove deletes the line for itemID regardless of quantity.
func (b *Basket) Remove(itemID int64) {
	for i := range b.lines {
		if b.lines[i].Item.ID == itemID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the basket.
func (b *Basket) Clear() {
	b.lines = nil
}

// Len returns the number of distinct lines.
func (b *Basket) Len() int {
	return len(b.lines)
}

// Units returns the total piece count across all lines.
func (b *Basket) Units() int64 {
	var n int64
	for _, l := range b.lines {
		n += l.Qty
	}
	return n
}

// Lines returns a copy of the lines in basket order.
func (b *Basket) Lines() []Line {
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Subtotal is the sum of price*qty over all lines. Empty basket -> 0.
func (b *Basket) Subtotal() int64 {
	var sum int64
	for _, l := range b.lines {
		sum += l.Item.Price * l.Qty
	}
	return sum
}

// Tax applies the configured rate (basis points) to the subtotal, rounded
// half away from zero to the nearest whole currency unit.
func (b *Basket) Tax() int64 {
	return roundBps(b.Subtotal(), b.taxRateBps)
}

// Total is subtotal plus tax.
func (b *Basket) Total() int64 {
	return b.Subtotal() + b.Tax()
}

// OrderRequest maps the basket to the wire shape, preserving line order.
// Meta is passed through as-is and may be nil.
func (b *Basket) OrderRequest(meta map[string]string) (models.OrderRequest, error) {
	if len(b.lines) == 0 {
		return models.OrderRequest{}, ErrEmptyBasket
	}

	items := make([]models.OrderLine, 0, len(b.lines))
	for _, l := range b.lines {
		items = append(items, models.OrderLine{
			MenuItemID: l.Item.ID,
			Quantity:   l.Qty,
		})
	}

	return models.OrderRequest{Items: items, Meta: meta}, nil
}

// roundBps computes amount*bps/10000 rounded half away from zero.
// Amounts are never negative here (prices and quantities are validated
// upstream), so the away-from-zero half goes up.
func roundBps(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}

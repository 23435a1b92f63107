// Package workingcopy holds a screen-local, editable copy of a cart snapshot:
// selection flags and quantities that are never written back to the store.
package workingcopy

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

// Line is a cart line plus its local selection flag.
type Line struct {
	domain.CartLine
	Selected bool `json:"selected"`
}

type WorkingCopy struct {
	lines   []Line
	version uint64
}

// New builds a working copy from a cart snapshot. Every line starts
// unselected.
func New(cart []domain.CartLine, version uint64) *WorkingCopy {
	w := &WorkingCopy{}
	w.reset(cart, version)
	return w
}

// Sync rebuilds the copy from cart when version differs from the one it was
// built from, discarding local edits. It reports whether it rebuilt.
func (w *WorkingCopy) Sync(cart []domain.CartLine, version uint64) bool {
	if version == w.version {
		return false
	}
	w.reset(cart, version)
	return true
}

func (w *WorkingCopy) reset(cart []domain.CartLine, version uint64) {
	w.lines = make([]Line, len(cart))
	for i, l := range cart {
		w.lines[i] = Line{CartLine: l}
	}
	w.version = version
}

func (w *WorkingCopy) Version() uint64 { return w.version }

// Lines returns a copy of the current lines in cart order.
func (w *WorkingCopy) Lines() []Line {
	return append([]Line(nil), w.lines...)
}

func (w *WorkingCopy) Toggle(id string) bool {
	return w.edit(id, func(l *Line) { l.Selected = !l.Selected })
}

func (w *WorkingCopy) Increment(id string) bool {
	return w.edit(id, func(l *Line) { l.Quantity++ })
}

// Decrement lowers the quantity but never below 1.
func (w *WorkingCopy) Decrement(id string) bool {
	return w.edit(id, func(l *Line) {
		if l.Quantity > 1 {
			l.Quantity--
		}
	})
}

// Remove drops the line from this copy only. The store keeps it.
func (w *WorkingCopy) Remove(id string) bool {
	for i := range w.lines {
		if w.lines[i].ID == id {
			w.lines = append(w.lines[:i], w.lines[i+1:]...)
			return true
		}
	}
	return false
}

// SelectAll selects every line unless all are already selected, in which
// case it clears every selection.
func (w *WorkingCopy) SelectAll() {
	target := !w.AllSelected()
	for i := range w.lines {
		w.lines[i].Selected = target
	}
}

// AllSelected is false for an empty copy.
func (w *WorkingCopy) AllSelected() bool {
	if len(w.lines) == 0 {
		return false
	}
	for _, l := range w.lines {
		if !l.Selected {
			return false
		}
	}
	return true
}

func (w *WorkingCopy) Selected() []domain.CartLine {
	var out []domain.CartLine
	for _, l := range w.lines {
		if l.Selected {
			out = append(out, l.CartLine)
		}
	}
	return out
}

// Total is the sum of price times quantity over selected lines.
func (w *WorkingCopy) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range w.lines {
		if l.Selected {
			total = total.Add(l.LineTotal())
		}
	}
	return total
}

// Checkout returns the selected lines and their total, or a validation error
// when nothing is selected.
func (w *WorkingCopy) Checkout() ([]domain.CartLine, decimal.Decimal, error) {
	selected := w.Selected()
	if len(selected) == 0 {
		return nil, decimal.Zero, domain.NewValidationError("No Items Selected")
	}
	return selected, w.Total(), nil
}

// OrderPlacer writes one order document.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, o domain.Order) error
}

// PlaceOrders places one order per selected line, all stamped with at. The
// first failure stops the loop; orders already placed stay placed.
func (w *WorkingCopy) PlaceOrders(ctx context.Context, p OrderPlacer, at time.Time) (int, decimal.Decimal, error) {
	selected, total, err := w.Checkout()
	if err != nil {
		return 0, decimal.Zero, err
	}
	for i, line := range selected {
		if err := p.PlaceOrder(ctx, domain.Order{CartLine: line, Date: at}); err != nil {
			return i, total, fmt.Errorf("order %d of %d: %w", i+1, len(selected), err)
		}
	}
	return len(selected), total, nil
}

func (w *WorkingCopy) edit(id string, fn func(l *Line)) bool {
	for i := range w.lines {
		if w.lines[i].ID == id {
			fn(&w.lines[i])
			return true
		}
	}
	return false
}

package workingcopy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

func cart() []domain.CartLine {
	return []domain.CartLine{
		{ID: "a", ProductName: "Fries", Price: decimal.RequireFromString("3.50"), Quantity: 2},
		{ID: "b", ProductName: "Cola", Price: decimal.RequireFromString("2.00"), Quantity: 1},
		{ID: "c", ProductName: "Apple Pie", Price: decimal.RequireFromString("3.75"), Quantity: 1},
	}
}

func TestNew_StartsUnselected(t *testing.T) {
	w := New(cart(), 1)
	for _, l := range w.Lines() {
		assert.False(t, l.Selected)
	}
	assert.False(t, w.AllSelected())
	assert.True(t, w.Total().IsZero())
}

func TestSelectAll_Symmetry(t *testing.T) {
	w := New(cart(), 1)
	w.Toggle("b")

	w.SelectAll()
	assert.True(t, w.AllSelected())
	assert.Len(t, w.Selected(), 3)

	w.SelectAll()
	assert.False(t, w.AllSelected())
	assert.Empty(t, w.Selected())
}

func TestAllSelected_EmptyCopy(t *testing.T) {
	w := New(nil, 1)
	assert.False(t, w.AllSelected())
	w.SelectAll()
	assert.False(t, w.AllSelected())
}

func TestQuantityEdits(t *testing.T) {
	w := New(cart(), 1)
	require.True(t, w.Increment("b"))
	require.True(t, w.Decrement("a"))
	require.True(t, w.Decrement("a"))
	require.True(t, w.Decrement("a"))
	assert.False(t, w.Increment("missing"))

	lines := w.Lines()
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 2, lines[1].Quantity)
}

func TestTotal_SelectedOnly(t *testing.T) {
	w := New(cart(), 1)
	w.Toggle("a")
	w.Toggle("c")
	assert.True(t, w.Total().Equal(decimal.RequireFromString("10.75")))

	w.Toggle("a")
	assert.True(t, w.Total().Equal(decimal.RequireFromString("3.75")))
}

func TestRemove_IsLocal(t *testing.T) {
	original := cart()
	w := New(original, 1)
	require.True(t, w.Remove("b"))
	assert.False(t, w.Remove("b"))
	assert.Len(t, w.Lines(), 2)
	assert.Len(t, original, 3)
	assert.Equal(t, "b", original[1].ID)
}

func TestCheckout(t *testing.T) {
	w := New(cart(), 1)
	_, _, err := w.Checkout()
	require.True(t, domain.IsValidation(err))
	assert.Equal(t, "No Items Selected", err.Error())

	w.Toggle("a")
	w.Increment("a")
	selected, total, err := w.Checkout()
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, 3, selected[0].Quantity)
	assert.True(t, total.Equal(decimal.RequireFromString("10.50")))
}

func TestSync_RebuildsOnlyOnNewVersion(t *testing.T) {
	w := New(cart(), 1)
	w.Toggle("a")
	w.Remove("c")

	assert.False(t, w.Sync(cart(), 1))
	assert.Len(t, w.Lines(), 2)
	assert.True(t, w.Lines()[0].Selected)

	grown := append(cart(), domain.CartLine{ID: "d", ProductName: "Brownie Sundae", Price: decimal.RequireFromString("7.25"), Quantity: 1})
	assert.True(t, w.Sync(grown, 2))
	assert.Len(t, w.Lines(), 4)
	assert.Empty(t, w.Selected())
	assert.Equal(t, uint64(2), w.Version())
}

type recordingPlacer struct {
	placed []domain.Order
	failAt int
}

func (r *recordingPlacer) PlaceOrder(_ context.Context, o domain.Order) error {
	if r.failAt > 0 && len(r.placed)+1 == r.failAt {
		return errors.New("write failed")
	}
	r.placed = append(r.placed, o)
	return nil
}

func TestPlaceOrders_OnePerLineSameStamp(t *testing.T) {
	w := New(cart(), 1)
	w.SelectAll()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	p := &recordingPlacer{}
	n, total, err := w.PlaceOrders(context.Background(), p, at)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, total.Equal(decimal.RequireFromString("12.75")))
	for _, o := range p.placed {
		assert.True(t, o.Date.Equal(at))
	}
	assert.Equal(t, "Fries", p.placed[0].ProductName)
}

func TestPlaceOrders_StopsAtFirstFailure(t *testing.T) {
	w := New(cart(), 1)
	w.SelectAll()

	p := &recordingPlacer{failAt: 2}
	n, _, err := w.PlaceOrders(context.Background(), p, time.Now())
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, p.placed, 1)
}

func TestPlaceOrders_NothingSelected(t *testing.T) {
	p := &recordingPlacer{}
	_, _, err := New(cart(), 1).PlaceOrders(context.Background(), p, time.Now())
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, p.placed)
}

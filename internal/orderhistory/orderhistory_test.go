package orderhistory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

func order(id string, price string, qty int, at time.Time) domain.Order {
	return domain.Order{
		CartLine: domain.CartLine{ID: id, ProductName: id, Price: decimal.RequireFromString(price), Quantity: qty},
		Date:     at,
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []domain.Order{
		order("old", "1", 1, base.Add(-time.Hour)),
		order("tie-1", "1", 1, base),
		order("new", "1", 1, base.Add(time.Hour)),
		order("tie-2", "1", 1, base),
	}
	out := SortNewestFirst(in)

	ids := make([]string, len(out))
	for i, o := range out {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{"new", "tie-1", "tie-2", "old"}, ids)
	assert.Equal(t, "old", in[0].ID)
}

func TestGroupByDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	in := []domain.Order{
		order("a", "2.00", 1, time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)),
		order("b", "3.50", 2, time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)),
		order("c", "1.00", 1, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)),
	}
	groups := GroupByDay(in, loc)
	require.Len(t, groups, 3)
	assert.Equal(t, "2024-03-02", groups[0].Day)
	assert.Equal(t, "2024-03-01", groups[1].Day)
	assert.Equal(t, "2024-02-29", groups[2].Day)
	assert.True(t, groups[1].Total.Equal(decimal.RequireFromString("7.00")))

	utc := GroupByDay(in, nil)
	require.Len(t, utc, 2)
	assert.Len(t, utc[1].Orders, 2)
	assert.Equal(t, "b", utc[1].Orders[0].ID)
}

func TestTotalSpent(t *testing.T) {
	now := time.Now()
	in := []domain.Order{order("a", "29.57", 2, now), order("b", "3.50", 1, now)}
	assert.True(t, TotalSpent(in).Equal(decimal.RequireFromString("62.64")))
	assert.True(t, TotalSpent(nil).IsZero())
}

func TestFind(t *testing.T) {
	in := []domain.Order{order("a", "1", 1, time.Now())}
	got, ok := Find(in, "a")
	assert.True(t, ok)
	assert.Equal(t, "a", got.ID)
	_, ok = Find(in, "z")
	assert.False(t, ok)
}

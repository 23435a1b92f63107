// Package orderhistory shapes a user's order list for display.
package orderhistory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

// DayGroup is the orders placed on one calendar day.
type DayGroup struct {
	Day    string          `json:"day"`
	Orders []domain.Order  `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// SortNewestFirst returns a copy of orders sorted by date, newest first.
// Orders with the same date keep their store order.
func SortNewestFirst(orders []domain.Order) []domain.Order {
	out := append([]domain.Order(nil), orders...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// GroupByDay buckets orders by calendar day in loc, newest day first. Within
// a day orders are newest first.
func GroupByDay(orders []domain.Order, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.UTC
	}
	var groups []DayGroup
	for _, o := range SortNewestFirst(orders) {
		day := o.Date.In(loc).Format("2006-01-02")
		if n := len(groups); n == 0 || groups[n-1].Day != day {
			groups = append(groups, DayGroup{Day: day, Total: decimal.Zero})
		}
		g := &groups[len(groups)-1]
		g.Orders = append(g.Orders, o)
		g.Total = g.Total.Add(o.LineTotal())
	}
	return groups
}

// TotalSpent is the sum of price times quantity over all orders.
func TotalSpent(orders []domain.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.LineTotal())
	}
	return total
}

// Find returns the order with the given store id.
func Find(orders []domain.Order, id string) (domain.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

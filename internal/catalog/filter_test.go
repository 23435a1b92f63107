package catalog

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

func product(id, name, price, category string) domain.Product {
	return domain.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Category: category}
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_EmptyInputsReturnCatalog(t *testing.T) {
	menu := DefaultMenu()
	assert.Equal(t, menu, Filter(menu, "", "", nil))
	assert.Equal(t, menu, Filter(menu, "", AllCategories, &Filters{Category: AllCategories, PriceRange: PriceAll}))
	assert.Empty(t, Filter(nil, "", "", nil))
}

func TestFilter_Scenario(t *testing.T) {
	a := product("A", "Cheese Burger", "3", "Burgers")
	b := product("B", "Pizza Slice", "12", "Pizza")
	catalog := []domain.Product{a, b}

	assert.Equal(t, []string{"B"}, ids(Filter(catalog, "", "Pizza", nil)))
	assert.Equal(t, []string{"A"}, ids(Filter(catalog, "", "", &Filters{PriceRange: PriceUnder5})))
}

func TestFilter_FreeTextIsCaseInsensitive(t *testing.T) {
	menu := DefaultMenu()
	upper := Filter(menu, "PIZZA", "", nil)
	lower := Filter(menu, "pizza", "", nil)
	require.NotEmpty(t, lower)
	assert.Equal(t, ids(lower), ids(upper))
	assert.Equal(t, ids(lower), ids(Filter(menu, "PiZzA", "", nil)))
}

func TestFilter_PriceBandsAreSoundAndComplete(t *testing.T) {
	prices := []string{"0", "2.00", "4.99", "5", "5.01", "9.99", "10", "12.40", "14.99", "15", "15.01", "99"}
	var catalog []domain.Product
	for i, p := range prices {
		catalog = append(catalog, product(fmt.Sprint(i), "item", p, "Any"))
	}

	for _, band := range PriceRanges {
		got := Filter(catalog, "", "", &Filters{PriceRange: band})
		in := make(map[string]bool, len(got))
		for _, p := range got {
			assert.Truef(t, band.Contains(p.Price), "%s admitted %s", band, p.Price)
			in[p.ID] = true
		}
		for _, p := range catalog {
			if band.Contains(p.Price) {
				assert.Truef(t, in[p.ID], "%s dropped %s", band, p.Price)
			}
		}
	}
}

func TestPriceRange_BandsPartitionPrices(t *testing.T) {
	for _, s := range []string{"0", "4.99", "5", "9.99", "10", "14.99", "15", "250"} {
		price := decimal.RequireFromString(s)
		hits := 0
		for _, band := range PriceRanges {
			if band.Contains(price) {
				hits++
			}
		}
		assert.Equalf(t, 1, hits, "price %s matched %d bands", s, hits)
	}
	assert.False(t, PriceRange("Free").Contains(decimal.Zero))
}

func TestFilter_StructuredPredicatesAreAnded(t *testing.T) {
	menu := DefaultMenu()
	got := Filter(menu, "", "", &Filters{Category: "Pizza", SpiceLevel: "Hot"})
	assert.Equal(t, []string{"10"}, ids(got))

	got = Filter(menu, "fries", "Sides", &Filters{Size: "Large", Dietary: "Vegetarian", PriceRange: Price5To10})
	assert.Equal(t, []string{"12"}, ids(got))

	assert.Empty(t, Filter(menu, "", "Drinks", &Filters{Category: "Pizza"}))
}

func TestFilter_PreservesCatalogOrder(t *testing.T) {
	menu := DefaultMenu()
	got := Filter(menu, "", "Burgers", nil)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7"}, ids(got))
}

func TestParsePriceRange(t *testing.T) {
	cases := map[string]PriceRange{
		"Under $5":  PriceUnder5,
		"under-5":   PriceUnder5,
		"$5-$10":    Price5To10,
		"$5–$10":    Price5To10,
		"10-15":     Price10To15,
		"Above $15": PriceAbove15,
		"":          PriceAny,
		"All":       PriceAll,
	}
	for in, want := range cases {
		got, ok := ParsePriceRange(in)
		assert.Truef(t, ok, "expected %q to parse", in)
		assert.Equal(t, want, got)
	}
	_, ok := ParsePriceRange("cheap")
	assert.False(t, ok)
}

package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

// AllCategories is the quick-category chip that disables category matching.
const AllCategories = "All"

// PriceRange is one of a closed set of price bands.
type PriceRange string

const (
	PriceAny     PriceRange = ""
	PriceAll     PriceRange = "All"
	PriceUnder5  PriceRange = "Under $5"
	Price5To10   PriceRange = "$5–$10"
	Price10To15  PriceRange = "$10–$15"
	PriceAbove15 PriceRange = "Above $15"
)

// PriceRanges lists the selectable bands in display order.
var PriceRanges = []PriceRange{PriceUnder5, Price5To10, Price10To15, PriceAbove15}

var (
	five    = decimal.NewFromInt(5)
	ten     = decimal.NewFromInt(10)
	fifteen = decimal.NewFromInt(15)
)

var priceRangeAliases = map[string]PriceRange{
	"":          PriceAny,
	"all":       PriceAll,
	"under $5":  PriceUnder5,
	"under-5":   PriceUnder5,
	"$5–$10":    Price5To10,
	"$5-$10":    Price5To10,
	"5-10":      Price5To10,
	"$10–$15":   Price10To15,
	"$10-$15":   Price10To15,
	"10-15":     Price10To15,
	"above $15": PriceAbove15,
	"above-15":  PriceAbove15,
}

// ParsePriceRange maps a label or slug to a PriceRange.
func ParsePriceRange(s string) (PriceRange, bool) {
	r, ok := priceRangeAliases[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

// Contains reports whether price falls inside the band. Bands are half-open
// on the upper bound so every non-negative price lands in exactly one band.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	switch r {
	case PriceAny, PriceAll:
		return true
	case PriceUnder5:
		return price.LessThan(five)
	case Price5To10:
		return price.GreaterThanOrEqual(five) && price.LessThan(ten)
	case Price10To15:
		return price.GreaterThanOrEqual(ten) && price.LessThan(fifteen)
	case PriceAbove15:
		return price.GreaterThanOrEqual(fifteen)
	default:
		return false
	}
}

// Filters holds the structured filter panel. Empty fields are ignored.
type Filters struct {
	Category   string     `json:"category,omitempty"`
	Size       string     `json:"size,omitempty"`
	Dietary    string     `json:"dietary,omitempty"`
	SpiceLevel string     `json:"spiceLevel,omitempty"`
	PriceRange PriceRange `json:"priceRange,omitempty"`
}

// Filter returns the products matching every predicate, in catalog order.
// A nil filters value applies only freeText and quickCategory.
func Filter(products []domain.Product, freeText, quickCategory string, filters *Filters) []domain.Product {
	needle := strings.ToLower(freeText)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if !categoryMatches(quickCategory, p.Category) {
			continue
		}
		if filters != nil && !filters.matches(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f *Filters) matches(p domain.Product) bool {
	if !categoryMatches(f.Category, p.Category) {
		return false
	}
	if f.Size != "" && f.Size != p.Size {
		return false
	}
	if f.Dietary != "" && f.Dietary != p.Dietary {
		return false
	}
	if f.SpiceLevel != "" && f.SpiceLevel != p.SpiceLevel {
		return false
	}
	return f.PriceRange.Contains(p.Price)
}

func categoryMatches(want, got string) bool {
	if want == "" || want == AllCategories {
		return true
	}
	return want == got
}

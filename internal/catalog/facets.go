package catalog

import "storefront/internal/domain"

// Facets lists the distinct attribute values present in a catalog, in the
// order they first appear. Empty values are skipped.
type Facets struct {
	Categories  []string     `json:"categories"`
	Sizes       []string     `json:"sizes"`
	Dietary     []string     `json:"dietary"`
	SpiceLevels []string     `json:"spiceLevels"`
	PriceRanges []PriceRange `json:"priceRanges"`
}

// BuildFacets collects the filter chip values for products.
func BuildFacets(products []domain.Product) Facets {
	f := Facets{PriceRanges: append([]PriceRange(nil), PriceRanges...)}
	var cats, sizes, diets, spices distinct
	for _, p := range products {
		f.Categories = cats.add(f.Categories, p.Category)
		f.Sizes = sizes.add(f.Sizes, p.Size)
		f.Dietary = diets.add(f.Dietary, p.Dietary)
		f.SpiceLevels = spices.add(f.SpiceLevels, p.SpiceLevel)
	}
	return f
}

type distinct map[string]struct{}

func (d *distinct) add(list []string, v string) []string {
	if v == "" {
		return list
	}
	if *d == nil {
		*d = make(distinct)
	}
	if _, seen := (*d)[v]; seen {
		return list
	}
	(*d)[v] = struct{}{}
	return append(list, v)
}

package catalog

import (
	"fmt"
	"os"

	"storefront/internal/domain"
)

// Query bundles the three inputs of the menu screen's filter.
type Query struct {
	Text          string
	QuickCategory string
	Filters       *Filters
}

// Service serves a fixed, read-only menu.
type Service struct {
	products []domain.Product
	byID     map[string]int
}

// New builds a Service over products. The slice is copied.
func New(products []domain.Product) *Service {
	items := append([]domain.Product(nil), products...)
	byID := make(map[string]int, len(items))
	for i, p := range items {
		byID[p.ID] = i
	}
	return &Service{products: items, byID: byID}
}

// NewFromSource loads the menu from a CSV file when path is set, otherwise it
// uses the built-in menu.
func NewFromSource(path string) (*Service, error) {
	if path == "" {
		return New(DefaultMenu()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	products, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return New(products), nil
}

// List returns the whole menu in catalog order.
func (s *Service) List() []domain.Product {
	return append([]domain.Product(nil), s.products...)
}

// Get returns one product by id.
func (s *Service) Get(id string) (*domain.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := s.products[i]
	return &p, nil
}

// Search applies Filter to the menu.
func (s *Service) Search(q Query) []domain.Product {
	return Filter(s.products, q.Text, q.QuickCategory, q.Filters)
}

// Facets returns the filter chip values for the menu.
func (s *Service) Facets() Facets {
	return BuildFacets(s.products)
}

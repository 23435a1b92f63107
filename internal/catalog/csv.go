package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

// LoadCSV reads a menu export with a header row. Recognised columns are id,
// name, price, image, category, size, dietary and spiceLevel; unknown columns
// are ignored. Blank rows are skipped.
func LoadCSV(r io.Reader) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports may carry trailing commas

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"id", "name", "price", "category"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var (
		products []domain.Product
		seen     = make(map[string]struct{})
		line     = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		p, ok, err := parseRow(record, index)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if !ok {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("row %d: duplicate id %q", line, p.ID)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	return products, nil
}

func parseRow(record []string, index map[string]int) (domain.Product, bool, error) {
	p := domain.Product{
		ID:         pick(record, index, "id"),
		Name:       pick(record, index, "name"),
		Image:      pick(record, index, "image"),
		Category:   pick(record, index, "category"),
		Size:       pick(record, index, "size"),
		Dietary:    pick(record, index, "dietary"),
		SpiceLevel: pick(record, index, "spiceLevel"),
	}
	priceStr := pick(record, index, "price")
	if p.ID == "" && p.Name == "" && priceStr == "" {
		return domain.Product{}, false, nil
	}
	if p.ID == "" || p.Name == "" || priceStr == "" || p.Category == "" {
		return domain.Product{}, false, fmt.Errorf("invalid product row (missing required fields) for id %q", p.ID)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("invalid price %q for id %q", priceStr, p.ID)
	}
	if price.IsNegative() {
		return domain.Product{}, false, fmt.Errorf("negative price for id %q", p.ID)
	}
	p.Price = price
	return p, true, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places stored for a price.
const PriceScale = 2

// CartLine is one document in a user's cart collection. ID is empty until the
// store has accepted the document.
type CartLine struct {
	ID          string          `json:"id,omitempty"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Quantity    int             `json:"quantity"`
}

// LineTotal is price multiplied by quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Validate checks the constraints a line must satisfy before it is written.
func (l CartLine) Validate() error {
	if l.ProductName == "" {
		return NewValidationError("product name required")
	}
	if l.Quantity <= 0 {
		return NewValidationError("quantity must be positive")
	}
	if l.Price.IsNegative() {
		return NewValidationError("price must not be negative")
	}
	if !l.Price.Equal(l.Price.Truncate(PriceScale)) {
		return NewValidationError("price must have at most 2 decimal places")
	}
	return nil
}

// Order is a cart line frozen at order time. Orders are never updated or deleted.
type Order struct {
	CartLine
	Date time.Time `json:"date"`
}

package domain

import "github.com/shopspring/decimal"

// Product is a menu item. Size, Dietary and SpiceLevel are optional attributes.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
	Category   string          `json:"category"`
	Size       string          `json:"size,omitempty"`
	Dietary    string          `json:"dietary,omitempty"`
	SpiceLevel string          `json:"spiceLevel,omitempty"`
}

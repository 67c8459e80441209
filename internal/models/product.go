package models

import "github.com/shopspring/decimal"

func init() {
	// Prices and amounts travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents an item loaded into the vending machine.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

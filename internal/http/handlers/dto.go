package handlers

import "github.com/shopspring/decimal"

type ProductRequest struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price" swaggertype:"number"`
	Stock int             `json:"stock"`
}

type PurchaseRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PurchaseResponse is returned for every purchase attempt. Remaining is set
// on success and when stock is insufficient.
type PurchaseResponse struct {
	Success           bool             `json:"success"`
	Message           string           `json:"message"`
	Remaining         *int             `json:"remaining,omitempty"`
	QuantityPurchased int              `json:"quantityPurchased,omitempty"`
	TotalCost         *decimal.Decimal `json:"totalCost,omitempty" swaggertype:"number"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance" swaggertype:"number"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

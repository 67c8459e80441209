package db

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
	"github.com/shopspring/decimal"
)

// DefaultCatalog is loaded into an empty store on startup.
var DefaultCatalog = []models.Product{
	{ID: "coke", Name: "Coke", Price: decimal.RequireFromString("1.50"), Stock: 10},
	{ID: "pepsi", Name: "Pepsi", Price: decimal.RequireFromString("1.45"), Stock: 8},
	{ID: "water", Name: "Water", Price: decimal.RequireFromString("1.00"), Stock: 15},
	{ID: "chips", Name: "Chips", Price: decimal.RequireFromString("2.25"), Stock: 5},
	{ID: "candy-bar", Name: "Candy Bar", Price: decimal.RequireFromString("1.75"), Stock: 3},
}

// Seed inserts catalog when the product repository is empty. It returns the
// number of inserted products.
func Seed(ctx context.Context, products repo.ProductRepository, catalog []models.Product) (int, error) {
	existing, err := products.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, p := range catalog {
		if _, err := products.Create(ctx, p); err != nil {
			return 0, fmt.Errorf("failed to seed %s: %w", p.ID, err)
		}
	}
	return len(catalog), nil
}

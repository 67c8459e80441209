package repo

import (
	"context"

	"github.com/rogerio-castellano/vending-machine/internal/models"
)

// PurchaseRepository stores the append-only purchase audit log.
type PurchaseRepository interface {
	// Commit decrements the product stock by p.Quantity only if enough stock
	// is left, and appends p in the same unit of work. It returns the stock
	// remaining after the decrement, or ErrInsufficientStock when the guard
	// rejected the update.
	Commit(ctx context.Context, p models.Purchase) (int, error)
	Query(ctx context.Context, q PurchaseQuery) ([]models.Purchase, error)
}

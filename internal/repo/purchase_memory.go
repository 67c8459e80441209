package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rogerio-castellano/vending-machine/internal/models"
)

// InMemoryPurchaseRepository keeps purchases in insertion order. Commits lock
// the product repository so the stock guard and the append happen together.
type InMemoryPurchaseRepository struct {
	products *InMemoryProductRepository

	mu        sync.RWMutex
	purchases []models.Purchase
	failNext  error
}

func NewInMemoryPurchaseRepository(products *InMemoryProductRepository) *InMemoryPurchaseRepository {
	return &InMemoryPurchaseRepository{
		products:  products,
		purchases: []models.Purchase{},
	}
}

// Commit implements PurchaseRepository.
func (r *InMemoryPurchaseRepository) Commit(ctx context.Context, p models.Purchase) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.products.mu.Lock()
	defer r.products.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return 0, err
	}

	remaining, err := r.products.decrement(p.ProductID, p.Quantity)
	if err != nil {
		return remaining, err
	}
	r.purchases = append(r.purchases, p)
	return remaining, nil
}

// FailNextCommit makes the next Commit return err without touching any state.
func (r *InMemoryPurchaseRepository) FailNextCommit(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = err
}

// AddPurchase appends a record as-is, bypassing the stock guard.
func (r *InMemoryPurchaseRepository) AddPurchase(p models.Purchase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases = append(r.purchases, p)
}

func (r *InMemoryPurchaseRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases = []models.Purchase{}
}

// Query implements PurchaseRepository.
func (r *InMemoryPurchaseRepository) Query(_ context.Context, q PurchaseQuery) ([]models.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(q.NameContains)
	filtered := []models.Purchase{}
	for _, p := range r.purchases {
		if term != "" && !strings.Contains(strings.ToLower(p.ProductName), term) {
			continue
		}
		if q.MachineID != "" && p.MachineID != q.MachineID {
			continue
		}
		if q.Since != nil && p.PurchaseTime.Before(*q.Since) {
			continue
		}
		filtered = append(filtered, p)
	}

	less := purchaseLess(q.SortBy)
	sort.SliceStable(filtered, func(i, j int) bool {
		if q.Descending {
			return less(filtered[j], filtered[i])
		}
		return less(filtered[i], filtered[j])
	})
	return filtered, nil
}

func purchaseLess(key SortKey) func(a, b models.Purchase) bool {
	switch key {
	case SortByAmount:
		return func(a, b models.Purchase) bool { return a.Amount.LessThan(b.Amount) }
	case SortByProductName:
		return func(a, b models.Purchase) bool { return a.ProductName < b.ProductName }
	default:
		return func(a, b models.Purchase) bool { return a.PurchaseTime.Before(b.PurchaseTime) }
	}
}

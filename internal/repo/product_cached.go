package repo

import (
	"context"
	"log/slog"

	"github.com/rogerio-castellano/vending-machine/internal/models"
)

// ProductCache holds the rendered product catalog. Entries are keyed by a
// generation that InvalidateProducts advances, so a catalog read before an
// invalidation can only be stored under a generation nobody reads anymore.
type ProductCache interface {
	// GetProducts returns the current generation along with the cached
	// catalog. ok is false on a miss.
	GetProducts(ctx context.Context) (products []models.Product, generation int64, ok bool, err error)
	SetProducts(ctx context.Context, generation int64, products []models.Product) error
	InvalidateProducts(ctx context.Context) error
}

// CachedProductRepository serves GetAll from the cache. GetByID always reads
// the underlying store because purchases need the current stock.
type CachedProductRepository struct {
	next  ProductRepository
	cache ProductCache
}

func NewCachedProductRepository(next ProductRepository, cache ProductCache) *CachedProductRepository {
	return &CachedProductRepository{next: next, cache: cache}
}

func (r *CachedProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	created, err := r.next.Create(ctx, p)
	if err != nil {
		return created, err
	}
	if err := r.cache.InvalidateProducts(ctx); err != nil {
		slog.Warn("could not invalidate product cache", "error", err)
	}
	return created, nil
}

func (r *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products, generation, ok, cacheErr := r.cache.GetProducts(ctx)
	if cacheErr != nil {
		slog.Warn("product cache read failed", "error", cacheErr)
	}
	if ok {
		return products, nil
	}

	products, err := r.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	// Without a known generation the write could outlive a purchase.
	if cacheErr != nil {
		return products, nil
	}
	if err := r.cache.SetProducts(ctx, generation, products); err != nil {
		slog.Warn("product cache write failed", "error", err)
	}
	return products, nil
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	return r.next.GetByID(ctx, id)
}

// InvalidatingPurchaseRepository drops the cached catalog after every
// committed purchase so listed stock never lags a sale by more than one read.
type InvalidatingPurchaseRepository struct {
	next  PurchaseRepository
	cache ProductCache
}

func NewInvalidatingPurchaseRepository(next PurchaseRepository, cache ProductCache) *InvalidatingPurchaseRepository {
	return &InvalidatingPurchaseRepository{next: next, cache: cache}
}

func (r *InvalidatingPurchaseRepository) Commit(ctx context.Context, p models.Purchase) (int, error) {
	remaining, err := r.next.Commit(ctx, p)
	if err != nil {
		return remaining, err
	}
	if err := r.cache.InvalidateProducts(ctx); err != nil {
		slog.Warn("could not invalidate product cache", "error", err)
	}
	return remaining, nil
}

func (r *InvalidatingPurchaseRepository) Query(ctx context.Context, q PurchaseQuery) ([]models.Purchase, error) {
	return r.next.Query(ctx, q)
}

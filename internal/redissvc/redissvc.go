package redissvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/vending-machine/internal/models"
)

const (
	ProductsKey   = "vending:catalog:products"
	GenerationKey = "vending:catalog:generation"
)

// RedisService caches the product catalog in Redis.
type RedisService struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisService(rdb *redis.Client, ttl time.Duration) *RedisService {
	return &RedisService{
		rdb: rdb,
		ttl: ttl,
	}
}

func productsKey(generation int64) string {
	return fmt.Sprintf("%s:%d", ProductsKey, generation)
}

func (a *RedisService) generation(ctx context.Context) (int64, error) {
	gen, err := a.rdb.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog generation: %w", err)
	}
	return gen, nil
}

// GetProducts reports ok=false on a cache miss.
func (a *RedisService) GetProducts(ctx context.Context) ([]models.Product, int64, bool, error) {
	gen, err := a.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := a.rdb.Get(ctx, productsKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("failed to read cached products: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, gen, false, fmt.Errorf("failed to decode cached products: %w", err)
	}
	return products, gen, true, nil
}

// SetProducts stores the catalog under the given generation. A stale
// generation lands on a key that expires unread.
func (a *RedisService) SetProducts(ctx context.Context, generation int64, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return a.rdb.Set(ctx, productsKey(generation), data, a.ttl).Err()
}

func (a *RedisService) InvalidateProducts(ctx context.Context) error {
	return a.rdb.Incr(ctx, GenerationKey).Err()
}

func (a *RedisService) Ping(ctx context.Context) error {
	return a.rdb.Ping(ctx).Err()
}

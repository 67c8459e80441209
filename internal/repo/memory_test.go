package repo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T, stock int) (*repo.InMemoryProductRepository, *repo.InMemoryPurchaseRepository) {
	t.Helper()
	products := repo.NewInMemoryProductRepository()
	_, err := products.Create(context.Background(), models.Product{
		ID:    "coke",
		Name:  "Coke",
		Price: decimal.RequireFromString("1.50"),
		Stock: stock,
	})
	require.NoError(t, err)
	return products, repo.NewInMemoryPurchaseRepository(products)
}

func record(id string, qty int) models.Purchase {
	return models.Purchase{
		ID:           id,
		ProductID:    "coke",
		ProductName:  "Coke",
		Quantity:     qty,
		Amount:       decimal.RequireFromString("1.50").Mul(decimal.NewFromInt(int64(qty))),
		PurchaseTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		MachineID:    "machine-001",
	}
}

func TestInMemoryProductRepository_CreateUpserts(t *testing.T) {
	products, _ := newStores(t, 3)
	ctx := context.Background()

	_, err := products.Create(ctx, models.Product{ID: "coke", Name: "Coke Classic", Price: decimal.NewFromInt(2), Stock: 9})
	require.NoError(t, err)

	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Coke Classic", all[0].Name)
	assert.Equal(t, 9, all[0].Stock)
}

func TestInMemoryProductRepository_GetAllReturnsCopy(t *testing.T) {
	products, _ := newStores(t, 3)
	ctx := context.Background()

	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	all[0].Stock = 100

	p, err := products.GetByID(ctx, "coke")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestInMemoryProductRepository_GetByIDNotFound(t *testing.T) {
	products, _ := newStores(t, 3)
	_, err := products.GetByID(context.Background(), "sprite")
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestInMemoryPurchaseRepository_Commit(t *testing.T) {
	products, purchases := newStores(t, 3)
	ctx := context.Background()

	remaining, err := purchases.Commit(ctx, record("p1", 2))
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	p, err := products.GetByID(ctx, "coke")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	all, err := purchases.Query(ctx, repo.PurchaseQuery{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "p1", all[0].ID)
}

func TestInMemoryPurchaseRepository_CommitGuards(t *testing.T) {
	tests := []struct {
		name    string
		record  models.Purchase
		wantErr error
	}{
		{"insufficient stock", record("p1", 4), repo.ErrInsufficientStock},
		{"unknown product", models.Purchase{ID: "p2", ProductID: "sprite", Quantity: 1}, repo.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, purchases := newStores(t, 3)
			ctx := context.Background()

			_, err := purchases.Commit(ctx, tt.record)
			assert.ErrorIs(t, err, tt.wantErr)

			p, _ := products.GetByID(ctx, "coke")
			assert.Equal(t, 3, p.Stock)
			all, _ := purchases.Query(ctx, repo.PurchaseQuery{})
			assert.Empty(t, all)
		})
	}
}

func TestInMemoryPurchaseRepository_FailNextCommit(t *testing.T) {
	products, purchases := newStores(t, 3)
	ctx := context.Background()
	boom := errors.New("disk full")

	purchases.FailNextCommit(boom)
	_, err := purchases.Commit(ctx, record("p1", 1))
	assert.ErrorIs(t, err, boom)

	p, _ := products.GetByID(ctx, "coke")
	assert.Equal(t, 3, p.Stock)

	_, err = purchases.Commit(ctx, record("p2", 1))
	assert.NoError(t, err, "the failure is one-shot")
}

func TestInMemoryPurchaseRepository_ConcurrentCommitsNeverOversell(t *testing.T) {
	products, purchases := newStores(t, 5)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int
	)
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := purchases.Commit(ctx, record(string(rune('A'+i)), 1)); err == nil {
				mu.Lock()
				committed++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, committed)
	p, _ := products.GetByID(ctx, "coke")
	assert.Zero(t, p.Stock)
}

func TestInMemoryPurchaseRepository_Query(t *testing.T) {
	_, purchases := newStores(t, 0)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	add := func(id, name, amount, machine string, at time.Time) {
		purchases.AddPurchase(models.Purchase{ID: id, ProductName: name, Amount: decimal.RequireFromString(amount), MachineID: machine, PurchaseTime: at})
	}
	add("a", "Water", "1.00", "machine-001", base)
	add("b", "Chips", "2.25", "machine-002", base.Add(time.Hour))
	add("c", "water bottle", "1.00", "machine-001", base.Add(2*time.Hour))

	since := base.Add(30 * time.Minute)
	tests := []struct {
		name string
		q    repo.PurchaseQuery
		want []string
	}{
		{"insertion order by time", repo.PurchaseQuery{}, []string{"a", "b", "c"}},
		{"time descending", repo.PurchaseQuery{Descending: true}, []string{"c", "b", "a"}},
		{"name contains ignores case", repo.PurchaseQuery{NameContains: "WATER"}, []string{"a", "c"}},
		{"machine", repo.PurchaseQuery{MachineID: "machine-002"}, []string{"b"}},
		{"since is inclusive", repo.PurchaseQuery{Since: &since}, []string{"b", "c"}},
		{"amount ties stay stable descending", repo.PurchaseQuery{SortBy: repo.SortByAmount, Descending: true}, []string{"b", "a", "c"}},
		{"product name", repo.PurchaseQuery{SortBy: repo.SortByProductName}, []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := purchases.Query(context.Background(), tt.q)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, p := range got {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestInMemoryPurchaseRepository_ProductNameOrderIsByteWise(t *testing.T) {
	_, purchases := newStores(t, 0)
	for i, name := range []string{"apple", "Zebra", "banana", "Apple"} {
		purchases.AddPurchase(models.Purchase{ID: name, ProductName: name, Amount: decimal.NewFromInt(1), PurchaseTime: time.Unix(int64(i), 0)})
	}

	got, err := purchases.Query(context.Background(), repo.PurchaseQuery{SortBy: repo.SortByProductName})
	require.NoError(t, err)
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.ProductName
	}
	assert.Equal(t, []string{"Apple", "Zebra", "apple", "banana"}, names)
}

package repo

import (
	"context"

	"github.com/shopspring/decimal"
)

type InMemoryMetricsRepository struct {
	productRepo  ProductRepository
	purchaseRepo PurchaseRepository
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{Revenue: decimal.Zero}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)
	for _, p := range products {
		if p.Stock == 0 {
			m.OutOfStockCount++
		}
	}

	purchases, err := i.purchaseRepo.Query(ctx, PurchaseQuery{})
	if err != nil {
		return m, err
	}
	m.TotalPurchases = len(purchases)

	units := make(map[string]int)
	for _, p := range purchases {
		m.Revenue = m.Revenue.Add(p.Amount)
		units[p.ProductName] += p.Quantity
		if units[p.ProductName] > m.TopSeller.UnitsSold {
			m.TopSeller = TopSeller{Name: p.ProductName, UnitsSold: units[p.ProductName]}
		}
	}

	return m, nil
}

func NewInMemoryMetricsRepository(productRepo ProductRepository, purchaseRepo PurchaseRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{productRepo: productRepo, purchaseRepo: purchaseRepo}
}

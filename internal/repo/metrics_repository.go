package repo

import (
	"context"

	"github.com/shopspring/decimal"
)

type TopSeller struct {
	Name      string `json:"name"`
	UnitsSold int    `json:"unitsSold"`
}

type Metrics struct {
	TotalProducts   int             `json:"totalProducts"`
	TotalPurchases  int             `json:"totalPurchases"`
	OutOfStockCount int             `json:"outOfStockCount"`
	Revenue         decimal.Decimal `json:"revenue"`
	TopSeller       TopSeller       `json:"topSeller"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}

package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	m := Metrics{Revenue: decimal.Zero}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE stock = 0) FROM products`).
		Scan(&m.TotalProducts, &m.OutOfStockCount)
	if err != nil {
		return m, fmt.Errorf("failed to count products: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM purchases`).
		Scan(&m.TotalPurchases, &m.Revenue)
	if err != nil {
		return m, fmt.Errorf("failed to summarize purchases: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT product_name, SUM(quantity) AS units
		FROM purchases
		GROUP BY product_name
		ORDER BY units DESC
		LIMIT 1
	`).Scan(&m.TopSeller.Name, &m.TopSeller.UnitsSold)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("failed to find top seller: %w", err)
	}

	return m, nil
}

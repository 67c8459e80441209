package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/vending-machine/internal/models"
)

type PostgresPurchaseRepository struct {
	db *sql.DB
}

func NewPostgresPurchaseRepository(db *sql.DB) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{db: db}
}

// Commit runs the guarded decrement and the audit insert in one transaction.
func (r *PostgresPurchaseRepository) Commit(ctx context.Context, p models.Purchase) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var remaining int
	err = tx.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
		RETURNING stock`, p.Quantity, p.ProductID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInsufficientStock
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchases (id, product_id, product_name, quantity, amount, purchase_time, machine_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.ProductID, p.ProductName, p.Quantity, p.Amount, p.PurchaseTime, p.MachineID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purchase: %w", err)
	}
	return remaining, nil
}

// Query composes the filter and ordering into a single statement.
func (r *PostgresPurchaseRepository) Query(ctx context.Context, q PurchaseQuery) ([]models.Purchase, error) {
	whereClause, args := buildPurchaseWhereClause(q)
	query := fmt.Sprintf(`
		SELECT id, product_id, product_name, quantity, amount, purchase_time, machine_id
		FROM purchases %s %s`, whereClause, buildPurchaseOrderClause(q))

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	purchases := []models.Purchase{}
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.ProductID, &p.ProductName, &p.Quantity, &p.Amount, &p.PurchaseTime, &p.MachineID); err != nil {
			return nil, err
		}
		p.PurchaseTime = p.PurchaseTime.UTC()
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return purchases, nil
}

// buildPurchaseWhereClause constructs the WHERE clause and returns arguments
func buildPurchaseWhereClause(q PurchaseQuery) (string, []any) {
	args := []any{}
	whereClause := "WHERE 1=1"
	argIndex := 1

	if q.NameContains != "" {
		whereClause += fmt.Sprintf(" AND product_name ILIKE $%d", argIndex)
		args = append(args, "%"+escapeLike(q.NameContains)+"%")
		argIndex++
	}

	if q.MachineID != "" {
		whereClause += fmt.Sprintf(" AND machine_id = $%d", argIndex)
		args = append(args, q.MachineID)
		argIndex++
	}

	if q.Since != nil {
		whereClause += fmt.Sprintf(" AND purchase_time >= $%d", argIndex)
		args = append(args, *q.Since)
	}

	return whereClause, args
}

// seq keeps insertion order for ties. Names compare byte-wise, the same way
// the in-memory store orders them, whatever the database collation is.
func buildPurchaseOrderClause(q PurchaseQuery) string {
	column := "purchase_time"
	switch q.SortBy {
	case SortByAmount:
		column = "amount"
	case SortByProductName:
		column = `product_name COLLATE "C"`
	}

	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, seq ASC", column, direction)
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Connect(ctx context.Context, dbUrl string) (*sql.DB, error) {
	if dbUrl == "" {
		return nil, errors.New("database url is empty")
	}

	db, err := sql.Open("pgx", dbUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		stock INTEGER NOT NULL CHECK (stock >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		seq           BIGSERIAL UNIQUE,
		id            TEXT PRIMARY KEY,
		product_id    TEXT NOT NULL REFERENCES products(id),
		product_name  TEXT NOT NULL,
		quantity      INTEGER NOT NULL CHECK (quantity > 0),
		amount        NUMERIC(12, 2) NOT NULL,
		purchase_time TIMESTAMPTZ NOT NULL,
		machine_id    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_purchase_time ON purchases(purchase_time)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_machine_id ON purchases(machine_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

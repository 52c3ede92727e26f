package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects to the billing database named by DATABASE_URL and
// verifies the connection with a ping before handing the pool out.
func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach billing database: %w", err)
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS invoices (
	id BIGSERIAL PRIMARY KEY,
	invoice_number INTEGER NOT NULL UNIQUE,
	date DATE NOT NULL,
	customer_name TEXT NOT NULL DEFAULT '',
	customer_mobile TEXT NOT NULL DEFAULT '',
	customer_place TEXT NOT NULL DEFAULT '',
	customer_address TEXT NOT NULL DEFAULT '',
	bill_type TEXT NOT NULL DEFAULT 'Cash',
	subtotal NUMERIC(12,2) NOT NULL,
	sgst NUMERIC(12,2) NOT NULL,
	igst NUMERIC(12,2) NOT NULL,
	roundoff NUMERIC(12,2) NOT NULL,
	total NUMERIC(12,2) NOT NULL,
	pdf_path TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS invoice_items (
	id BIGSERIAL PRIMARY KEY,
	invoice_id BIGINT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	sno INTEGER NOT NULL,
	hsn TEXT NOT NULL,
	description TEXT NOT NULL,
	price NUMERIC(12,2) NOT NULL,
	quantity INTEGER NOT NULL,
	total NUMERIC(12,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	hsn TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	price NUMERIC(12,2) NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS customers (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	mobile TEXT NOT NULL UNIQUE,
	place TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	gstin TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate creates the billing schema when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSlotSchema = `
	CREATE TABLE IF NOT EXISTS cart_slots (
		slot_key   TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

const sqliteSlotSchema = `
	CREATE TABLE IF NOT EXISTS cart_slots (
		slot_key   TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const productSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id              UUID PRIMARY KEY,
		product_type    TEXT NOT NULL CHECK (product_type IN ('phone', 'accessory')),
		name            TEXT NOT NULL,
		brand           TEXT NOT NULL,
		model           TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL,
		subcategory     TEXT NOT NULL DEFAULT '',
		price           DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		original_price  DOUBLE PRECISION,
		description     TEXT NOT NULL DEFAULT '',
		images          JSONB NOT NULL DEFAULT '[]',
		in_stock        BOOLEAN NOT NULL DEFAULT TRUE,
		stock_quantity  INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		featured        BOOLEAN NOT NULL DEFAULT FALSE,
		rating_average  DOUBLE PRECISION NOT NULL DEFAULT 0,
		rating_count    INTEGER NOT NULL DEFAULT 0,
		tags            TEXT[] NOT NULL DEFAULT '{}',
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_products_type_brand_category ON products(product_type, brand, category);
	CREATE INDEX IF NOT EXISTS idx_products_price ON products(price);
	CREATE INDEX IF NOT EXISTS idx_products_featured_created ON products(featured, created_at DESC);
`

const postgresReviewSchema = `
	CREATE TABLE IF NOT EXISTS product_reviews (
		id            UUID PRIMARY KEY,
		product_id    UUID NOT NULL,
		product_type  TEXT NOT NULL,
		product_name  TEXT NOT NULL DEFAULT '',
		rating        INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		title         TEXT NOT NULL,
		comment       TEXT NOT NULL,
		user_name     TEXT NOT NULL,
		user_email    TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (product_id, user_email)
	);

	CREATE INDEX IF NOT EXISTS idx_product_reviews_product_status ON product_reviews(product_id, status, created_at DESC);
`

const sqliteReviewSchema = `
	CREATE TABLE IF NOT EXISTS product_reviews (
		id            TEXT PRIMARY KEY,
		product_id    TEXT NOT NULL,
		product_type  TEXT NOT NULL,
		product_name  TEXT NOT NULL DEFAULT '',
		rating        INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		title         TEXT NOT NULL,
		comment       TEXT NOT NULL,
		user_name     TEXT NOT NULL,
		user_email    TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		UNIQUE (product_id, user_email)
	);

	CREATE INDEX IF NOT EXISTS idx_product_reviews_product_status ON product_reviews(product_id, status, created_at DESC);
`

// EnsureSlotSchema creates the cart_slots table for the given dialect
func EnsureSlotSchema(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	schema := postgresSlotSchema
	if dialect == SQLite {
		schema = sqliteSlotSchema
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating cart_slots table: %w", err)
	}
	return nil
}

// EnsureCatalogSchema creates the products table (Postgres only)
func EnsureCatalogSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, productSchema); err != nil {
		return fmt.Errorf("creating products table: %w", err)
	}
	return nil
}

// EnsureReviewSchema creates the product_reviews table for the given dialect
func EnsureReviewSchema(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	schema := postgresReviewSchema
	if dialect == SQLite {
		schema = sqliteReviewSchema
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating product_reviews table: %w", err)
	}
	return nil
}

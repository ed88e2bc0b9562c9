package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"iwingmobile-store/db"
)

type slotQueries struct {
	get    string
	upsert string
	delete string
}

var slotQueriesByDialect = map[db.Dialect]slotQueries{
	db.Postgres: {
		get: `SELECT payload FROM cart_slots WHERE slot_key = $1`,
		upsert: `
			INSERT INTO cart_slots (slot_key, payload, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (slot_key)
			DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
		`,
		delete: `DELETE FROM cart_slots WHERE slot_key = $1`,
	},
	db.SQLite: {
		get: `SELECT payload FROM cart_slots WHERE slot_key = ?`,
		upsert: `
			INSERT INTO cart_slots (slot_key, payload, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (slot_key)
			DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
		`,
		delete: `DELETE FROM cart_slots WHERE slot_key = ?`,
	},
}

// SlotRepository handles database operations for cart slots
type SlotRepository struct {
	db      *sql.DB
	queries slotQueries
	log     *zap.Logger
}

// Ensure SlotRepository implements SlotRepositoryInterface
var _ SlotRepositoryInterface = (*SlotRepository)(nil)

// NewSlotRepository creates a new SlotRepository for the given dialect
func NewSlotRepository(conn *sql.DB, dialect db.Dialect, log *zap.Logger) (*SlotRepository, error) {
	queries, ok := slotQueriesByDialect[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported slot dialect %q", dialect)
	}
	return &SlotRepository{
		db:      conn,
		queries: queries,
		log:     log.With(zap.String("component", "slot_repository"), zap.String("dialect", string(dialect))),
	}, nil
}

// Get returns the payload stored under key, or ErrSlotNotFound
func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, r.queries.get, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		r.log.Error("❌ Get: Error reading slot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return []byte(payload), nil
}

// Put overwrites the payload stored under key
func (r *SlotRepository) Put(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, r.queries.upsert, key, string(value)); err != nil {
		r.log.Error("❌ Put: Error writing slot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	r.log.Debug("Put: slot written", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (r *SlotRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.queries.delete, key); err != nil {
		r.log.Error("❌ Delete: Error deleting slot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	return nil
}

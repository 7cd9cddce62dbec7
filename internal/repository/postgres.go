package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/request-tour/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresItemStore keeps items in the items table created by the
// database migrations.
type PostgresItemStore struct {
	pool *pgxpool.Pool
}

func NewPostgresItemStore(pool *pgxpool.Pool) *PostgresItemStore {
	return &PostgresItemStore{pool: pool}
}

const (
	selectItemSQL = `
SELECT name, description, price, tax
FROM items
WHERE item_id = $1`

	upsertItemSQL = `
INSERT INTO items (item_id, name, description, price, tax)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (item_id) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    tax = EXCLUDED.tax,
    updated_at = now()`

	seedItemSQL = `
INSERT INTO items (item_id, name, description, price, tax)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (item_id) DO NOTHING`
)

func (s *PostgresItemStore) Get(ctx context.Context, id string) (model.Item, error) {
	var item model.Item
	err := s.pool.QueryRow(ctx, selectItemSQL, id).Scan(&item.Name, &item.Description, &item.Price, &item.Tax)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Item{}, ErrItemNotFound
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("select item %s: %w", id, err)
	}
	return item, nil
}

func (s *PostgresItemStore) Put(ctx context.Context, id string, item model.Item) error {
	if _, err := s.pool.Exec(ctx, upsertItemSQL, id, item.Name, item.Description, item.Price, item.Tax); err != nil {
		return fmt.Errorf("upsert item %s: %w", id, err)
	}
	return nil
}

func (s *PostgresItemStore) Seed(ctx context.Context, id string, item model.Item) error {
	if _, err := s.pool.Exec(ctx, seedItemSQL, id, item.Name, item.Description, item.Price, item.Tax); err != nil {
		return fmt.Errorf("seed item %s: %w", id, err)
	}
	return nil
}

func (s *PostgresItemStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

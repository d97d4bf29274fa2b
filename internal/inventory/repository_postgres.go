package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, search string) ([]*Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_name, qty, type, created_at
		FROM inventory
		WHERE item_name ILIKE '%' || $1 || '%'
		ORDER BY id ASC
	`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Qty, &item.Type, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id int) (*Item, error) {
	item := &Item{}
	err := r.db.QueryRow(ctx, `
		SELECT id, item_name, qty, type, created_at
		FROM inventory
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Qty, &item.Type, &item.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *Item) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO inventory (item_name, qty, type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, item.Name, item.Qty, item.Type).Scan(&item.ID, &item.CreatedAt)
}

func (r *PostgresRepository) Update(ctx context.Context, item *Item) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE inventory
		SET item_name = $1, qty = $2, type = $3
		WHERE id = $4
	`, item.Name, item.Qty, item.Type, item.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// STOCK LEDGER GUARD
// --------------------------------------------------

// ApplyDelta is a conditional update: zero rows affected means the
// item is missing or the delta would take qty below zero.
func (r *PostgresRepository) ApplyDelta(ctx context.Context, id int, delta float64) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE inventory
		SET qty = qty + $1
		WHERE id = $2
		  AND qty + $1 >= 0
	`, delta, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		var exists int
		err := r.db.QueryRow(ctx, `SELECT 1 FROM inventory WHERE id = $1`, id).Scan(&exists)
		if err != nil {
			return ErrNotFound
		}
		return ErrNegativeStock
	}
	return nil
}

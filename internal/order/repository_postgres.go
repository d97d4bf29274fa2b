package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fnb/internal/inventory"
	"fnb/internal/menu"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// mapPgError translates store-level failures into the engine's
// taxonomy: serialization/deadlock codes become ErrConflict (retry
// the whole commit), connection failures become ErrStoreUnavailable.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Code)
		}
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return fmt.Errorf("%w: %s", ErrStoreUnavailable, pgErr.Code)
		}
	}
	return err
}

func (r *PostgresRepository) MenuItems(ctx context.Context, ids []int) (map[int]*menu.Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, menu_name, price
		FROM menu
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	items := make(map[int]*menu.Item)
	for rows.Next() {
		item := &menu.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, err
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}

	ingRows, err := r.db.Query(ctx, `
		SELECT menu_id, inventory_id, qty
		FROM menu_ingredients
		WHERE menu_id = ANY($1)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var menuID int
		var line menu.RecipeLine
		if err := ingRows.Scan(&menuID, &line.InventoryID, &line.Qty); err != nil {
			return nil, err
		}
		if item, ok := items[menuID]; ok {
			item.Recipe = append(item.Recipe, line)
		}
	}
	return items, mapPgError(ingRows.Err())
}

func (r *PostgresRepository) StockLevels(ctx context.Context, ids []int) (map[int]*inventory.Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_name, qty
		FROM inventory
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	stock := make(map[int]*inventory.Item)
	for rows.Next() {
		item := &inventory.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Qty); err != nil {
			return nil, err
		}
		stock[item.ID] = item
	}
	return stock, mapPgError(rows.Err())
}

// --------------------------------------------------
// ATOMIC COMMIT
// --------------------------------------------------

// Row locks held by a competing commit must not stall this one past
// the retry budget; 55P03 maps to ErrConflict and the engine retries.
const commitLockTimeout = "2s"

// CommitOrder runs the whole write phase in one transaction. Each
// decrement is conditional on sufficient stock; zero rows affected
// rolls everything back. Demand arrives sorted by inventory id, so
// two commits sharing ingredients contend for row locks in the same
// order and cannot deadlock each other.
func (r *PostgresRepository) CommitOrder(ctx context.Context, o *Order, demand []StockDemand) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapPgError(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+commitLockTimeout+"'"); err != nil {
		return mapPgError(err)
	}

	for _, d := range demand {
		cmd, err := tx.Exec(ctx, `
			UPDATE inventory
			SET qty = qty - $1
			WHERE id = $2
			  AND qty >= $1
		`, d.Qty, d.InventoryID)
		if err != nil {
			return mapPgError(err)
		}

		if cmd.RowsAffected() == 0 {
			var current float64
			if err := tx.QueryRow(ctx, `
				SELECT qty FROM inventory WHERE id = $1
			`, d.InventoryID).Scan(&current); err != nil {
				current = 0
			}
			return &InsufficientStockError{
				MenuName:  d.MenuName,
				ItemName:  d.ItemName,
				Shortfall: d.Qty - current,
			}
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (total)
		VALUES ($1)
		RETURNING id, created_at
	`, o.Total).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return mapPgError(err)
	}

	for _, item := range o.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, menu_id, qty, price)
			VALUES ($1, $2, $3, $4)
		`, o.ID, item.MenuID, item.Qty, item.Price)
		if err != nil {
			return mapPgError(err)
		}
	}

	return mapPgError(tx.Commit(ctx))
}

// --------------------------------------------------
// HISTORY
// --------------------------------------------------

func (r *PostgresRepository) List(ctx context.Context) ([]*Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, total, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var orders []*Order
	byID := make(map[int]*Order)

	for rows.Next() {
		o := &Order{}
		if err := rows.Scan(&o.ID, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT oi.order_id, oi.menu_id, COALESCE(m.menu_name, 'Unknown Menu'), oi.qty, oi.price
		FROM order_items oi
		LEFT JOIN menu m ON m.id = oi.menu_id
		ORDER BY oi.id ASC
	`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int
		var item OrderItem
		if err := itemRows.Scan(&orderID, &item.MenuID, &item.MenuName, &item.Qty, &item.Price); err != nil {
			return nil, err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return orders, mapPgError(itemRows.Err())
}

func (r *PostgresRepository) Get(ctx context.Context, id int) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRow(ctx, `
		SELECT id, total, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, mapPgError(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT oi.menu_id, COALESCE(m.menu_name, 'Unknown Menu'), oi.qty, oi.price
		FROM order_items oi
		LEFT JOIN menu m ON m.id = oi.menu_id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC
	`, id)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.MenuID, &item.MenuName, &item.Qty, &item.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	return o, mapPgError(rows.Err())
}

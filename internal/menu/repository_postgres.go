package menu

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
		SELECT id, menu_name, price, COALESCE(image_url, ''), created_at
		FROM menu
		WHERE menu_name ILIKE '%' || $1 || '%'
		ORDER BY id ASC
	`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	byID := make(map[int]*Item)

	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.ImageURL, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ingRows, err := r.db.Query(ctx, `
		SELECT mi.menu_id, mi.inventory_id, i.item_name, mi.qty
		FROM menu_ingredients mi
		JOIN inventory i ON i.id = mi.inventory_id
		ORDER BY mi.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var menuID int
		var line RecipeLine
		if err := ingRows.Scan(&menuID, &line.InventoryID, &line.InventoryName, &line.Qty); err != nil {
			return nil, err
		}
		if item, ok := byID[menuID]; ok {
			item.Recipe = append(item.Recipe, line)
		}
	}
	return items, ingRows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id int) (*Item, error) {
	item := &Item{}
	err := r.db.QueryRow(ctx, `
		SELECT id, menu_name, price, COALESCE(image_url, ''), created_at
		FROM menu
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Price, &item.ImageURL, &item.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	recipe, err := r.RecipeFor(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Recipe = recipe
	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *Item) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO menu (menu_name, price, image_url)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at
	`, item.Name, item.Price, item.ImageURL).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return err
	}

	for _, line := range item.Recipe {
		_, err := tx.Exec(ctx, `
			INSERT INTO menu_ingredients (menu_id, inventory_id, qty)
			VALUES ($1, $2, $3)
		`, item.ID, line.InventoryID, line.Qty)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update replaces the menu row and its whole recipe in one transaction.
func (r *PostgresRepository) Update(ctx context.Context, item *Item) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE menu
		SET menu_name = $1, price = $2
		WHERE id = $3
	`, item.Name, item.Price, item.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM menu_ingredients WHERE menu_id = $1`, item.ID); err != nil {
		return err
	}

	for _, line := range item.Recipe {
		_, err := tx.Exec(ctx, `
			INSERT INTO menu_ingredients (menu_id, inventory_id, qty)
			VALUES ($1, $2, $3)
		`, item.ID, line.InventoryID, line.Qty)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM menu WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetImageURL(ctx context.Context, id int, url string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE menu
		SET image_url = $1
		WHERE id = $2
	`, url, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) RecipeFor(ctx context.Context, menuID int) ([]RecipeLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT mi.inventory_id, i.item_name, mi.qty
		FROM menu_ingredients mi
		JOIN inventory i ON i.id = mi.inventory_id
		WHERE mi.menu_id = $1
		ORDER BY mi.id ASC
	`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipe []RecipeLine
	for rows.Next() {
		var line RecipeLine
		if err := rows.Scan(&line.InventoryID, &line.InventoryName, &line.Qty); err != nil {
			return nil, err
		}
		recipe = append(recipe, line)
	}
	return recipe, rows.Err()
}

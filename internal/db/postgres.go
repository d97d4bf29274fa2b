package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize schema
	if err := initSchema(db); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return db
}

// initSchema creates or updates the database schema
func initSchema(db *pgxpool.Pool) error {
	ctx := context.Background()

	// -------------------------------
	// USERS
	// -------------------------------
	userTableSQL := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			full_name VARCHAR(255) NOT NULL,
			username VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, userTableSQL); err != nil {
		return err
	}

	// -------------------------------
	// INVENTORY
	// -------------------------------
	inventorySQL := `
		CREATE TABLE IF NOT EXISTS inventory (
			id SERIAL PRIMARY KEY,
			item_name VARCHAR(255) NOT NULL,
			qty NUMERIC NOT NULL DEFAULT 0 CHECK (qty >= 0),
			type VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, inventorySQL); err != nil {
		return err
	}

	// -------------------------------
	// MENU + INGREDIENTS
	// -------------------------------
	menuSQL := `
		CREATE TABLE IF NOT EXISTS menu (
			id SERIAL PRIMARY KEY,
			menu_name VARCHAR(255) NOT NULL,
			price NUMERIC NOT NULL CHECK (price >= 0),
			image_url VARCHAR(500),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, menuSQL); err != nil {
		return err
	}

	menuIngredientsSQL := `
		CREATE TABLE IF NOT EXISTS menu_ingredients (
			id SERIAL PRIMARY KEY,
			menu_id INT NOT NULL REFERENCES menu(id) ON DELETE CASCADE,
			inventory_id INT NOT NULL REFERENCES inventory(id),
			qty NUMERIC NOT NULL CHECK (qty > 0)
		)
	`
	if _, err := db.Exec(ctx, menuIngredientsSQL); err != nil {
		return err
	}

	// -------------------------------
	// ORDERS
	// -------------------------------
	ordersSQL := `
		CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			total NUMERIC NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, ordersSQL); err != nil {
		return err
	}

	orderItemsSQL := `
		CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_id INT NOT NULL REFERENCES menu(id),
			qty INT NOT NULL CHECK (qty > 0),
			price NUMERIC NOT NULL
		)
	`
	if _, err := db.Exec(ctx, orderItemsSQL); err != nil {
		return err
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}

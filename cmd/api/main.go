package main

import (
	"context"
	"log"
	"os"

	"fnb/internal/auth"
	"fnb/internal/db"
	"fnb/internal/inventory"
	"fnb/internal/menu"
	"fnb/internal/order"
	"fnb/internal/router"
	"fnb/internal/storage"

	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("❌ R2 init failed:", err)
	}

	// ───────────────────────── REPOS ─────────────────────────
	userRepo := auth.NewPostgresUserRepository(pgDB)
	inventoryRepo := inventory.NewPostgresRepository(pgDB)
	menuRepo := menu.NewPostgresRepository(pgDB)
	orderRepo := order.NewPostgresRepository(pgDB)

	// ───────────────────────── SERVICES ─────────────────────────
	authService := auth.NewService(userRepo)
	inventoryService := inventory.NewService(inventoryRepo)
	menuService := menu.NewService(menuRepo, r2Client)
	orderEngine := order.NewEngine(orderRepo)

	// ───────────────────────── HANDLERS ─────────────────────────
	authHandler := auth.NewHandler(authService)
	inventoryHandler := inventory.NewHandler(inventoryService)
	menuHandler := menu.NewHandler(menuService)
	orderHandler := order.NewHandler(orderEngine)

	// ───────────────────────── START ─────────────────────────
	r := router.New(authHandler, inventoryHandler, menuHandler, orderHandler)

	log.Println("🚀 API running at http://localhost:8000")
	r.Run(":8000")
}

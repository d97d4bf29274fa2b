package router

import (
	"time"

	"fnb/internal/auth"
	"fnb/internal/inventory"
	"fnb/internal/menu"
	"fnb/internal/middleware"
	"fnb/internal/order"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New assembles the gin engine with every route group, mirroring the
// old front-end's pages: login, payments (quote/commit), history,
// menu, inventory, user administration.
func New(
	authHandler *auth.Handler,
	inventoryHandler *inventory.Handler,
	menuHandler *menu.Handler,
	orderHandler *order.Handler,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── AUTH ─────────────────────────
	r.POST("/auth/login", authHandler.Login)

	// ───────────────────────── USERS (SUPERADMIN) ─────────────────────────
	users := r.Group("/users")
	users.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleSuperadmin),
	)
	{
		users.POST("", authHandler.CreateUser)
		users.GET("", authHandler.ListUsers)
	}

	// ───────────────────────── ORDERS (ANY AUTHENTICATED) ─────────────────────────
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("/quote", orderHandler.Quote)
		orders.POST("", orderHandler.Commit)
		orders.GET("", orderHandler.List)
		orders.GET("/:id", orderHandler.Get)
		orders.GET("/:id/receipt", orderHandler.Receipt)
	}

	// ───────────────────────── MENU ─────────────────────────
	menus := r.Group("/menu")
	menus.Use(middleware.AuthMiddleware())
	{
		menus.GET("", menuHandler.List)
		menus.GET("/:id", menuHandler.Get)

		adminOnly := menus.Group("")
		adminOnly.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleSuperadmin))
		{
			adminOnly.POST("", menuHandler.Create)
			adminOnly.PUT("/:id", menuHandler.Update)
			adminOnly.DELETE("/:id", menuHandler.Delete)
			adminOnly.POST("/:id/image", menuHandler.UploadImage)
		}
	}

	// ───────────────────────── INVENTORY ─────────────────────────
	inventoryGroup := r.Group("/inventory")
	inventoryGroup.Use(middleware.AuthMiddleware())
	{
		inventoryGroup.GET("", inventoryHandler.List)

		adminOnly := inventoryGroup.Group("")
		adminOnly.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleSuperadmin))
		{
			adminOnly.POST("", inventoryHandler.Create)
			adminOnly.PUT("/:id", inventoryHandler.Update)
			adminOnly.DELETE("/:id", inventoryHandler.Delete)
		}
	}

	return r
}

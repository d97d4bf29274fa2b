package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fnb/internal/auth"
	"fnb/internal/inventory"
	"fnb/internal/menu"
	"fnb/internal/order"

	"github.com/gin-gonic/gin"
)

func newTestRouter() (*gin.Engine, *auth.Service) {
	gin.SetMode(gin.TestMode)

	userRepo := auth.NewInMemoryUserRepository()
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(authService)

	inventoryRepo := inventory.NewInMemoryRepository()
	inventoryHandler := inventory.NewHandler(inventory.NewService(inventoryRepo))

	menuRepo := menu.NewInMemoryRepository()
	menuHandler := menu.NewHandler(menu.NewService(menuRepo, nil))

	orderRepo := order.NewInMemoryRepository(menuRepo, inventoryRepo)
	orderHandler := order.NewHandler(order.NewEngine(orderRepo))

	return New(authHandler, inventoryHandler, menuHandler, orderHandler), authService
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestInventoryWriteRequiresAdminRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	r, service := newTestRouter()

	user, err := service.CreateUser("Cashier", "cashier1", "Password@123", auth.RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"item_name": "Flour",
		"qty":       10,
	})
	req := httptest.NewRequest(http.MethodPost, "/inventory", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	r, service := newTestRouter()

	if _, err := service.CreateUser("Cashier", "cashier1", "Password@123", auth.RoleUser); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, _ := json.Marshal(map[string]string{
		"username": "cashier1",
		"password": "Password@123",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the login response")
	}
}

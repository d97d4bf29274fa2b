package menu

import (
	"context"
	"errors"
	"testing"
)

func TestCreateMenuItem_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewService(repo, nil)

	item, err := service.Create(context.Background(), "Bread", 1500, []RecipeLine{
		{InventoryID: 1, Qty: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.ID == 0 {
		t.Errorf("expected ID to be set")
	}
	if len(item.Recipe) != 1 {
		t.Fatalf("expected 1 recipe line, got %d", len(item.Recipe))
	}
}

func TestCreateMenuItem_Validation(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewService(repo, nil)

	if _, err := service.Create(context.Background(), "", 1500, nil); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := service.Create(context.Background(), "Bread", 0, nil); err == nil {
		t.Error("expected error for zero price")
	}
	if _, err := service.Create(context.Background(), "Bread", 1500, []RecipeLine{{InventoryID: 1, Qty: 0}}); err == nil {
		t.Error("expected error for zero recipe qty")
	}
	if _, err := service.Create(context.Background(), "Bread", 1500, []RecipeLine{{Qty: 1}}); err == nil {
		t.Error("expected error for recipe line without inventory item")
	}
}

func TestCreateMenuItem_EmptyRecipeAllowed(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewService(repo, nil)

	// No recipe means unlimited availability, not an error.
	item, err := service.Create(context.Background(), "Black Coffee", 800, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(item.Recipe) != 0 {
		t.Errorf("expected empty recipe, got %d lines", len(item.Recipe))
	}
}

func TestUpdateMenuItem_ReplacesRecipe(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewService(repo, nil)

	item, _ := service.Create(context.Background(), "Bread", 1500, []RecipeLine{
		{InventoryID: 1, Qty: 2},
		{InventoryID: 2, Qty: 1},
	})

	updated, err := service.Update(context.Background(), item.ID, "Bread", 1800, []RecipeLine{
		{InventoryID: 1, Qty: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 1800 {
		t.Errorf("expected price 1800, got %v", updated.Price)
	}

	recipe, _ := repo.RecipeFor(context.Background(), item.ID)
	if len(recipe) != 1 || recipe[0].Qty != 3 {
		t.Errorf("expected recipe to be replaced, got %+v", recipe)
	}
}

func TestUpdateMenuItem_NotFound(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewService(repo, nil)

	_, err := service.Update(context.Background(), 99, "Ghost", 100, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecipeFor_Missing(t *testing.T) {
	repo := NewInMemoryRepository()

	if _, err := repo.RecipeFor(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

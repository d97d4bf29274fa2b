package menu

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("menu item not found")

// Repository defines the data-access contract.
// Service depends ONLY on this interface.
type Repository interface {
	List(ctx context.Context, search string) ([]*Item, error)
	Get(ctx context.Context, id int) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int) error
	SetImageURL(ctx context.Context, id int, url string) error

	// RecipeFor resolves the recipe lines of one menu item.
	// Read-only during checkout.
	RecipeFor(ctx context.Context, menuID int) ([]RecipeLine, error)
}

package order

import (
	"context"

	"fnb/internal/inventory"
	"fnb/internal/menu"
)

// Repository defines the data-access contract for the engine and
// the history reader. Engine depends ONLY on this interface.
type Repository interface {
	// MenuItems loads the referenced menu items with their recipes.
	// Missing ids are simply absent from the result map.
	MenuItems(ctx context.Context, ids []int) (map[int]*menu.Item, error)

	// StockLevels snapshots the referenced inventory items.
	StockLevels(ctx context.Context, ids []int) (map[int]*inventory.Item, error)

	// CommitOrder atomically applies every demand decrement and
	// records the order with its items. Either everything is written
	// or nothing is. Demand must be sorted by inventory id so
	// concurrent commits acquire row locks in the same order.
	CommitOrder(ctx context.Context, o *Order, demand []StockDemand) error

	List(ctx context.Context) ([]*Order, error)
	Get(ctx context.Context, id int) (*Order, error)
}

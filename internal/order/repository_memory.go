package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"fnb/internal/inventory"
	"fnb/internal/menu"
)

// InMemoryRepository backs the engine with the in-memory menu and
// inventory repositories. Commits are serialized behind one mutex,
// which stands in for the database's row-level locking.
type InMemoryRepository struct {
	mu     sync.Mutex
	menus  *menu.InMemoryRepository
	stock  *inventory.InMemoryRepository
	orders map[int]*Order
	nextID int
}

func NewInMemoryRepository(menus *menu.InMemoryRepository, stock *inventory.InMemoryRepository) *InMemoryRepository {
	return &InMemoryRepository{
		menus:  menus,
		stock:  stock,
		orders: make(map[int]*Order),
		nextID: 1,
	}
}

func (r *InMemoryRepository) MenuItems(ctx context.Context, ids []int) (map[int]*menu.Item, error) {
	items := make(map[int]*menu.Item)
	for _, id := range ids {
		item, err := r.menus.Get(ctx, id)
		if err != nil {
			if errors.Is(err, menu.ErrNotFound) {
				continue
			}
			return nil, err
		}
		items[id] = item
	}
	return items, nil
}

func (r *InMemoryRepository) StockLevels(ctx context.Context, ids []int) (map[int]*inventory.Item, error) {
	stock := make(map[int]*inventory.Item)
	for _, id := range ids {
		item, err := r.stock.Get(ctx, id)
		if err != nil {
			if errors.Is(err, inventory.ErrNotFound) {
				continue
			}
			return nil, err
		}
		stock[id] = item
	}
	return stock, nil
}

// CommitOrder applies every decrement through the ledger guard while
// holding the commit mutex. If any decrement is refused, the ones
// already applied are reversed, so a rejected commit never leaves
// inventory partially drained.
func (r *InMemoryRepository) CommitOrder(ctx context.Context, o *Order, demand []StockDemand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var applied []StockDemand
	for _, d := range demand {
		if err := r.stock.ApplyDelta(ctx, d.InventoryID, -d.Qty); err != nil {
			for _, a := range applied {
				r.stock.ApplyDelta(ctx, a.InventoryID, a.Qty)
			}

			if errors.Is(err, inventory.ErrNegativeStock) {
				var current float64
				if item, getErr := r.stock.Get(ctx, d.InventoryID); getErr == nil {
					current = item.Qty
				}
				return &InsufficientStockError{
					MenuName:  d.MenuName,
					ItemName:  d.ItemName,
					Shortfall: d.Qty - current,
				}
			}
			return err
		}
		applied = append(applied, d)
	}

	o.ID = r.nextID
	r.nextID++
	o.CreatedAt = time.Now()

	copied := *o
	copied.Items = append([]OrderItem(nil), o.Items...)
	r.orders[o.ID] = &copied
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []*Order
	for _, o := range r.orders {
		copied := *o
		copied.Items = append([]OrderItem(nil), o.Items...)
		orders = append(orders, &copied)
	}
	// Newest first
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id int) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	copied.Items = append([]OrderItem(nil), o.Items...)
	return &copied, nil
}

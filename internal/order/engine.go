package order

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"fnb/internal/inventory"
)

const (
	maxCommitAttempts = 3
	retryBaseDelay    = 25 * time.Millisecond
)

// Engine is the one place that both records a sale and decrements
// inventory. Quote is side-effect free; Commit is all-or-nothing.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// --------------------------------------------------
// Cart normalization
// --------------------------------------------------

// normalizeCart merges duplicate menu ids and rejects bad quantities.
// Line order of first appearance is preserved.
func normalizeCart(cart []CartLine) ([]CartLine, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	index := make(map[int]int)
	var merged []CartLine
	for _, line := range cart {
		if line.Qty <= 0 {
			return nil, errors.New("cart qty must be positive")
		}
		if i, ok := index[line.MenuID]; ok {
			merged[i].Qty += line.Qty
			continue
		}
		index[line.MenuID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

type cartContext struct {
	lines  []CartLine
	menus  map[int]*menuInfo
	demand map[int]float64 // inventory id -> total units needed
}

type menuInfo struct {
	name   string
	price  float64
	recipe []recipeLine
}

type recipeLine struct {
	inventoryID int
	qty         float64
}

// loadCart resolves menu items and aggregates demand per inventory
// item across ALL cart lines. Two menu items competing for the same
// ingredient are summed here, before any availability decision.
func (e *Engine) loadCart(ctx context.Context, cart []CartLine) (*cartContext, error) {
	lines, err := normalizeCart(cart)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuID)
	}

	items, err := e.repo.MenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	cc := &cartContext{
		lines:  lines,
		menus:  make(map[int]*menuInfo),
		demand: make(map[int]float64),
	}

	for _, line := range lines {
		item, ok := items[line.MenuID]
		if !ok {
			return nil, &UnknownMenuItemError{MenuID: line.MenuID}
		}

		info := &menuInfo{name: item.Name, price: item.Price}
		for _, r := range item.Recipe {
			info.recipe = append(info.recipe, recipeLine{inventoryID: r.InventoryID, qty: r.Qty})
			cc.demand[r.InventoryID] += r.Qty * float64(line.Qty)
		}
		cc.menus[line.MenuID] = info
	}
	return cc, nil
}

func (cc *cartContext) inventoryIDs() []int {
	ids := make([]int, 0, len(cc.demand))
	for id := range cc.demand {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// --------------------------------------------------
// Quote
// --------------------------------------------------

// Quote computes, per cart line, whether its requested qty is
// satisfiable and the maximum that would be, with availability
// recomputed jointly: the other lines' aggregated demand on a shared
// ingredient is subtracted before dividing what is left.
func (e *Engine) Quote(ctx context.Context, cart []CartLine) (*AvailabilityResult, error) {
	cc, err := e.loadCart(ctx, cart)
	if err != nil {
		return nil, err
	}

	stock, err := e.repo.StockLevels(ctx, cc.inventoryIDs())
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{OK: true}
	for _, line := range cc.lines {
		info := cc.menus[line.MenuID]

		la := LineAvailability{
			MenuID:    line.MenuID,
			MenuName:  info.name,
			Requested: line.Qty,
		}

		if len(info.recipe) == 0 {
			la.Unlimited = true
			la.MaxQty = line.Qty
			la.Satisfiable = true
			result.Lines = append(result.Lines, la)
			continue
		}

		maxQty := math.MaxInt
		for _, r := range info.recipe {
			var onHand float64
			if item, ok := stock[r.inventoryID]; ok {
				onHand = item.Qty
			}

			othersDemand := cc.demand[r.inventoryID] - r.qty*float64(line.Qty)
			remaining := onHand - othersDemand
			avail := int(math.Floor(remaining / r.qty))
			if avail < 0 {
				avail = 0
			}
			if avail < maxQty {
				maxQty = avail
			}
		}

		la.MaxQty = maxQty
		la.Satisfiable = line.Qty <= maxQty
		if !la.Satisfiable {
			result.OK = false
		}
		result.Lines = append(result.Lines, la)
	}
	return result, nil
}

// --------------------------------------------------
// Commit
// --------------------------------------------------

// Commit records the order and decrements every touched inventory
// item by its aggregated demand, atomically. On a serialization
// conflict the whole attempt is retried with backoff; it never
// retries past the context or leaves a partial write behind.
func (e *Engine) Commit(ctx context.Context, cart []CartLine) (*Order, error) {
	cc, err := e.loadCart(ctx, cart)
	if err != nil {
		return nil, err
	}

	stock, err := e.repo.StockLevels(ctx, cc.inventoryIDs())
	if err != nil {
		return nil, err
	}

	demand, err := buildDemand(cc, stock)
	if err != nil {
		return nil, err
	}

	o := &Order{}
	for _, line := range cc.lines {
		info := cc.menus[line.MenuID]
		o.Items = append(o.Items, OrderItem{
			MenuID:   line.MenuID,
			MenuName: info.name,
			Qty:      line.Qty,
			Price:    info.price,
		})
		o.Total += info.price * float64(line.Qty)
	}

	for attempt := 1; ; attempt++ {
		err := e.repo.CommitOrder(ctx, o, demand)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, ErrConflict) || attempt >= maxCommitAttempts {
			return nil, err
		}

		delay := retryBaseDelay << (attempt - 1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// buildDemand turns the aggregated demand map into a deterministic,
// id-ordered slice and pre-checks it against the stock snapshot so
// obviously doomed commits fail before touching the store. The
// conditional decrement inside CommitOrder remains the authoritative
// check.
func buildDemand(cc *cartContext, stock map[int]*inventory.Item) ([]StockDemand, error) {
	blame := make(map[int]string)
	for _, line := range cc.lines {
		info := cc.menus[line.MenuID]
		for _, r := range info.recipe {
			if _, ok := blame[r.inventoryID]; !ok {
				blame[r.inventoryID] = info.name
			}
		}
	}

	var demand []StockDemand
	for _, id := range cc.inventoryIDs() {
		needed := cc.demand[id]

		var onHand float64
		name := "unknown item"
		if item, ok := stock[id]; ok {
			onHand = item.Qty
			name = item.Name
		}

		if needed > onHand {
			return nil, &InsufficientStockError{
				MenuName:  blame[id],
				ItemName:  name,
				Shortfall: needed - onHand,
			}
		}

		demand = append(demand, StockDemand{
			InventoryID: id,
			ItemName:    name,
			MenuName:    blame[id],
			Qty:         needed,
		})
	}
	return demand, nil
}

// --------------------------------------------------
// History reader
// --------------------------------------------------

func (e *Engine) List(ctx context.Context) ([]*Order, error) {
	return e.repo.List(ctx)
}

func (e *Engine) Get(ctx context.Context, id int) (*Order, error) {
	return e.repo.Get(ctx, id)
}

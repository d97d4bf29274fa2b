package order

import "time"

// CartLine is one requested menu item. Cart state lives with the
// caller; it only reaches this package as a quote or commit payload.
type CartLine struct {
	MenuID int `json:"menu_id"`
	Qty    int `json:"qty"`
}

// Order is created exactly once per successful commit and is
// immutable afterwards.
type Order struct {
	ID        int         `json:"id"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem captures the unit price at commit time, so historical
// totals stay stable when menu prices change later.
type OrderItem struct {
	MenuID   int     `json:"menu_id"`
	MenuName string  `json:"menu_name"`
	Qty      int     `json:"qty"`
	Price    float64 `json:"price"`
}

// LineAvailability reports, for one cart line, how many units are
// purchasable given the rest of the cart competing for the same
// ingredients.
type LineAvailability struct {
	MenuID      int    `json:"menu_id"`
	MenuName    string `json:"menu_name"`
	Requested   int    `json:"requested"`
	MaxQty      int    `json:"max_qty"`
	Unlimited   bool   `json:"unlimited,omitempty"`
	Satisfiable bool   `json:"satisfiable"`
}

type AvailabilityResult struct {
	Lines []LineAvailability `json:"lines"`
	OK    bool               `json:"ok"`
}

// StockDemand is the aggregated consumption of one inventory item
// across every cart line that references it. MenuName records which
// cart line gets blamed if the item runs short.
type StockDemand struct {
	InventoryID int
	ItemName    string
	MenuName    string
	Qty         float64
}

package menu

import "time"

// Item is a sellable menu entry together with its recipe: the
// inventory quantities one unit consumes when sold.
type Item struct {
	ID        int          `json:"id"`
	Name      string       `json:"menu_name"`
	Price     float64      `json:"price"`
	ImageURL  string       `json:"image_url,omitempty"`
	Recipe    []RecipeLine `json:"ingredients"`
	CreatedAt time.Time    `json:"created_at"`
}

// RecipeLine links a menu item to one inventory item. An item with no
// recipe lines has unlimited availability.
type RecipeLine struct {
	InventoryID   int     `json:"inventory_id"`
	InventoryName string  `json:"item_name,omitempty"`
	Qty           float64 `json:"qty"`
}

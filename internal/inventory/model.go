package inventory

import "time"

// Item is one stock-keeping row. Qty is the only field the order
// engine ever mutates; everything else is admin-edited.
type Item struct {
	ID        int       `json:"id"`
	Name      string    `json:"item_name"`
	Qty       float64   `json:"qty"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

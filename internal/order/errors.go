package order

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	ErrNotFound  = errors.New("order not found")

	// ErrConflict means the commit lost a lock or serialization race
	// and can be retried as a whole.
	ErrConflict = errors.New("concurrent commit conflict")

	// ErrStoreUnavailable marks transient store failures; callers
	// should retry later.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InsufficientStockError is a normal, reportable outcome: the cart
// asks for more of an ingredient than is on hand. The caller is
// expected to let the user adjust the cart.
type InsufficientStockError struct {
	MenuName  string
	ItemName  string
	Shortfall float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough %s for %s (short %g)", e.ItemName, e.MenuName, e.Shortfall)
}

// UnknownMenuItemError means a cart line references a menu id that
// does not exist (or was deleted between browsing and checkout).
type UnknownMenuItemError struct {
	MenuID int
}

func (e *UnknownMenuItemError) Error() string {
	return fmt.Sprintf("unknown menu item %d", e.MenuID)
}

package inventory

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("inventory item not found")

	// ErrNegativeStock means a delta would have driven qty below zero.
	// The order engine pre-checks demand, so hitting this guard is a
	// bug signal rather than a normal outcome.
	ErrNegativeStock = errors.New("stock cannot go negative")
)

// Repository defines the data-access contract.
// Service depends ONLY on this interface.
type Repository interface {
	List(ctx context.Context, search string) ([]*Item, error)
	Get(ctx context.Context, id int) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int) error

	// ApplyDelta adjusts qty by delta (negative for consumption) and
	// fails with ErrNegativeStock if the result would be negative.
	ApplyDelta(ctx context.Context, id int, delta float64) error
}

package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fnb/internal/inventory"
	"fnb/internal/menu"
)

// --------------------------------------------------
// Fixture
// --------------------------------------------------

type fixture struct {
	stock  *inventory.InMemoryRepository
	menus  *menu.InMemoryRepository
	repo   *InMemoryRepository
	engine *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	stock := inventory.NewInMemoryRepository()
	menus := menu.NewInMemoryRepository()
	repo := NewInMemoryRepository(menus, stock)

	return &fixture{
		stock:  stock,
		menus:  menus,
		repo:   repo,
		engine: NewEngine(repo),
	}
}

func (f *fixture) addStock(t *testing.T, name string, qty float64) int {
	t.Helper()
	item := &inventory.Item{Name: name, Qty: qty}
	require.NoError(t, f.stock.Create(context.Background(), item))
	return item.ID
}

func (f *fixture) addMenu(t *testing.T, name string, price float64, recipe ...menu.RecipeLine) int {
	t.Helper()
	item := &menu.Item{Name: name, Price: price, Recipe: recipe}
	require.NoError(t, f.menus.Create(context.Background(), item))
	return item.ID
}

func (f *fixture) qty(t *testing.T, id int) float64 {
	t.Helper()
	item, err := f.stock.Get(context.Background(), id)
	require.NoError(t, err)
	return item.Qty
}

// --------------------------------------------------
// Commit
// --------------------------------------------------

func TestCommit_DecrementsByAggregatedDemand(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	o, err := f.engine.Commit(context.Background(), []CartLine{{MenuID: bread, Qty: 5}})
	require.NoError(t, err)

	assert.NotZero(t, o.ID)
	assert.Equal(t, float64(7500), o.Total)
	assert.Equal(t, float64(0), f.qty(t, flour))
}

func TestCommit_InsufficientStockAppliesNothing(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	_, err := f.engine.Commit(context.Background(), []CartLine{{MenuID: bread, Qty: 6}})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "bread", insufficient.MenuName)
	assert.Equal(t, "flour", insufficient.ItemName)
	assert.Equal(t, float64(2), insufficient.Shortfall)

	assert.Equal(t, float64(10), f.qty(t, flour))

	orders, err := f.repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders, "rejected commit must not create an order")
}

func TestCommit_SharedIngredientDemandIsAggregated(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})
	pastry := f.addMenu(t, "pastry", 2000, menu.RecipeLine{InventoryID: flour, Qty: 3})

	// Individually each line fits (6 and 9 flour), jointly they need 15.
	_, err := f.engine.Commit(context.Background(), []CartLine{
		{MenuID: bread, Qty: 3},
		{MenuID: pastry, Qty: 3},
	})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, float64(10), f.qty(t, flour), "no partial decrement on rejection")
}

func TestCommit_MergesDuplicateCartLines(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	o, err := f.engine.Commit(context.Background(), []CartLine{
		{MenuID: bread, Qty: 2},
		{MenuID: bread, Qty: 3},
	})
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, 5, o.Items[0].Qty)
	assert.Equal(t, float64(0), f.qty(t, flour))
}

func TestCommit_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Commit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCommit_UnknownMenuItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Commit(context.Background(), []CartLine{{MenuID: 42, Qty: 1}})

	var unknown *UnknownMenuItemError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 42, unknown.MenuID)
}

func TestCommit_TotalStableAfterPriceChange(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 100)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	o, err := f.engine.Commit(context.Background(), []CartLine{{MenuID: bread, Qty: 2}})
	require.NoError(t, err)
	require.Equal(t, float64(3000), o.Total)

	// Reprice the menu item after the sale.
	require.NoError(t, f.menus.Update(context.Background(), &menu.Item{
		ID:     bread,
		Name:   "bread",
		Price:  9999,
		Recipe: []menu.RecipeLine{{InventoryID: flour, Qty: 2}},
	}))

	got, err := f.engine.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(3000), got.Total)
	assert.Equal(t, float64(1500), got.Items[0].Price)
}

func TestCommit_ConcurrentCommitsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	// Each cart needs all 10 flour; together they need 20.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Commit(context.Background(), []CartLine{{MenuID: bread, Qty: 5}})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var insufficient *InsufficientStockError
		if errors.As(err, &insufficient) || errors.Is(err, ErrConflict) {
			rejections++
			continue
		}
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, 1, successes, "exactly one commit must win")
	assert.Equal(t, 1, rejections)
	assert.Equal(t, float64(0), f.qty(t, flour), "stock never goes negative")

	orders, err := f.repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCommitOrder_RollsBackPartialDecrements(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	butter := f.addStock(t, "butter", 1)

	// Bypass the engine's pre-check and hit the ledger guard directly:
	// flour decrement succeeds, butter is short, flour must come back.
	err := f.repo.CommitOrder(context.Background(), &Order{}, []StockDemand{
		{InventoryID: flour, ItemName: "flour", MenuName: "croissant", Qty: 4},
		{InventoryID: butter, ItemName: "butter", MenuName: "croissant", Qty: 2},
	})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "butter", insufficient.ItemName)
	assert.Equal(t, float64(10), f.qty(t, flour))
	assert.Equal(t, float64(1), f.qty(t, butter))
}

// --------------------------------------------------
// Retry on conflict
// --------------------------------------------------

// conflictRepo wraps the in-memory repository and forces the first n
// commit attempts to fail with ErrConflict.
type conflictRepo struct {
	*InMemoryRepository
	remaining int
}

func (r *conflictRepo) CommitOrder(ctx context.Context, o *Order, demand []StockDemand) error {
	if r.remaining > 0 {
		r.remaining--
		return ErrConflict
	}
	return r.InMemoryRepository.CommitOrder(ctx, o, demand)
}

func TestCommit_RetriesOnConflict(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	engine := NewEngine(&conflictRepo{InMemoryRepository: f.repo, remaining: 2})

	o, err := engine.Commit(context.Background(), []CartLine{{MenuID: bread, Qty: 1}})
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.Equal(t, float64(8), f.qty(t, flour))
}

func TestCommit_GivesUpAfterBoundedRetries(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	engine := NewEngine(&conflictRepo{InMemoryRepository: f.repo, remaining: 100})

	_, err := engine.Commit(context.Background(), []CartLine{{MenuID: bread, Qty: 1}})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, float64(10), f.qty(t, flour))
}

// --------------------------------------------------
// Quote
// --------------------------------------------------

func TestQuote_NeverMutatesStock(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	for _, qty := range []int{1, 5, 50} {
		_, err := f.engine.Quote(context.Background(), []CartLine{{MenuID: bread, Qty: qty}})
		require.NoError(t, err)
		assert.Equal(t, float64(10), f.qty(t, flour))
	}
}

func TestQuote_PerLineAvailability(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})

	result, err := f.engine.Quote(context.Background(), []CartLine{{MenuID: bread, Qty: 6}})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.False(t, line.Satisfiable)
	assert.Equal(t, 5, line.MaxQty)
	assert.False(t, result.OK)
}

func TestQuote_JointAvailabilityAcrossSharedIngredient(t *testing.T) {
	f := newFixture(t)
	flour := f.addStock(t, "flour", 10)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: flour, Qty: 2})
	pastry := f.addMenu(t, "pastry", 2000, menu.RecipeLine{InventoryID: flour, Qty: 3})

	// Each line alone fits, but the cart as a whole wants 12 flour.
	// With pastry's 6 already spoken for, bread sees 4 flour left
	// (max 2), and with bread's 6 spoken for, pastry sees 4 (max 1).
	result, err := f.engine.Quote(context.Background(), []CartLine{
		{MenuID: bread, Qty: 3},
		{MenuID: pastry, Qty: 2},
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	breadLine := result.Lines[0]
	assert.False(t, breadLine.Satisfiable)
	assert.Equal(t, 2, breadLine.MaxQty)

	pastryLine := result.Lines[1]
	assert.False(t, pastryLine.Satisfiable)
	assert.Equal(t, 1, pastryLine.MaxQty)
	assert.False(t, result.OK)
}

func TestQuote_EmptyRecipeIsUnlimited(t *testing.T) {
	f := newFixture(t)
	coffee := f.addMenu(t, "black coffee", 800)

	result, err := f.engine.Quote(context.Background(), []CartLine{{MenuID: coffee, Qty: 100}})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.True(t, result.Lines[0].Unlimited)
	assert.True(t, result.Lines[0].Satisfiable)
	assert.True(t, result.OK)
}

func TestQuote_MissingInventoryCountsAsZero(t *testing.T) {
	f := newFixture(t)
	bread := f.addMenu(t, "bread", 1500, menu.RecipeLine{InventoryID: 99, Qty: 2})

	result, err := f.engine.Quote(context.Background(), []CartLine{{MenuID: bread, Qty: 1}})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.False(t, result.Lines[0].Satisfiable)
	assert.Equal(t, 0, result.Lines[0].MaxQty)
}

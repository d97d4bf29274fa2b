package menu

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type InMemoryRepository struct {
	mu     sync.Mutex
	items  map[int]*Item
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items:  make(map[int]*Item),
		nextID: 1,
	}
}

func cloneItem(item *Item) *Item {
	copied := *item
	copied.Recipe = append([]RecipeLine(nil), item.Recipe...)
	return &copied
}

func (r *InMemoryRepository) List(ctx context.Context, search string) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []*Item
	for _, item := range r.items {
		if search == "" || strings.Contains(strings.ToLower(item.Name), strings.ToLower(search)) {
			items = append(items, cloneItem(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id int) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	item.CreatedAt = time.Now()

	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.ImageURL = existing.ImageURL

	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *InMemoryRepository) SetImageURL(ctx context.Context, id int, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	item.ImageURL = url
	return nil
}

func (r *InMemoryRepository) RecipeFor(ctx context.Context, menuID int) ([]RecipeLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[menuID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]RecipeLine(nil), item.Recipe...), nil
}

package inventory

import (
	"context"
	"errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, search string) ([]*Item, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Get(ctx context.Context, id int) (*Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string, qty float64, itemType string) (*Item, error) {
	if name == "" {
		return nil, errors.New("item name is required")
	}
	if qty < 0 {
		return nil, errors.New("qty cannot be negative")
	}

	item := &Item{
		Name: name,
		Qty:  qty,
		Type: itemType,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int, name string, qty float64, itemType string) (*Item, error) {
	if name == "" {
		return nil, errors.New("item name is required")
	}
	if qty < 0 {
		return nil, errors.New("qty cannot be negative")
	}

	item := &Item{
		ID:   id,
		Name: name,
		Qty:  qty,
		Type: itemType,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

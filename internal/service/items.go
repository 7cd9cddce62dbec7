package service

import (
	"context"
	"errors"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/repository"
	"github.com/deppfellow/request-tour/internal/sqlerr"
)

// ErrItemNotFound is the 404 returned for unknown item ids.
var ErrItemNotFound = errs.NewNotFoundError("Item not found", false, nil).
	WithHeader("X-Error", "There goes my error")

type ItemService struct {
	items repository.ItemStore
}

func NewItemService(items repository.ItemStore) *ItemService {
	return &ItemService{items: items}
}

// Create returns the item with price_with_tax filled in when taxed.
// Created items are not stored.
func (s *ItemService) Create(item model.Item) model.ItemWithTax {
	return model.WithTax(item)
}

func (s *ItemService) Get(ctx context.Context, id string) (model.Item, error) {
	item, err := s.items.Get(ctx, id)
	if errors.Is(err, repository.ErrItemNotFound) {
		return model.Item{}, ErrItemNotFound
	}
	if err != nil {
		return model.Item{}, sqlerr.HandleError(err)
	}
	return item, nil
}

// Update overwrites the item stored under id and returns it.
func (s *ItemService) Update(ctx context.Context, id string, item model.Item) (model.Item, error) {
	if err := s.items.Put(ctx, id, item); err != nil {
		return model.Item{}, sqlerr.HandleError(err)
	}
	return item, nil
}

// Ping checks the store backend.
func (s *ItemService) Ping(ctx context.Context) error {
	return s.items.Ping(ctx)
}

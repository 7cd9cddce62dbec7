package repository

import (
	"context"
	"sync"

	"github.com/deppfellow/request-tour/internal/model"
)

// MemoryItemStore keeps items in a map guarded by a RWMutex.
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[string]model.Item
}

func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: make(map[string]model.Item)}
}

func (s *MemoryItemStore) Get(_ context.Context, id string) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return model.Item{}, ErrItemNotFound
	}
	return cloneItem(item), nil
}

func (s *MemoryItemStore) Put(_ context.Context, id string, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = cloneItem(item)
	return nil
}

func (s *MemoryItemStore) Seed(_ context.Context, id string, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		s.items[id] = cloneItem(item)
	}
	return nil
}

func (s *MemoryItemStore) Ping(context.Context) error {
	return nil
}

// cloneItem copies the pointer fields so callers cannot mutate stored
// values.
func cloneItem(item model.Item) model.Item {
	if item.Description != nil {
		d := *item.Description
		item.Description = &d
	}
	if item.Tax != nil {
		t := *item.Tax
		item.Tax = &t
	}
	return item
}

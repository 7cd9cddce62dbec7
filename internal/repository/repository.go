// Package repository holds the item store: the one piece of state that
// outlives a request.
//
// ItemStore is implemented three times: in memory (default), on Redis
// and on PostgreSQL. Every implementation is last-write-wins per key and
// gives read-your-write within a single caller; nothing stronger.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/request-tour/internal/model"
)

// ErrItemNotFound is returned by Get when the key is absent.
var ErrItemNotFound = errors.New("item not found")

// ItemStore maps item ids to items.
type ItemStore interface {
	// Get returns the item stored under id or ErrItemNotFound.
	Get(ctx context.Context, id string) (model.Item, error)

	// Put stores item under id, replacing any previous value.
	Put(ctx context.Context, id string, item model.Item) error

	// Seed stores item under id only when the id is free.
	Seed(ctx context.Context, id string, item model.Item) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// SeedItems are the items a fresh store starts with.
func SeedItems() map[string]model.Item {
	bartenders := "The bartenders"
	tax20, tax10 := 20.2, 10.5

	return map[string]model.Item{
		"foo": {Name: "Foo", Price: 50.2},
		"bar": {Name: "Bar", Description: &bartenders, Price: 62, Tax: &tax20},
		"baz": {Name: "Baz", Price: 50.2, Tax: &tax10},
	}
}

// SeedStore writes SeedItems into store without overwriting existing keys.
func SeedStore(ctx context.Context, store ItemStore) error {
	for id, item := range SeedItems() {
		if err := store.Seed(ctx, id, item); err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/request-tour/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisItemStore stores each item as a JSON string under prefix+id.
type RedisItemStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisItemStore(client redis.UniversalClient, prefix string) *RedisItemStore {
	return &RedisItemStore{client: client, prefix: prefix}
}

func (s *RedisItemStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisItemStore) Get(ctx context.Context, id string) (model.Item, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Item{}, ErrItemNotFound
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("redis get %s: %w", id, err)
	}

	var item model.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return model.Item{}, fmt.Errorf("decoding item %s: %w", id, err)
	}
	return item, nil
}

func (s *RedisItemStore) Put(ctx context.Context, id string, item model.Item) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding item %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

func (s *RedisItemStore) Seed(ctx context.Context, id string, item model.Item) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding item %s: %w", id, err)
	}
	if err := s.client.SetNX(ctx, s.key(id), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis setnx %s: %w", id, err)
	}
	return nil
}

func (s *RedisItemStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

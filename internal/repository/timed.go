package repository

import (
	"context"
	"time"

	"github.com/deppfellow/request-tour/internal/model"
	"github.com/rs/zerolog"
)

// TimedItemStore logs store calls slower than a threshold. The request
// logger in ctx is used when there is one.
type TimedItemStore struct {
	next      ItemStore
	threshold time.Duration
	logger    *zerolog.Logger
}

func NewTimedItemStore(next ItemStore, threshold time.Duration, logger *zerolog.Logger) *TimedItemStore {
	return &TimedItemStore{next: next, threshold: threshold, logger: logger}
}

func (s *TimedItemStore) observe(ctx context.Context, op, id string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed < s.threshold {
		return
	}

	logger := s.logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		logger = l
	}

	logger.Warn().
		Str("store_op", op).
		Str("item_id", id).
		Dur("duration", elapsed).
		Dur("threshold", s.threshold).
		Msg("slow store call")
}

func (s *TimedItemStore) Get(ctx context.Context, id string) (model.Item, error) {
	defer s.observe(ctx, "get", id, time.Now())
	return s.next.Get(ctx, id)
}

func (s *TimedItemStore) Put(ctx context.Context, id string, item model.Item) error {
	defer s.observe(ctx, "put", id, time.Now())
	return s.next.Put(ctx, id, item)
}

func (s *TimedItemStore) Seed(ctx context.Context, id string, item model.Item) error {
	defer s.observe(ctx, "seed", id, time.Now())
	return s.next.Seed(ctx, id, item)
}

func (s *TimedItemStore) Ping(ctx context.Context) error {
	defer s.observe(ctx, "ping", "", time.Now())
	return s.next.Ping(ctx)
}

package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/request-tour/internal/config"
	"github.com/deppfellow/request-tour/internal/server"
)

// Repositories is the container of every repository the services use.
type Repositories struct {
	Items ItemStore
}

// NewRepositories picks the item store for the configured backend and
// seeds it when asked to.
func NewRepositories(s *server.Server) (*Repositories, error) {
	var items ItemStore

	switch s.Config.Store.Backend {
	case config.BackendPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("postgres store selected but no database is connected")
		}
		items = NewPostgresItemStore(s.DB.Pool)
	case config.BackendRedis:
		if s.Redis == nil {
			return nil, fmt.Errorf("redis store selected but no redis client is connected")
		}
		items = NewRedisItemStore(s.Redis, s.Config.Store.KeyPrefix)
	default:
		items = NewMemoryItemStore()
	}

	if threshold := s.Config.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		items = NewTimedItemStore(items, threshold, s.Logger)
	}

	if s.Config.Store.Seed {
		if err := SeedStore(context.Background(), items); err != nil {
			return nil, fmt.Errorf("seeding item store: %w", err)
		}
	}

	s.Logger.Info().Str("backend", s.Config.Store.Backend).Bool("seeded", s.Config.Store.Seed).Msg("item store ready")

	return &Repositories{Items: items}, nil
}

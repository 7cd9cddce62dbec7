// Package server holds the application container: configuration,
// loggers, optional backing services and the http.Server lifecycle.
//
// Backing services are only connected when configuration asks for them:
// PostgreSQL for the postgres item store, Redis for the redis item store or
// background jobs, and the Asynq job service when jobs are enabled. With
// the defaults the server runs entirely in memory.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/request-tour/internal/config"
	"github.com/deppfellow/request-tour/internal/database"
	"github.com/deppfellow/request-tour/internal/lib/job"
	loggerPkg "github.com/deppfellow/request-tour/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPingTimeout bounds the startup ping to Redis.
const RedisPingTimeout = 5 * time.Second

// Server is the dependency container shared by repositories, services and
// handlers. It is not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is nil unless the postgres store backend is selected.
	DB *database.Database

	// Redis is nil unless the redis store backend or jobs are enabled.
	Redis *redis.Client

	// Job is nil unless jobs are enabled.
	Job *job.JobService

	httpServer *http.Server
}

// New connects the backing services cfg asks for.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	if cfg.Store.Backend == config.BackendPostgres {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := database.Migrate(migrateCtx, logger, database.DSN(cfg.Database))
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db
	}

	if cfg.NeedsRedis() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
		if loggerService != nil && loggerService.GetApplication() != nil {
			client.AddHook(nrredis.NewHook(client.Options()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), RedisPingTimeout)
		err := client.Ping(ctx).Err()
		cancel()

		// The redis store cannot work without Redis; jobs can start late.
		if err != nil && cfg.Store.Backend == config.BackendRedis {
			s.closeBackends()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to connect to redis, jobs will retry in the background")
		}
		s.Redis = client
	}

	if cfg.Integration.JobsEnabled {
		jobService := job.NewJobService(logger, cfg)
		if err := jobService.Start(); err != nil {
			s.closeBackends()
			return nil, err
		}
		s.Job = jobService
	}

	return s, nil
}

// SetupHTTPServer wraps handler in an http.Server using the configured
// port and timeouts (seconds).
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", s.Config.Store.Backend).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes every backing service.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	return s.closeBackends()
}

func (s *Server) closeBackends() error {
	var errs []error

	if s.Job != nil {
		s.Job.Stop()
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}
	if s.LoggerService != nil {
		s.LoggerService.Shutdown()
	}

	return errors.Join(errs...)
}

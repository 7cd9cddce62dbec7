package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/request-tour/internal/config"
	"github.com/deppfellow/request-tour/internal/handler"
	"github.com/deppfellow/request-tour/internal/logger"
	"github.com/deppfellow/request-tour/internal/openapi"
	"github.com/deppfellow/request-tour/internal/repository"
	"github.com/deppfellow/request-tour/internal/router"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/rs/zerolog"
)

const (
	apiVersion      = "1.0.0"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		boot := newBootLogger(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repositories")
	}

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create services")
	}

	doc := openapi.New(&log, "Request Tour", apiVersion)
	handlers := handler.NewHandlers(srv, services, doc)
	r := router.NewRouter(srv, handlers, services, doc)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited properly")
}

// newBootLogger logs failures that happen before the configured logger
// exists.
func newBootLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("component", "boot").Logger()
}

package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/request-tour/internal/middleware"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler reports whether the process and the item store are usable.
type HealthHandler struct {
	Handler
	items *service.ItemService
}

func NewHealthHandler(s *server.Server, items *service.ItemService) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		items:   items,
	}
}

// CheckHealth answers 200 when every required check passes and 503
// otherwise. Which checks run is configured under
// observability.health_checks. Redis is only required when it backs the
// store; for jobs alone it is reported but does not fail the check.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config.Observability.HealthChecks

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	isHealthy := true

	if cfg.Enabled {
		ctx := c.Request().Context()

		if slices.Contains(cfg.Checks, "store") {
			if !h.check(ctx, cfg.Timeout, &logger, checks, "store", h.items.Ping) {
				isHealthy = false
			}
		}

		if slices.Contains(cfg.Checks, "redis") && h.server.Redis != nil {
			ping := func(ctx context.Context) error { return h.server.Redis.Ping(ctx).Err() }
			// A failing redis backend already fails the store check.
			h.check(ctx, cfg.Timeout, &logger, checks, "redis", ping)
		}
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"store":       h.server.Config.Store.Backend,
		"checks":      checks,
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordFailure(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// check runs one dependency ping and records its result under name.
func (h *HealthHandler) check(
	parent context.Context,
	timeout time.Duration,
	logger *zerolog.Logger,
	checks map[string]interface{},
	name string,
	ping func(context.Context) error,
) bool {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		checks[name] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordFailure(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return false
	}

	checks[name] = map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}
	return true
}

func (h *HealthHandler) recordFailure(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}

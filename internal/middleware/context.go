package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/request-tour/internal/logger"
	"github.com/deppfellow/request-tour/internal/server"
)

const (
	// UserIDKey holds the username derived from the bearer token.
	UserIDKey = "user_id"

	// LoggerKey holds the request-scoped *zerolog.Logger.
	LoggerKey = "logger"
)

// ContextEnhancer gives every request its own logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext stores a logger carrying the request id, the route
// pattern and the concrete path, so "/items/{item_id}" lines group
// together while still showing which item was asked for. The logger is
// also attached to the request context for zerolog.Ctx callers such as
// the store.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			fields := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("route", routeOf(c)).
				Str("path", req.URL.Path).
				Str("client_ip", c.RealIP())
			if userID := GetUserID(c); userID != "" {
				fields = fields.Str("user_id", userID)
			}
			requestLogger := fields.Logger()

			if txn := newrelic.FromContext(req.Context()); txn != nil {
				requestLogger = logger.WithTraceContext(requestLogger, txn)
			}

			c.Set(LoggerKey, &requestLogger)
			c.SetRequest(req.WithContext(requestLogger.WithContext(req.Context())))

			return next(c)
		}
	}
}

// routeOf is the matched route pattern, or "unmatched" for route misses.
func routeOf(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}

func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetLogger returns the request logger, or a no-op logger outside
// EnhanceContext.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}

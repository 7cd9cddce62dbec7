package middleware

import (
	"net/http"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware every route runs through and the
// global error handler.
type GlobalMiddlewares struct {
	server   *server.Server
	registry *errs.Registry
}

// NewGlobalMiddlewares constructs the middleware bundle. registry decides
// what each error looks like on the wire.
func NewGlobalMiddlewares(s *server.Server, registry *errs.Registry) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server:   s,
		registry: registry,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" line per request, leveled by status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The error handler has not written the response yet when a
			// handler fails, so derive the status the same way it will.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = global.Resolve(v.Error).Status
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			if userID := GetUserID(c); userID != "" {
				e = e.Str("user_id", userID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// Resolve maps any error to the response the client gets.
//
//   - echo's own errors (route miss, method not allowed, rate limit) keep
//     their status and become {"detail": message}.
//   - errors the registry knows are translated by it.
//   - everything else is assumed to come from a driver and goes through
//     sqlerr first; what is still unknown becomes a bare 500.
func (global *GlobalMiddlewares) Resolve(err error) errs.Response {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		detail, ok := echoErr.Message.(string)
		if !ok {
			detail = http.StatusText(echoErr.Code)
		}
		return errs.Response{Status: echoErr.Code, Body: map[string]any{"detail": detail}}
	}

	if resp, ok := global.registry.Translate(err); ok {
		return resp
	}

	resp, _ := global.registry.Translate(sqlerr.HandleError(err))
	return resp
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
// Handlers and middleware only ever return errors; this is the one place
// that writes them.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	resp := global.Resolve(err)

	logger := GetLogger(c)
	if resp.Status >= http.StatusInternalServerError {
		logger.Error().Stack().
			Err(err).
			Int("status", resp.Status).
			Str("error_code", errs.MakeUpperCaseWithUnderscores(http.StatusText(resp.Status))).
			Msg("request failed")
	} else {
		logger.Debug().
			Err(err).
			Int("status", resp.Status).
			Msg("request rejected")
	}

	if c.Response().Committed {
		return
	}

	for k, v := range resp.Headers {
		c.Response().Header().Set(k, v)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(resp.Status)
		return
	}
	_ = c.JSON(resp.Status, resp.Body)
}

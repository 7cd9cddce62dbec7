package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/server"
)

// Validation outcomes reported on each transaction.
const (
	ValidationPassed   = "passed"
	ValidationRejected = "rejected"
)

// TracingMiddleware reports each request to New Relic. Without an
// application both middlewares pass requests straight through.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{server: s, nrApp: nrApp}
}

// NewRelicMiddleware opens one transaction per request.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passThrough
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing tags the transaction with the matched route, the store
// backend and how request validation went. Failed validations are not
// noticed as errors; they are client mistakes.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passThrough
	}

	backend := tm.server.Config.Store.Backend

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.route", c.Path())
			txn.AddAttribute("request.id", GetRequestID(c))
			txn.AddAttribute("store.backend", backend)

			err := next(c)

			for key, value := range outcomeAttributes(err) {
				txn.AddAttribute(key, value)
			}
			if userID := GetUserID(c); userID != "" {
				txn.AddAttribute("user.id", userID)
			}
			txn.AddAttribute("http.status_code", c.Response().Status)

			var verr *errs.ValidationError
			if err != nil && !errors.As(err, &verr) {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			return err
		}
	}
}

// outcomeAttributes summarises a handler result for tracing.
func outcomeAttributes(err error) map[string]any {
	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		first := ""
		if len(verr.Errors) > 0 {
			first = verr.Errors[0].Path()
		}
		return map[string]any{
			"validation.status":      ValidationRejected,
			"validation.error_count": len(verr.Errors),
			"validation.first_loc":   first,
		}
	}

	attrs := map[string]any{"validation.status": ValidationPassed}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		attrs["error.code"] = httpErr.Code
	}
	return attrs
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

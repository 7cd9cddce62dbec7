package middleware

import (
	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
)

// Middlewares groups every middleware component so the router builds them
// once.
type Middlewares struct {
	Global          *GlobalMiddlewares
	Auth            *AuthMiddleware
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	RateLimit       *RateLimitMiddleware
}

// NewMiddlewares wires the middleware. Domain errors of the services are
// registered on a fresh registry here, so the error handler knows them.
func NewMiddlewares(s *server.Server, services *service.Services) *Middlewares {
	registry := errs.NewRegistry()
	service.RegisterErrors(registry)

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s, registry),
		Auth:            NewAuthMiddleware(s, services.Auth),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}

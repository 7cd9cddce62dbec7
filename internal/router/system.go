package router

import (
	"github.com/deppfellow/request-tour/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the routes outside the documented API:
// health, the OpenAPI document, the docs UI and static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/openapi.json", h.OpenAPI.ServeSpec)

	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}

package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/request-tour/internal/openapi"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/labstack/echo/v4"
)

// docsPage is the UI page; it loads /openapi.json from the browser.
const docsPage = "static/openapi.html"

// OpenAPIHandler serves the generated document and the docs UI.
type OpenAPIHandler struct {
	Handler
	doc *openapi.Document
}

func NewOpenAPIHandler(s *server.Server, doc *openapi.Document) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		doc:     doc,
	}
}

func (h *OpenAPIHandler) ServeSpec(c echo.Context) error {
	data, err := h.doc.JSON()
	if err != nil {
		return fmt.Errorf("failed to render OpenAPI document: %w", err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(docsPage)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}

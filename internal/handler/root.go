package handler

import (
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/labstack/echo/v4"
)

// RootHandler serves the greeting and the routes that simply return what
// was bound from cookies and headers.
type RootHandler struct {
	Handler
}

func NewRootHandler(s *server.Server) *RootHandler {
	return &RootHandler{Handler: NewHandler(s)}
}

func (h *RootHandler) Root(c echo.Context, _ *model.Empty) (model.Message, error) {
	return model.Message{Message: "Hello World"}, nil
}

func (h *RootHandler) Cookies(c echo.Context, req *model.Cookies) (model.Cookies, error) {
	return *req, nil
}

func (h *RootHandler) Headers(c echo.Context, req *model.CommonHeaders) (model.CommonHeaders, error) {
	return *req, nil
}

package handler

import (
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/labstack/echo/v4"
)

type UnicornHandler struct {
	Handler
	unicorns *service.UnicornService
}

func NewUnicornHandler(s *server.Server, unicorns *service.UnicornService) *UnicornHandler {
	return &UnicornHandler{
		Handler:  NewHandler(s),
		unicorns: unicorns,
	}
}

func (h *UnicornHandler) ReadUnicorn(c echo.Context, req *model.UnicornRequest) (model.UnicornResponse, error) {
	return h.unicorns.Read(req.Name)
}

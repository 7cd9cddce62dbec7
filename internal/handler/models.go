package handler

import (
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/labstack/echo/v4"
)

type ModelHandler struct {
	Handler
	models *service.ModelService
}

func NewModelHandler(s *server.Server, models *service.ModelService) *ModelHandler {
	return &ModelHandler{
		Handler: NewHandler(s),
		models:  models,
	}
}

func (h *ModelHandler) GetModel(c echo.Context, req *model.ModelRequest) (model.ModelResponse, error) {
	return h.models.Describe(req.ModelName), nil
}

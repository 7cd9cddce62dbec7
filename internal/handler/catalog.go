package handler

import (
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the read-only demonstration routes whose item_id
// is typed differently from /items/.
type CatalogHandler struct {
	Handler
	catalog *service.CatalogService
}

func NewCatalogHandler(s *server.Server, catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		Handler: NewHandler(s),
		catalog: catalog,
	}
}

func (h *CatalogHandler) Legacy(c echo.Context, req *model.LegacyItemsRequest) ([]model.CatalogItem, error) {
	return h.catalog.Legacy(req.Skip, req.Limit), nil
}

// Protected sits behind the X-Token and X-Key checks.
func (h *CatalogHandler) Protected(c echo.Context, _ *model.Empty) ([]model.ProtectedItem, error) {
	return h.catalog.Protected(), nil
}

func (h *CatalogHandler) Book(c echo.Context, req *model.BooksRequest) (model.Book, error) {
	return h.catalog.Book(req.ID), nil
}

func (h *CatalogHandler) Vehicle(c echo.Context, req *model.VehicleRequest) (model.Vehicle, error) {
	return h.catalog.Vehicle(req.ItemID)
}

func (h *CatalogHandler) Bounded(c echo.Context, req *model.BoundedItemRequest) (model.BoundedItemResponse, error) {
	return h.catalog.Bounded(req), nil
}

func (h *CatalogHandler) UpdateBounded(c echo.Context, req *model.UpdateBoundedItemRequest) (model.UpdateBoundedItemResponse, error) {
	return h.catalog.UpdateBounded(req), nil
}

func (h *CatalogHandler) Schedule(c echo.Context, req *model.ScheduleItemRequest) (model.ScheduleItemResponse, error) {
	return h.catalog.Schedule(req), nil
}

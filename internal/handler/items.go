package handler

import (
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/labstack/echo/v4"
)

type ItemHandler struct {
	Handler
	items *service.ItemService
}

func NewItemHandler(s *server.Server, items *service.ItemService) *ItemHandler {
	return &ItemHandler{
		Handler: NewHandler(s),
		items:   items,
	}
}

// ListItems echoes the bound filter.
func (h *ItemHandler) ListItems(c echo.Context, req *model.FilterParams) (model.FilterParams, error) {
	return *req, nil
}

func (h *ItemHandler) CreateItem(c echo.Context, req *model.CreateItemRequest) (model.ItemWithTax, error) {
	return h.items.Create(req.Item), nil
}

func (h *ItemHandler) GetItem(c echo.Context, req *model.GetItemRequest) (model.Item, error) {
	return h.items.Get(c.Request().Context(), req.ItemID)
}

func (h *ItemHandler) UpdateItem(c echo.Context, req *model.UpdateItemRequest) (model.Item, error) {
	return h.items.Update(c.Request().Context(), req.ItemID, req.Item)
}

// CreateOffer returns the offer unchanged.
func (h *ItemHandler) CreateOffer(c echo.Context, req *model.CreateOfferRequest) (model.Offer, error) {
	return req.Offer, nil
}

// Package handler is the first layer after the router.
//
// Each route is a typed function from a bound request struct to a response
// value. Binding, validation, logging and tracing happen once, in Handle;
// the functions here only call the matching service.
package handler

import (
	"github.com/deppfellow/request-tour/internal/openapi"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Root     *RootHandler
	Items    *ItemHandler
	Catalog  *CatalogHandler
	Users    *UserHandler
	Models   *ModelHandler
	Files    *FileHandler
	Unicorns *UnicornHandler
}

func NewHandlers(s *server.Server, services *service.Services, doc *openapi.Document) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s, services.Items),
		OpenAPI:  NewOpenAPIHandler(s, doc),
		Root:     NewRootHandler(s),
		Items:    NewItemHandler(s, services.Items),
		Catalog:  NewCatalogHandler(s, services.Catalog),
		Users:    NewUserHandler(s, services.Users, services.Auth),
		Models:   NewModelHandler(s, services.Models),
		Files:    NewFileHandler(s, services.Files),
		Unicorns: NewUnicornHandler(s, services.Unicorns),
	}
}

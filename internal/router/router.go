// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and the route table, and documents every
// typed route in the OpenAPI document as it registers it.
package router

import (
	"net/http"
	"reflect"

	"github.com/deppfellow/request-tour/internal/handler"
	"github.com/deppfellow/request-tour/internal/middleware"
	"github.com/deppfellow/request-tour/internal/openapi"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/deppfellow/request-tour/internal/validation"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with global middleware, the error
// handler, system routes and the API routes.
func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services, doc *openapi.Document) *echo.Echo {
	mws := middleware.NewMiddlewares(s, services)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mws.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mws.Tracing.NewRelicMiddleware(),
		mws.Tracing.EnhanceTracing(),
		mws.ContextEnhancer.EnhanceContext(),
		mws.Global.RequestLogger(),
		mws.Global.Recover(),
		mws.RateLimit.Limit(),
		mws.Global.CORS(),
		mws.Global.Secure(),
	)

	registerSystemRoutes(router, h)

	r := routes{echo: router, doc: doc}
	registerItemRoutes(r, h)
	registerCatalogRoutes(r, h, mws)
	registerUserRoutes(r, h, mws)
	registerMiscRoutes(r, h)

	return router
}

// routes registers a typed handler on echo and in the document at once.
type routes struct {
	echo *echo.Echo
	doc  *openapi.Document
}

// route adds fn under op.Method and op.Path ({name} placeholders). The
// request and response types of fn describe the operation.
func route[Req any, Res any](r routes, op openapi.Operation, fn handler.HandlerFunc[Req, Res], mws ...echo.MiddlewareFunc) {
	var req Req
	var res Res

	if schema, err := validation.SchemaOf(reflect.TypeOf(req)); err == nil && len(schema.Fields) > 0 {
		op.Request = req
	}
	op.Response = res

	r.echo.Add(op.Method, openapi.EchoPath(op.Path), handler.Handle(fn, op.Status), mws...)
	r.doc.Add(op)
}

func registerItemRoutes(r routes, h *handler.Handlers) {
	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/items/", Status: http.StatusOK,
		Summary: "Filter items", Tags: []string{"items"},
	}, h.Items.ListItems)

	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/items/", Status: http.StatusCreated,
		Summary: "Create an item", Tags: []string{"items"},
	}, h.Items.CreateItem)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/items/{item_id}", Status: http.StatusOK,
		Summary: "Read an item", Tags: []string{"items"},
		Errors: []int{http.StatusNotFound},
	}, h.Items.GetItem)

	route(r, openapi.Operation{
		Method: http.MethodPut, Path: "/items/{item_id}", Status: http.StatusOK,
		Summary: "Replace an item", Tags: []string{"items"},
	}, h.Items.UpdateItem)

	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/offers/", Status: http.StatusOK,
		Summary: "Create an offer", Tags: []string{"items"},
	}, h.Items.CreateOffer)
}

func registerCatalogRoutes(r routes, h *handler.Handlers, mws *middleware.Middlewares) {
	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/legacy-items/", Status: http.StatusOK,
		Summary: "Page through the fixed catalogue", Tags: []string{"catalog"},
	}, h.Catalog.Legacy)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/protected-items/", Status: http.StatusOK,
		Summary: "List items behind the X-Token and X-Key checks", Tags: []string{"catalog"},
		Errors: []int{http.StatusBadRequest},
	}, h.Catalog.Protected, mws.Auth.RequireHeaders)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/books/", Status: http.StatusOK,
		Summary: "Look up a book by isbn- or imdb- id", Tags: []string{"catalog"},
	}, h.Catalog.Book)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/vehicles/{item_id}", Status: http.StatusOK,
		Summary: "Read a car or a plane", Tags: []string{"catalog"},
		Errors: []int{http.StatusNotFound},
	}, h.Catalog.Vehicle)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/bounded-items/{item_id}", Status: http.StatusOK,
		Summary: "Read an item with a bounded integer id", Tags: []string{"catalog"},
	}, h.Catalog.Bounded)

	route(r, openapi.Operation{
		Method: http.MethodPut, Path: "/bounded-items/{item_id}", Status: http.StatusOK,
		Summary: "Update an item with an embedded user and importance", Tags: []string{"catalog"},
	}, h.Catalog.UpdateBounded)

	route(r, openapi.Operation{
		Method: http.MethodPut, Path: "/scheduled-items/{item_id}", Status: http.StatusOK,
		Summary: "Schedule processing of an item", Tags: []string{"catalog"},
	}, h.Catalog.Schedule)
}

func registerUserRoutes(r routes, h *handler.Handlers, mws *middleware.Middlewares) {
	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/users/", Status: http.StatusOK,
		Summary: "Create a user", Tags: []string{"users"},
	}, h.Users.CreateUser)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/users/", Status: http.StatusOK,
		Summary: "Echo the common query parameters", Tags: []string{"users"},
	}, h.Users.ListUsers)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/users/me", Status: http.StatusOK,
		Summary: "Read the user of the bearer token", Tags: []string{"users"},
		Errors: []int{http.StatusUnauthorized},
	}, h.Users.Me, mws.Auth.RequireBearer)

	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/login/", Status: http.StatusOK,
		Summary: "Log in with form credentials", Tags: []string{"users"},
	}, h.Users.Login)
}

func registerMiscRoutes(r routes, h *handler.Handlers) {
	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/", Status: http.StatusOK,
		Summary: "Greeting",
	}, h.Root.Root)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/cookies/", Status: http.StatusOK,
		Summary: "Echo the tracking cookies", Tags: []string{"params"},
	}, h.Root.Cookies)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/headers/", Status: http.StatusOK,
		Summary: "Echo User-Agent and every X-Token", Tags: []string{"params"},
	}, h.Root.Headers)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/models/{model_name}", Status: http.StatusOK,
		Summary: "Describe a model", Tags: []string{"models"},
	}, h.Models.GetModel)

	route(r, openapi.Operation{
		Method: http.MethodGet, Path: "/unicorns/{name}", Status: http.StatusOK,
		Summary: "Read a unicorn", Tags: []string{"unicorns"},
		Errors: []int{http.StatusTeapot},
	}, h.Unicorns.ReadUnicorn)

	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/file/", Status: http.StatusOK,
		Summary: "Size of an upload", Tags: []string{"files"},
	}, h.Files.FileSize)

	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/files/", Status: http.StatusOK,
		Summary: "Sizes of several uploads", Tags: []string{"files"},
	}, h.Files.FileSizes)

	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/uploadfile/", Status: http.StatusOK,
		Summary: "Name of an upload", Tags: []string{"files"},
	}, h.Files.UploadFile)

	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/uploadfiles/", Status: http.StatusOK,
		Summary: "Names of several uploads", Tags: []string{"files"},
	}, h.Files.UploadFiles)

	route(r, openapi.Operation{
		Method: http.MethodPost, Path: "/complex-form/", Status: http.StatusOK,
		Summary: "Mixed form fields and files", Tags: []string{"files"},
	}, h.Files.ComplexForm)
}

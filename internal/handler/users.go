package handler

import (
	"github.com/deppfellow/request-tour/internal/middleware"
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
	auth  *service.AuthService
}

func NewUserHandler(s *server.Server, users *service.UserService, auth *service.AuthService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
		auth:    auth,
	}
}

// CreateUser never returns the password or its hash.
func (h *UserHandler) CreateUser(c echo.Context, req *model.CreateUserRequest) (model.UserOut, error) {
	return h.users.Create(c.Request().Context(), req.UserIn), nil
}

// Me runs behind RequireBearer.
func (h *UserHandler) Me(c echo.Context, _ *model.Empty) (model.UserOut, error) {
	return h.auth.CurrentUser(middleware.GetToken(c)), nil
}

// ListUsers echoes the shared q/skip/limit parameters.
func (h *UserHandler) ListUsers(c echo.Context, req *model.CommonQueryParams) (model.CommonQueryParams, error) {
	return *req, nil
}

// Login accepts any well-formed form submission.
func (h *UserHandler) Login(c echo.Context, req *model.LoginRequest) (model.LoginResponse, error) {
	return model.LoginResponse{Username: req.Username}, nil
}

package middleware

import (
	"strings"
	"time"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	// TokenKey holds the raw bearer token once RequireBearer accepted it.
	TokenKey = "bearer_token"

	HeaderToken = "X-Token"
	HeaderKey   = "X-Key"
)

// ErrNotAuthenticated is returned when the bearer credential is absent.
var ErrNotAuthenticated = errs.NewUnauthorizedError("Not authenticated", false).
	WithHeader(echo.HeaderWWWAuthenticate, "Bearer")

// AuthMiddleware carries the demonstration credential checks. Nothing here
// verifies a signature; tokens are taken at face value.
type AuthMiddleware struct {
	server *server.Server
	auth   *service.AuthService
}

func NewAuthMiddleware(s *server.Server, auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		auth:   auth,
	}
}

// RequireBearer accepts any "Authorization: Bearer <token>" header and
// stores the token and the derived username on the context.
func (a *AuthMiddleware) RequireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			GetLogger(c).Debug().
				Str("function", "RequireBearer").
				Dur("duration", time.Since(start)).
				Msg("missing bearer token")
			return ErrNotAuthenticated
		}

		user := a.auth.CurrentUser(token)
		c.Set(TokenKey, token)
		c.Set(UserIDKey, user.Username)

		GetLogger(c).Debug().
			Str("function", "RequireBearer").
			Str("user_id", user.Username).
			Dur("duration", time.Since(start)).
			Msg("user authenticated")

		return next(c)
	}
}

// RequireHeaders enforces the X-Token and X-Key dependencies. Missing
// headers are reported together as a 422; present but wrong values fail
// with a 400, token first.
func (a *AuthMiddleware) RequireHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header

		var missing []errs.FieldError
		for _, name := range []string{HeaderToken, HeaderKey} {
			if len(header.Values(name)) == 0 {
				missing = append(missing, errs.FieldError{
					Type: "missing",
					Loc:  []any{"header", strings.ToLower(name)},
					Msg:  "Field required",
				})
			}
		}
		if len(missing) > 0 {
			return errs.NewValidationError(missing)
		}

		if err := a.auth.VerifyToken(header.Get(HeaderToken)); err != nil {
			return err
		}
		if err := a.auth.VerifyKey(header.Get(HeaderKey)); err != nil {
			return err
		}

		return next(c)
	}
}

// GetToken returns the bearer token stored by RequireBearer.
func GetToken(c echo.Context) string {
	if token, ok := c.Get(TokenKey).(string); ok {
		return token
	}
	return ""
}

// bearerToken extracts the credentials of a Bearer authorization header.
// The scheme is case-insensitive.
func bearerToken(authorization string) (string, bool) {
	scheme, credentials, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return "", false
	}
	return credentials, true
}


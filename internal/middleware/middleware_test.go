package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/request-tour/internal/config"
	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/server"
	"github.com/deppfellow/request-tour/internal/service"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *server.Server {
	t.Helper()
	logger := zerolog.Nop()
	return &server.Server{Config: config.Default(), Logger: &logger}
}

func testGlobal(t *testing.T) *GlobalMiddlewares {
	t.Helper()
	registry := errs.NewRegistry()
	service.RegisterErrors(registry)
	return NewGlobalMiddlewares(testServer(t), registry)
}

func TestResolve(t *testing.T) {
	global := testGlobal(t)

	tests := []struct {
		name   string
		err    error
		status int
		body   any
	}{
		{"route miss", echo.ErrNotFound, http.StatusNotFound, map[string]any{"detail": "Not Found"}},
		{"wrong method", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, map[string]any{"detail": "Method Not Allowed"}},
		{"domain error", &service.UnicornError{Name: "yolo"}, http.StatusTeapot,
			map[string]string{"message": "Oops! yolo did something. There goes a rainbow..."}},
		{"http error", errs.NewBadRequestError("X-Key header invalid", false, nil), http.StatusBadRequest,
			map[string]any{"detail": "X-Key header invalid"}},
		{"unknown", errors.New("boom"), http.StatusInternalServerError,
			map[string]any{"detail": "Internal Server Error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := global.Resolve(tt.err)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.body, resp.Body)
		})
	}
}

func TestResolve_DriverErrorGoesThroughSQLErr(t *testing.T) {
	global := testGlobal(t)

	err := &pgconn.PgError{Code: "23505", TableName: "items", ConstraintName: "items_name_key"}
	resp := global.Resolve(err)

	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestGlobalErrorHandler_WritesHeaders(t *testing.T) {
	global := testGlobal(t)
	e := echo.New()
	e.HTTPErrorHandler = global.GlobalErrorHandler
	e.GET("/items/:id", func(c echo.Context) error {
		return service.ErrItemNotFound
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/x", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "There goes my error", rec.Header().Get("X-Error"))
	assert.JSONEq(t, `{"detail":"Item not found"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("reuses caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Body.String())
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("replaces unusable id", func(t *testing.T) {
		for _, id := range []string{"", "has space", strings.Repeat("x", maxRequestIDLength+1)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, id)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.NotEqual(t, id, rec.Body.String())
			assert.Len(t, rec.Body.String(), 36)
		}
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestRequireBearer(t *testing.T) {
	s := testServer(t)
	auth := NewAuthMiddleware(s, service.NewAuthService(s.Config.Auth))

	e := echo.New()
	e.HTTPErrorHandler = testGlobal(t).GlobalErrorHandler
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, GetToken(c)+"|"+GetUserID(c))
	}, auth.RequireBearer)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok|tokfakedecoded", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	s := testServer(t)
	s.Config.Server.RateLimit = 1

	limiter := NewRateLimitMiddleware(s)

	e := echo.New()
	e.HTTPErrorHandler = testGlobal(t).GlobalErrorHandler
	e.Use(limiter.Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_DisabledByDefault(t *testing.T) {
	s := testServer(t)
	limiter := NewRateLimitMiddleware(s)

	e := echo.New()
	e.Use(limiter.Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequireHeaders(t *testing.T) {
	s := testServer(t)
	auth := NewAuthMiddleware(s, service.NewAuthService(s.Config.Auth))

	e := echo.New()
	e.HTTPErrorHandler = testGlobal(t).GlobalErrorHandler
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, auth.RequireHeaders)

	tests := []struct {
		name    string
		headers map[string]string
		status  int
		detail  string
	}{
		{"both missing", nil, http.StatusUnprocessableEntity, ""},
		{"bad token wins", map[string]string{HeaderToken: "nope", HeaderKey: "nope"}, http.StatusBadRequest, "X-Token header invalid"},
		{"bad key", map[string]string{HeaderToken: "fake-super-secret-token", HeaderKey: "nope"}, http.StatusBadRequest, "X-Key header invalid"},
		{"ok", map[string]string{HeaderToken: "fake-super-secret-token", HeaderKey: "fake-super-secret-key"}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.detail != "" {
				assert.JSONEq(t, `{"detail":"`+tt.detail+`"}`, rec.Body.String())
			}
			if tt.status == http.StatusUnprocessableEntity {
				assert.Contains(t, rec.Body.String(), `"loc":["header","x-token"]`)
				assert.Contains(t, rec.Body.String(), `"loc":["header","x-key"]`)
			}
		})
	}
}

func TestEnhanceContext_LogsRouteAndPath(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s := testServer(t)
	s.Logger = &logger

	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	e.GET("/items/:item_id", func(c echo.Context) error {
		GetLogger(c).Info().Msg("from echo context")
		zerolog.Ctx(c.Request().Context()).Info().Msg("from request context")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/foo", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "/items/:item_id", entry["route"])
		assert.Equal(t, "/items/foo", entry["path"])
		assert.Equal(t, "req-1", entry["request_id"])
	}
}

func TestGetLogger_OutsideEnhanceContext(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	l := GetLogger(c)
	require.NotNil(t, l)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestOutcomeAttributes(t *testing.T) {
	rejected := errs.NewValidationError([]errs.FieldError{
		{Type: "missing", Loc: []any{"body", "name"}, Msg: "Field required"},
		{Type: "greater_than", Loc: []any{"body", "price"}, Msg: "Input should be greater than 0"},
	})

	assert.Equal(t, map[string]any{
		"validation.status":      ValidationRejected,
		"validation.error_count": 2,
		"validation.first_loc":   "body.name",
	}, outcomeAttributes(rejected))

	assert.Equal(t, map[string]any{"validation.status": ValidationPassed}, outcomeAttributes(nil))

	assert.Equal(t, map[string]any{
		"validation.status": ValidationPassed,
		"error.code":        "NOT_FOUND",
	}, outcomeAttributes(service.ErrItemNotFound))
}

func TestTracing_PassThroughWithoutNewRelic(t *testing.T) {
	tm := NewTracingMiddleware(testServer(t), nil)

	e := echo.New()
	e.Use(tm.NewRelicMiddleware(), tm.EnhanceTracing())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

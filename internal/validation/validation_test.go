package validation

import (
	"bytes"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	Name        string   `json:"name"`
	Description *string  `json:"description" validate:"omitnil,max=10"`
	Price       float64  `json:"price" validate:"gt=0"`
	Tax         *float64 `json:"tax"`
}

type createRequest struct {
	testItem
}

type listRequest struct {
	Limit   int      `query:"limit" default:"100" validate:"gt=0,lte=100"`
	Offset  int      `query:"offset" default:"0" validate:"gte=0"`
	OrderBy string   `query:"order_by" default:"created_at" validate:"oneof=created_at updated_at"`
	Tags    []string `query:"tags"`
}

func (listRequest) ForbidExtra() bool { return true }

type mixedRequest struct {
	ID     uuid.UUID  `path:"id"`
	Q      *string    `query:"q"`
	Tokens []string   `header:"X-Token"`
	Agent  *string    `header:"User-Agent"`
	Sess   *string    `cookie:"session_id"`
	Items  []testItem `json:"items" validate:"dive"`
}

type bookRequest struct {
	ID *string `query:"id" validate:"omitnil,idprefix=isbn- imdb-"`
}

type loginRequest struct {
	Username string                `formData:"username"`
	Password string                `formData:"password"`
	File     *multipart.FileHeader `formData:"file"`
}

type rangeRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r *rangeRequest) Validate() error {
	if r.End < r.Start {
		return CustomValidationErrors{{Source: SourceBody, Field: "end", Message: "end must not precede start"}}
	}
	return nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func newContext(req *http.Request) echo.Context {
	e := echo.New()
	return e.NewContext(req, httptest.NewRecorder())
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func requireValidation(t *testing.T, err error) *errs.ValidationError {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*errs.ValidationError)
	require.True(t, ok, "expected *errs.ValidationError, got %T: %v", err, err)
	return verr
}

func TestBind_BodyWithEmbeddedModel(t *testing.T) {
	c := newContext(jsonRequest(http.MethodPost, "/items/", `{"name":"Foo","price":"35.4","tax":3.2}`))

	var req createRequest
	require.NoError(t, Bind(c, &req))

	assert.Equal(t, "Foo", req.Name)
	assert.InDelta(t, 35.4, req.Price, 1e-9)
	require.NotNil(t, req.Tax)
	assert.InDelta(t, 3.2, *req.Tax, 1e-9)
	assert.Nil(t, req.Description)
}

func TestBind_CollectsEveryBodyError(t *testing.T) {
	c := newContext(jsonRequest(http.MethodPost, "/items/", `{"price":"abc","description":"far too long text"}`))

	verr := requireValidation(t, Bind(c, &createRequest{}))

	assert.True(t, verr.Has("body", "name"))
	assert.True(t, verr.Has("body", "price"))
	assert.True(t, verr.Has("body", "description"))
	require.Len(t, verr.Errors, 3)

	for _, fe := range verr.Errors {
		switch fe.Path() {
		case "body.name":
			assert.Equal(t, "missing", fe.Type)
			assert.Equal(t, "Field required", fe.Msg)
		case "body.price":
			assert.Equal(t, "float_parsing", fe.Type)
			assert.Equal(t, "abc", fe.Input)
		case "body.description":
			assert.Equal(t, "string_too_long", fe.Type)
			assert.Equal(t, "String should have at most 10 characters", fe.Msg)
		}
	}
}

func TestBind_PriceConstraint(t *testing.T) {
	c := newContext(jsonRequest(http.MethodPost, "/items/", `{"name":"Foo","price":0}`))

	verr := requireValidation(t, Bind(c, &createRequest{}))

	want := []errs.FieldError{{
		Type:  "greater_than",
		Loc:   []any{"body", "price"},
		Msg:   "Input should be greater than 0",
		Input: float64(0),
		Ctx:   map[string]any{"gt": int64(0)},
	}}
	if diff := cmp.Diff(want, verr.Errors); diff != "" {
		t.Errorf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_MissingBody(t *testing.T) {
	c := newContext(httptest.NewRequest(http.MethodPost, "/items/", nil))

	verr := requireValidation(t, Bind(c, &createRequest{}))

	require.Len(t, verr.Errors, 1)
	assert.Equal(t, []any{"body"}, verr.Errors[0].Loc)
	assert.Equal(t, "missing", verr.Errors[0].Type)
}

func TestBind_MalformedJSON(t *testing.T) {
	c := newContext(jsonRequest(http.MethodPost, "/items/", `{"name":`))

	verr := requireValidation(t, Bind(c, &createRequest{}))

	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "json_invalid", verr.Errors[0].Type)
}

func TestBind_TrailingDataAfterJSON(t *testing.T) {
	for _, body := range []string{`{"name":"a","price":1} trailing`, `{"name":"a","price":1}{}`} {
		c := newContext(jsonRequest(http.MethodPost, "/items/", body))

		verr := requireValidation(t, Bind(c, &createRequest{}))

		require.Len(t, verr.Errors, 1, body)
		assert.Equal(t, "json_invalid", verr.Errors[0].Type, body)
		assert.Equal(t, []any{"body"}, verr.Errors[0].Loc, body)
	}

	c := newContext(jsonRequest(http.MethodPost, "/items/", "{\"name\":\"a\",\"price\":1}\n  "))
	require.NoError(t, Bind(c, &createRequest{}))
}

func TestBind_IntOutOfRange(t *testing.T) {
	type countRequest struct {
		Count int `json:"count" validate:"gt=0"`
	}

	for _, raw := range []string{"1e30", "9223372036854775808", "-9223372036854775809", "1e400", `"99999999999999999999"`} {
		c := newContext(jsonRequest(http.MethodPost, "/", `{"count":`+raw+`}`))

		verr := requireValidation(t, Bind(c, &countRequest{}))

		require.Len(t, verr.Errors, 1, raw)
		assert.Equal(t, "int_parsing_size", verr.Errors[0].Type, raw)
		assert.Equal(t, []any{"body", "count"}, verr.Errors[0].Loc, raw)
	}

	c := newContext(jsonRequest(http.MethodPost, "/", `{"count":9223372036854775807}`))
	var req countRequest
	require.NoError(t, Bind(c, &req))
	assert.Equal(t, int64(math.MaxInt64), int64(req.Count))
}

func TestEmailReason(t *testing.T) {
	tests := map[string]string{
		"nope":    "An email address must have an @-sign.",
		"a@b":     "The part after the @-sign is not valid. It should have a period.",
		"@b.com":  "There must be something before the @-sign.",
		"a@":      "There must be something after the @-sign.",
		"a@b@c.d": "The email address is not valid. It must have exactly one @-sign.",
		"a b@c.d": "The email address is not valid.",
	}
	for input, want := range tests {
		assert.Equal(t, want, emailReason(input), input)
	}
}

func TestBind_QueryDefaults(t *testing.T) {
	c := newContext(httptest.NewRequest(http.MethodGet, "/items/", nil))

	var req listRequest
	require.NoError(t, Bind(c, &req))

	assert.Equal(t, 100, req.Limit)
	assert.Equal(t, 0, req.Offset)
	assert.Equal(t, "created_at", req.OrderBy)
	assert.NotNil(t, req.Tags)
	assert.Empty(t, req.Tags)
}

func TestBind_QueryConstraintsAndExtras(t *testing.T) {
	c := newContext(httptest.NewRequest(http.MethodGet, "/items/?limit=101&offset=-1&order_by=name&tool=plumbus&tags=a&tags=b", nil))

	verr := requireValidation(t, Bind(c, &listRequest{}))

	assert.True(t, verr.Has("query", "limit"))
	assert.True(t, verr.Has("query", "offset"))
	assert.True(t, verr.Has("query", "order_by"))
	assert.True(t, verr.Has("query", "tool"))
	assert.Len(t, verr.Errors, 4)

	for _, fe := range verr.Errors {
		switch fe.Path() {
		case "query.limit":
			assert.Equal(t, "less_than_equal", fe.Type)
		case "query.offset":
			assert.Equal(t, "greater_than_equal", fe.Type)
		case "query.order_by":
			assert.Equal(t, "Input should be 'created_at' or 'updated_at'", fe.Msg)
		case "query.tool":
			assert.Equal(t, "extra_forbidden", fe.Type)
			assert.Equal(t, "plumbus", fe.Input)
		}
	}
}

func TestBind_QueryParseError(t *testing.T) {
	c := newContext(httptest.NewRequest(http.MethodGet, "/items/?limit=ten", nil))

	verr := requireValidation(t, Bind(c, &listRequest{}))

	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "int_parsing", verr.Errors[0].Type)
	assert.Equal(t, "ten", verr.Errors[0].Input)
}

func TestBind_MixedSources(t *testing.T) {
	id := uuid.New()
	req := jsonRequest(http.MethodPut, "/things/"+id.String()+"?q=hello", `{"items":[{"name":"a","price":1}]}`)
	req.Header.Add("X-Token", "foo")
	req.Header.Add("X-Token", "bar")
	req.Header.Set("User-Agent", "tests")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "abc"})

	c := newContext(req)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	var dst mixedRequest
	require.NoError(t, Bind(c, &dst))

	assert.Equal(t, id, dst.ID)
	require.NotNil(t, dst.Q)
	assert.Equal(t, "hello", *dst.Q)
	assert.Equal(t, []string{"foo", "bar"}, dst.Tokens)
	require.NotNil(t, dst.Agent)
	assert.Equal(t, "tests", *dst.Agent)
	require.NotNil(t, dst.Sess)
	assert.Equal(t, "abc", *dst.Sess)
	require.Len(t, dst.Items, 1)
}

func TestBind_NestedListLocation(t *testing.T) {
	id := uuid.New()
	c := newContext(jsonRequest(http.MethodPut, "/things/x", `{"items":[{"name":"a","price":1},{"name":"b","price":-2}]}`))
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	verr := requireValidation(t, Bind(c, &mixedRequest{}))

	require.Len(t, verr.Errors, 1)
	assert.Equal(t, []any{"body", "items", 1, "price"}, verr.Errors[0].Loc)
}

func TestBind_BadPathUUID(t *testing.T) {
	c := newContext(jsonRequest(http.MethodPut, "/things/nope", `{"items":[]}`))
	c.SetParamNames("id")
	c.SetParamValues("nope")

	verr := requireValidation(t, Bind(c, &mixedRequest{}))

	require.Len(t, verr.Errors, 1)
	assert.Equal(t, []any{"path", "id"}, verr.Errors[0].Loc)
	assert.Equal(t, "uuid_parsing", verr.Errors[0].Type)
}

func TestBind_CustomValidator(t *testing.T) {
	c := newContext(httptest.NewRequest(http.MethodGet, "/books/?id=xyz-1", nil))

	verr := requireValidation(t, Bind(c, &bookRequest{}))

	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "value_error", verr.Errors[0].Type)
	assert.Equal(t, `Value error, Invalid ID format, it must start with "isbn-" or "imdb-"`, verr.Errors[0].Msg)

	c = newContext(httptest.NewRequest(http.MethodGet, "/books/?id=imdb-tt0371724", nil))
	var ok bookRequest
	require.NoError(t, Bind(c, &ok))
	assert.Equal(t, "imdb-tt0371724", *ok.ID)
}

func TestBind_CrossFieldHook(t *testing.T) {
	c := newContext(jsonRequest(http.MethodPost, "/ranges", `{"start":5,"end":1}`))

	verr := requireValidation(t, Bind(c, &rangeRequest{}))

	require.Len(t, verr.Errors, 1)
	assert.Equal(t, []any{"body", "end"}, verr.Errors[0].Loc)
	assert.Equal(t, "Value error, end must not precede start", verr.Errors[0].Msg)
}

func TestBind_MultipartForm(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("username", "johndoe"))
	require.NoError(t, w.WriteField("password", "secret"))
	part, err := w.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/login/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())

	var dst loginRequest
	require.NoError(t, Bind(newContext(req), &dst))

	assert.Equal(t, "johndoe", dst.Username)
	assert.Equal(t, "secret", dst.Password)
	require.NotNil(t, dst.File)
	assert.Equal(t, "notes.txt", dst.File.Filename)
	assert.Equal(t, int64(5), dst.File.Size)
}

func TestBind_UrlencodedFormMissingFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader("username=johndoe"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	verr := requireValidation(t, Bind(newContext(req), &loginRequest{}))

	assert.True(t, verr.Has("body", "password"))
	assert.True(t, verr.Has("body", "file"))
	assert.Len(t, verr.Errors, 2)
}

func TestBind_RejectsNonPointer(t *testing.T) {
	err := Bind(newContext(httptest.NewRequest(http.MethodGet, "/", nil)), listRequest{})
	require.Error(t, err)
	_, isValidation := err.(*errs.ValidationError)
	assert.False(t, isValidation)
}

func TestSchemaOf_SourcesAndRequiredness(t *testing.T) {
	schema, err := SchemaOf(typeOf[mixedRequest]())
	require.NoError(t, err)

	byName := map[string]Field{}
	for _, f := range schema.Fields {
		byName[f.Name] = f
	}

	assert.Equal(t, SourcePath, byName["id"].Source)
	assert.True(t, byName["id"].Required)
	assert.False(t, byName["q"].Required)
	assert.False(t, byName["X-Token"].Required)
	assert.Equal(t, SourceBody, byName["items"].Source)
	assert.True(t, byName["items"].Required)
	assert.False(t, schema.ForbidExtra)

	flat, err := SchemaOf(typeOf[createRequest]())
	require.NoError(t, err)
	assert.Len(t, flat.Fields, 4)
}

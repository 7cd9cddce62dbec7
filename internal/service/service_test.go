package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/request-tour/internal/config"
	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/model"
	"github.com/deppfellow/request-tour/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fakeWelcome struct {
	calls [][3]string
	err   error
}

func (f *fakeWelcome) EnqueueWelcome(_ context.Context, to, username, fullName string) error {
	f.calls = append(f.calls, [3]string{to, username, fullName})
	return f.err
}

func TestItemService_GetMissingIsNotFoundWithHeader(t *testing.T) {
	svc := NewItemService(repository.NewMemoryItemStore())

	_, err := svc.Get(context.Background(), "nope")

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Item not found", httpErr.Detail)
	assert.Equal(t, "There goes my error", httpErr.Headers["X-Error"])
}

func TestItemService_UpdateThenGet(t *testing.T) {
	svc := NewItemService(repository.NewMemoryItemStore())
	ctx := context.Background()
	item := model.Item{Name: "Foo", Price: 3.5, Tax: ptr(0.5)}

	updated, err := svc.Update(ctx, "foo", item)
	require.NoError(t, err)
	assert.Equal(t, item, updated)

	got, err := svc.Get(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestItemService_Create(t *testing.T) {
	svc := NewItemService(repository.NewMemoryItemStore())

	out := svc.Create(model.Item{Name: "Foo", Price: 10, Tax: ptr(2.5)})
	require.NotNil(t, out.PriceWithTax)
	assert.Equal(t, 12.5, *out.PriceWithTax)

	assert.Nil(t, svc.Create(model.Item{Name: "Foo", Price: 10}).PriceWithTax)
}

func TestUserService_CreateHidesPasswordAndQueuesWelcome(t *testing.T) {
	logger := zerolog.Nop()
	welcome := &fakeWelcome{}
	svc := NewUserService(welcome, &logger)

	in := model.UserIn{UserBase: model.UserBase{Username: "john", Email: "john@example.com", FullName: ptr("John Doe")}, Password: "secret"}

	out := svc.Create(context.Background(), in)

	assert.Equal(t, in.UserBase, out.UserBase)
	assert.Equal(t, [][3]string{{"john@example.com", "john", "John Doe"}}, welcome.calls)
	assert.Equal(t, "supersecretsecret", svc.Save(in).HashedPassword)
}

func TestUserService_WelcomeFailureIsNotFatal(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewUserService(&fakeWelcome{err: errors.New("redis down")}, &logger)

	out := svc.Create(context.Background(), model.UserIn{UserBase: model.UserBase{Username: "john"}})
	assert.Equal(t, "john", out.Username)
}

func TestUserService_NilEnqueuer(t *testing.T) {
	logger := zerolog.Nop()
	out := NewUserService(nil, &logger).Create(context.Background(), model.UserIn{UserBase: model.UserBase{Username: "x"}})
	assert.Equal(t, "x", out.Username)
}

func TestAuthService(t *testing.T) {
	svc := NewAuthService(config.Default().Auth)

	user := svc.CurrentUser("abc")
	assert.Equal(t, "abcfakedecoded", user.Username)
	assert.Equal(t, "john@example.com", user.Email)
	assert.Equal(t, "John Doe", *user.FullName)

	assert.NoError(t, svc.VerifyToken("fake-super-secret-token"))
	assert.NoError(t, svc.VerifyKey("fake-super-secret-key"))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(svc.VerifyToken("nope"), &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "X-Token header invalid", httpErr.Detail)

	require.True(t, errors.As(svc.VerifyKey(""), &httpErr))
	assert.Equal(t, "X-Key header invalid", httpErr.Detail)
}

func TestModelService_Describe(t *testing.T) {
	svc := NewModelService()

	assert.Equal(t, model.ModelResponse{ModelName: "alexnet", Message: "This is the AlexNet model."}, svc.Describe(model.ModelAlexNet))
	assert.Contains(t, svc.Describe(model.ModelLeNet).Message, "LeCNN")
	assert.Contains(t, svc.Describe(model.ModelResNet).Message, "ResNet")
}

func TestUnicornService_Read(t *testing.T) {
	svc := NewUnicornService()

	out, err := svc.Read("anything-else")
	require.NoError(t, err)
	assert.Equal(t, "anything-else", out.UnicornName)

	_, err = svc.Read("yolo")
	var unicornErr *UnicornError
	require.True(t, errors.As(err, &unicornErr))

	r := errs.NewRegistry()
	RegisterErrors(r)
	resp, ok := r.Translate(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTeapot, resp.Status)
	assert.Equal(t, map[string]string{"message": "Oops! yolo did something. There goes a rainbow..."}, resp.Body)
}

func TestCatalogService(t *testing.T) {
	svc := NewCatalogService()

	assert.Equal(t, []model.CatalogItem{{ItemName: "Bar"}, {ItemName: "Baz"}}, svc.Legacy(1, 10))
	assert.Equal(t, []model.CatalogItem{{ItemName: "Foo"}}, svc.Legacy(0, 1))
	assert.Empty(t, svc.Legacy(10, 10))

	assert.Equal(t, []model.CatalogItem{{ItemName: "Baz"}}, svc.Legacy(-1, 10))
	assert.Equal(t, []model.CatalogItem{{ItemName: "Foo"}, {ItemName: "Bar"}}, svc.Legacy(0, -1))
	assert.Equal(t, []model.CatalogItem{{ItemName: "Foo"}, {ItemName: "Bar"}, {ItemName: "Baz"}}, svc.Legacy(-10, 100))
	assert.Empty(t, svc.Legacy(2, -2))

	assert.Equal(t, "The Hitchhiker's Guide to the Galaxy", svc.Book(ptr("imdb-tt0371724")).Name)
	assert.Equal(t, "isbn-9781529046137", svc.Book(nil).ID)

	plane, err := svc.Vehicle("item2")
	require.NoError(t, err)
	assert.Equal(t, model.VehiclePlane, plane.Type)
	assert.Equal(t, 5, *plane.Size)

	_, err = svc.Vehicle("item9")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCatalogService_Schedule(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	req := &model.ScheduleItemRequest{
		ItemID:        uuid.New(),
		StartDatetime: start,
		EndDatetime:   start.Add(time.Hour),
		ProcessAfter:  600,
	}

	out := NewCatalogService().Schedule(req)

	assert.Equal(t, start.Add(10*time.Minute), out.StartProcess)
	assert.Equal(t, 3000.0, out.Duration)
}

func multipartFiles(t *testing.T, files map[string]string, order []string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range order {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["files"]
}

func TestFileService_SizesAndNamesKeepOrder(t *testing.T) {
	files := multipartFiles(t, map[string]string{"b.txt": "hello", "a.txt": "hi"}, []string{"b.txt", "a.txt"})
	svc := NewFileService()

	sizes, err := svc.Sizes(files)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 2}, sizes)
	assert.Equal(t, []string{"b.txt", "a.txt"}, svc.Filenames(files))
}

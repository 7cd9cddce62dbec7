package openapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetRequest struct {
	WidgetID string  `path:"widget_id"`
	Verbose  bool    `query:"verbose"`
	Name     string  `json:"name"`
	Weight   float64 `json:"weight" exclusiveMinimum:"0"`
}

type widgetResponse struct {
	Name string `json:"name"`
}

func TestEchoPath(t *testing.T) {
	assert.Equal(t, "/items/:item_id", EchoPath("/items/{item_id}"))
	assert.Equal(t, "/a/:x/b/:y", EchoPath("/a/{x}/b/{y}"))
	assert.Equal(t, "/items/", EchoPath("/items/"))
}

func TestDocumentDescribesParametersAndBody(t *testing.T) {
	logger := zerolog.Nop()
	doc := New(&logger, "Widgets", "1.0.0")

	doc.Add(Operation{
		Method:   http.MethodPut,
		Path:     "/widgets/{widget_id}",
		Status:   http.StatusOK,
		Summary:  "Update widget",
		Tags:     []string{"widgets"},
		Request:  widgetRequest{},
		Response: widgetResponse{},
		Errors:   []int{http.StatusNotFound},
	})

	data, err := doc.JSON()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "3.1.0", parsed["openapi"])

	paths := parsed["paths"].(map[string]any)
	op := paths["/widgets/{widget_id}"].(map[string]any)["put"].(map[string]any)

	assert.Equal(t, "Update widget", op["summary"])
	assert.NotNil(t, op["requestBody"])

	names := []string{}
	for _, p := range op["parameters"].([]any) {
		names = append(names, p.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"widget_id", "verbose"}, names)

	responses := op["responses"].(map[string]any)
	assert.Contains(t, responses, "200")
	assert.Contains(t, responses, "404")
	assert.Contains(t, responses, "422")
}

func TestDocumentCachesUntilNextAdd(t *testing.T) {
	logger := zerolog.Nop()
	doc := New(&logger, "Widgets", "1.0.0")

	first, err := doc.JSON()
	require.NoError(t, err)

	doc.Add(Operation{Method: http.MethodGet, Path: "/ping", Status: http.StatusOK, Response: widgetResponse{}})

	second, err := doc.JSON()
	require.NoError(t, err)
	assert.NotEqual(t, string(first), string(second))
	assert.Contains(t, string(second), "/ping")
}

func TestDocumentMarksRequiredBodyFields(t *testing.T) {
	type body struct {
		Name  string  `json:"name"`
		Note  *string `json:"note"`
		Limit int     `json:"limit" default:"10"`
	}

	logger := zerolog.Nop()
	doc := New(&logger, "Widgets", "1.0.0")
	doc.Add(Operation{Method: http.MethodPost, Path: "/bodies", Status: http.StatusOK, Request: body{}, Response: widgetResponse{}})

	data, err := doc.JSON()
	require.NoError(t, err)

	var parsed struct {
		Components struct {
			Schemas map[string]struct {
				Required []string `json:"required"`
			} `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))

	var found bool
	for name, schema := range parsed.Components.Schemas {
		if strings.HasSuffix(strings.ToLower(name), "body") {
			assert.Equal(t, []string{"name"}, schema.Required)
			found = true
		}
	}
	assert.True(t, found, "request body schema not found in %s", data)
}

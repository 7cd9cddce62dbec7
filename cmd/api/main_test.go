package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBootLogger(t *testing.T) {
	var buf bytes.Buffer
	boot := newBootLogger(&buf)

	boot.Error().Err(errors.New("TOUR_SERVER__PORT: required")).Msg("failed to load config")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boot", entry["component"])
	assert.Equal(t, "failed to load config", entry["message"])
	assert.Equal(t, "TOUR_SERVER__PORT: required", entry["error"])
	assert.Contains(t, entry, "time")
}

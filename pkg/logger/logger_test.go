package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalError_WritesErrAttribute(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "json").With("component", "test")

	log.InternalError("store failed", errors.New("boom"), "gym_id", "g1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "boom", entry["err"])
	assert.Equal(t, "g1", entry["gym_id"])
	assert.Equal(t, "test", entry["component"])
}

func TestBusinessError_NilIsSilent(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelDebug, "text").BusinessError("ignored", nil)
	assert.Zero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING", "production"))
	assert.Equal(t, slog.LevelDebug, parseLevel("", "development"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus", "production"))
}

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInit_Disabled tests that the default logger swallows output.
func TestInit_Disabled(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Enabled: false, Writer: &buf})
	Error("dropped", "k", 1)
	assert.Zero(t, buf.Len(), "disabled logger should not write")
}

// TestInit_TextLevel tests level filtering on the text handler.
func TestInit_TextLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Enabled: true, Writer: &buf, Level: slog.LevelDebug})
	t.Cleanup(func() { Set(nil) })

	Debug("arena grow", "blocks", 2)
	assert.Contains(t, buf.String(), "arena grow")
	assert.Contains(t, buf.String(), "blocks=2")

	buf.Reset()
	Init(Options{Enabled: true, Writer: &buf})
	Debug("hidden")
	assert.Zero(t, buf.Len(), "info level should drop debug records")
}

// TestInit_JSON tests that the JSON handler emits one object per record.
func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Enabled: true, Writer: &buf, JSON: true})
	t.Cleanup(func() { Set(nil) })

	Warn("rehash", "capacity", 128)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "rehash", rec["msg"])
	assert.InDelta(t, 128, rec["capacity"], 0)
}

// TestSet tests replacing and restoring the global logger.
func TestSet(t *testing.T) {
	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, nil)))
	Info("hello")
	assert.Contains(t, buf.String(), "hello")

	Set(nil)
	buf.Reset()
	Info("hello")
	assert.Zero(t, buf.Len())
}

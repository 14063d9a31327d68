package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewWithWriter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("site", &buf)
	l.Info().Msg("hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "site", entry["role"])
	assert.Equal(t, "hello", entry["message"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "func")
}

func TestChild_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("site", &buf).Child("watcher")
	l.Warn().Msg("x")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "watcher", entry["component"])
	assert.Equal(t, "site", entry["role"])
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.Error(t, SetLevel("loud"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	l.Info().Msg("discarded")
	l.Child("c").Error().Msg("discarded")
}

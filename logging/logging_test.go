// ABOUTME: Tests for logger construction: level selection, handler format and the discard logger.
// ABOUTME: Output is captured in a buffer and inspected as text or decoded JSON.
package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, false)

	l.Debug("hidden")
	l.Info("shown", "files", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "files=3")
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true, false).Debug("details")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false, true).Warn("careful", "kind", "cycle")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "careful", rec["msg"])
	assert.Equal(t, "cycle", rec["kind"])
}

func TestLevelOverridesVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions(&buf, Options{Verbose: true, Level: "error"})
	l.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{" INFO ", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(t.Context(), slog.LevelError))
	assert.NotNil(t, OrDiscard(nil))

	l := New(&bytes.Buffer{}, false, false)
	assert.Same(t, l, OrDiscard(l))
}

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})

	log.Info("capture added", "id", "c1")

	assert.Contains(t, buf.String(), `"msg":"capture added"`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"id":"c1"`)
}

func TestNew_PrettyNoColor(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Level: slog.LevelDebug, NoColor: true})

	log.Debug("dispatch", "action", "toggle_star")

	out := buf.String()
	assert.Contains(t, out, "DBG dispatch action=toggle_star")
	assert.NotContains(t, out, "\033[")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Level: slog.LevelWarn, NoColor: true})

	log.Info("hidden")
	log.Warn("shown", "error", errors.New("disk full"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `WRN shown error="disk full"`)
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, NoColor: true}).
		With("component", "web").
		WithGroup("req")

	log.Info("request", "path", "/buckets")

	out := buf.String()
	require.Contains(t, out, "component=web")
	require.Contains(t, out, "req.path=/buckets")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestDiscard(t *testing.T) {
	require.NotNil(t, Discard())
	Discard().Error("nothing happens")
}

package contextutil

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContext_Default(t *testing.T) {
	assert.Same(t, slog.Default(), LoggerFromContext(context.Background()))
}

func TestWithLogger_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug").With("run_id", "abc")
	ctx := WithLogger(context.Background(), logger)

	got := LoggerFromContext(ctx)
	require.Same(t, logger, got)

	got.Debug("storage: hello")
	assert.Contains(t, buf.String(), "storage: hello")
	assert.Contains(t, buf.String(), "run_id=abc")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

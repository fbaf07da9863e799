package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("writes JSON records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("catalog loaded",
			slog.String("component", "catalog"),
			slog.Int("records", 42))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"catalog loaded"`)
		assert.Contains(t, output, `"component":"catalog"`)
		assert.Contains(t, output, `"records":42`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
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
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError adds the error and attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "failed to reload catalog", assert.AnError,
			slog.String("source", "https://example.com/foods.xlsx"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to reload catalog"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"source":"https://example.com/foods.xlsx"`)
	})

	t.Run("LogOperation drops zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "catalog_loaded",
			slog.String("source", "foods.csv"),
			slog.Int("records", 150),
			slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"catalog_loaded"`)
		assert.Contains(t, output, `"records":150`)
		assert.NotContains(t, output, `"duration"`)

		buf.Reset()
		LogOperation(logger, "catalog_loaded", slog.Duration("duration", time.Second))
		assert.Contains(t, buf.String(), `"duration"`)
	})

	t.Run("LogHTTPRequest logs request details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogHTTPRequest(logger, "GET", "/api/high-protein.json", 200, 1.5,
			slog.String("user_agent", "test-client"))

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"GET"`)
		assert.Contains(t, output, `"path":"/api/high-protein.json"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":1.5`)
		assert.Contains(t, output, `"user_agent":"test-client"`)
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "ignored", assert.AnError)
			LogOperation(nil, "ignored")
			LogHTTPRequest(nil, "GET", "/", 200, 0)
		})
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("stores and retrieves logger from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithLogger(context.Background(), logger)
		retrieved := FromContext(ctx)
		require.NotNil(t, retrieved)

		retrieved.Info("test from context")
		assert.Contains(t, buf.String(), "test from context")
	})

	t.Run("returns default logger when not in context", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.Same(t, slog.Default(), logger)
	})
}

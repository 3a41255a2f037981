package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns attached logger", func(t *testing.T) {
		t.Parallel()
		attached := slog.Default().With("component", "test")
		ctx := logger.WithLogger(context.Background(), attached)
		assert.Same(t, attached, logger.FromContext(ctx))
	})

	t.Run("falls back to default", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, logger.FromContext(context.Background()))
	})
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	componentLogger := slog.Default().With("component", "store")

	t.Run("prefers context logger", func(t *testing.T) {
		t.Parallel()
		attached := slog.Default().With("trace_id", "abc")
		ctx := logger.WithLogger(context.Background(), attached)
		assert.Same(t, attached, logger.FromContextOrDefault(ctx, componentLogger))
	})

	t.Run("falls back to component logger", func(t *testing.T) {
		t.Parallel()
		got := logger.FromContextOrDefault(context.Background(), componentLogger)
		assert.Same(t, componentLogger, got)
	})
}

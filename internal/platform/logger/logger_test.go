package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfarias/loyalty-api/internal/config"
)

func TestSetup(t *testing.T) {
	t.Run("valid level", func(t *testing.T) {
		log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "debug"})
		require.NoError(t, err)
		assert.NotNil(t, log)
		assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "loud"})
		require.NoError(t, err)
		assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"WARN", slog.LevelWarn, true},
		{"loud", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		level, err := parseLevel(tt.input)
		if tt.ok {
			assert.NoError(t, err, tt.input)
		} else {
			assert.Error(t, err, tt.input)
		}
		assert.Equal(t, tt.want, level, tt.input)
	}
}

func TestContextLogger(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		log := slog.Default().With("component", "test")
		ctx := WithLogger(context.Background(), log)

		assert.Same(t, log, FromContext(ctx))
		assert.Same(t, log, FromContextOrDefault(ctx, slog.Default()))
	})

	t.Run("falls back to provided default", func(t *testing.T) {
		def := slog.Default().With("component", "fallback")
		assert.Same(t, def, FromContextOrDefault(context.Background(), def))
	})

	t.Run("falls back to global default", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})
}

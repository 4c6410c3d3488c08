package logger_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gocollab/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "unknown", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/level="+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)

				assert.NotPanics(t, func() {
					log.Debug(context.Background(), "debug message")
					log.Info(context.Background(), "info message", zap.String("key", "value"))
				})
			})
		}
	}
}

func TestFromContext(t *testing.T) {
	t.Run("returns logger stored in context", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), testLogger)

		got, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, got)
	})

	t.Run("error when context has no logger", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})
}

func TestLog(t *testing.T) {
	logger.SetGlobalLogger(nil)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	t.Run("context logger wins over global", func(t *testing.T) {
		ctxLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)
		global, err := logger.NewLogger(logger.Production, "error")
		require.NoError(t, err)
		logger.SetGlobalLogger(global)

		ctx := logger.NewContext(context.Background(), ctxLogger)
		assert.Same(t, ctxLogger, logger.Log(ctx))
	})

	t.Run("global logger when context is empty", func(t *testing.T) {
		global, err := logger.NewLogger(logger.Development, "info")
		require.NoError(t, err)
		logger.SetGlobalLogger(global)

		assert.Same(t, global, logger.Log(context.Background()))
	})

	t.Run("fallback logger is a singleton", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		first := logger.Log(context.Background())
		second := logger.Log(context.Background())
		require.NotNil(t, first)
		assert.Same(t, first, second)
	})
}

func TestInitGlobalLoggerWithLevel(t *testing.T) {
	logger.SetGlobalLogger(nil)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Production, "info"))
	first := logger.Log(context.Background())

	require.NoError(t, logger.InitGlobalLogger(logger.Development))
	assert.Same(t, first, logger.Log(context.Background()), "second init must keep the existing logger")
}

func TestRequestID(t *testing.T) {
	t.Run("stores provided id", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "req-1")

		id, ok := logger.GetRequestID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "req-1", id)
	})

	t.Run("generates uuid v4 when empty", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")

		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
	})

	t.Run("replaces untrusted ids", func(t *testing.T) {
		for name, raw := range map[string]string{
			"oversized":    strings.Repeat("x", logger.MaxRequestIDLength+1),
			"control char": "req\x01id",
			"newline":      "req\nid",
			"space":        "req id",
			"non-ascii":    "запрос",
		} {
			t.Run(name, func(t *testing.T) {
				ctx := logger.NewRequestIDContext(context.Background(), raw)

				id, ok := logger.GetRequestID(ctx)
				require.True(t, ok)
				assert.NotEqual(t, raw, id)
				_, err := uuid.Parse(id)
				assert.NoError(t, err)
			})
		}
	})

	t.Run("keeps id at length limit", func(t *testing.T) {
		raw := strings.Repeat("x", logger.MaxRequestIDLength)
		ctx := logger.NewRequestIDContext(context.Background(), raw)

		id, _ := logger.GetRequestID(ctx)
		assert.Equal(t, raw, id)
	})

	t.Run("WithRequestID returns same logger without id", func(t *testing.T) {
		base, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		assert.Same(t, base, base.WithRequestID(context.Background()))

		ctx := logger.NewRequestIDContext(context.Background(), "req-2")
		assert.NotSame(t, base, base.WithRequestID(ctx))
	})
}

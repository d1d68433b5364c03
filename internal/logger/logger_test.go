package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewLoggerUnknownEnv(t *testing.T) {
	_, err := NewLogger("staging")
	assert.Error(t, err)
}

func TestNewLoggerLevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = NewLogger("dev", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("prod", "loud")
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = With(ctx, zap.String("audience", "A"))
	FromContext(ctx).Info("generated")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "A", logs.All()[0].ContextMap()["audience"])

	assert.Equal(t, ctx, With(ctx), "no fields leaves the context unchanged")
	assert.NotNil(t, FromContext(With(context.Background(), zap.Int("n", 1))))
}

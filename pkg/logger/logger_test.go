package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withObserver(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Instance
	Instance = zap.New(core)
	t.Cleanup(func() { Instance = prev })
	return logs
}

func TestWithContextFieldsAreAttached(t *testing.T) {
	logs := withObserver(t)

	ctx := WithContext(context.Background(), zap.String("path", "/api/menus"))
	ctx = WithContext(ctx, zap.Uint64("user_id", 7))
	Info(ctx, "resolved", zap.Int("menus", 2))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/api/menus", fields["path"])
		assert.Equal(t, uint64(7), fields["user_id"])
		assert.Equal(t, int64(2), fields["menus"])
	}
}

func TestFormattedHelpers(t *testing.T) {
	logs := withObserver(t)

	Warnf(context.Background(), "screen %d missing", 42)
	Errorf(context.TODO(), "boom: %s", "x")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "screen 42 missing", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "boom: x", entries[1].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

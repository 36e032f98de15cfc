package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDisabledByDefault(t *testing.T) {
	restore := Replace(zap.NewNop())
	defer restore()

	Init(false)
	assert.False(t, Enabled())
	assert.NotPanics(t, func() { Info("dropped") })
}

func TestReplaceCapturesEntries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	Debug("query executed", zap.String("query", "SELECT 1"), zap.Int("rows", 1))
	With(zap.String("component", "pool")).Warn("health check failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "query executed", entries[0].Message)
	assert.Equal(t, "SELECT 1", entries[0].ContextMap()["query"])
	assert.Equal(t, "pool", entries[1].ContextMap()["component"])
	assert.True(t, Enabled())
}

func TestNew(t *testing.T) {
	t.Run("json output respects level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Options{Level: "warn", Output: &buf})
		require.NoError(t, err)

		l.Info("hidden")
		l.Warn("shown", zap.String("k", "v"))
		require.NoError(t, l.Sync())

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"msg":"shown"`)
		assert.Contains(t, buf.String(), `"k":"v"`)
	})

	t.Run("development output is console formatted", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Options{Level: "DEBUG", Development: true, Output: &buf})
		require.NoError(t, err)

		l.Debug("hello")
		assert.Contains(t, buf.String(), "DEBUG")
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("file output", func(t *testing.T) {
		var buf bytes.Buffer
		file := filepath.Join(t.TempDir(), "diesel.log")
		l, err := New(Options{Output: &buf, File: file})
		require.NoError(t, err)

		l.Info("persisted")
		require.NoError(t, l.Sync())
		assert.FileExists(t, file)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(Options{Level: "loud"})
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestConfigure(t *testing.T) {
	restore := Replace(zap.NewNop())
	defer restore()

	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "info", Output: &buf}))
	Info("configured")
	assert.Contains(t, buf.String(), "configured")

	assert.Error(t, Configure(Options{Level: "nope"}))
}

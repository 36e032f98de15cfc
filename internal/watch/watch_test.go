package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	file := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(file, []byte("SELECT 1"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(file, 20*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start(context.Background()))
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, os.WriteFile(file, []byte("SELECT 2"), 0o644))
	assert.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	t.Run("other files are ignored", func(t *testing.T) {
		before := calls.Load()
		require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(file), "other.sql"), []byte("x"), 0o644))
		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, before, calls.Load())
	})
}

func TestWatcherInitialError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	boom := errors.New("boom")
	w, err := NewWatcher(file, 0, func(ctx context.Context) error { return boom })
	require.NoError(t, err)
	defer w.Stop()

	assert.ErrorIs(t, w.Start(context.Background()), boom)
}

func TestWatcherStopsWithContext(t *testing.T) {
	file := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	w, err := NewWatcher(file, 0, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch loop did not exit")
	}
	assert.NoError(t, w.Stop())
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "query.sql"), 0, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

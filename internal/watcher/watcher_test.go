package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/newhook/sqwatch/internal/pubsub"
	"github.com/newhook/sqwatch/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	// 10 writes * 5ms = 50ms, so a 150ms debounce coalesces them.
	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 150 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := w.Broker().Subscribe(ctx)
	require.NoError(t, w.Start())

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("v%d", i)), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	var count int
	deadline := time.After(500 * time.Millisecond)
countLoop:
	for {
		select {
		case evt := <-sub:
			require.Equal(t, pubsub.UpdatedEvent, evt.Type)
			require.Equal(t, watcher.FileChanged, evt.Payload.Type)
			require.Equal(t, path, evt.Payload.Path)
			count++
		case <-deadline:
			break countLoop
		}
	}

	require.GreaterOrEqual(t, count, 1, "expected at least one notification")
	require.LessOrEqual(t, count, 3, "expected debouncing to coalesce writes (got %d)", count)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	other := filepath.Join(dir, "debug.log")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("a"), 0644))

	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 20 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := w.Broker().Subscribe(ctx)
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(other, []byte("log line"), 0644))

	select {
	case <-sub:
		require.Fail(t, "should not notify for unrelated files")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	w, err := watcher.New(watcher.DefaultConfig(path))
	require.NoError(t, err)
	require.NoError(t, w.Start())

	done := make(chan struct{})
	go func() {
		_ = w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Stop() timed out")
	}
}

func TestNewRequiresPath(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/x/config.toml")
	require.Equal(t, "/x/config.toml", cfg.Path)
	require.Equal(t, 100*time.Millisecond, cfg.DebounceDur)
}

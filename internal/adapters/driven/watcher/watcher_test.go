package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunTriggersReload tests that a file change triggers exactly one
// debounced reload.
func TestRunTriggersReload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "json"), 0o755))

	reloads := make(chan struct{}, 8)
	w := New(dir, 50*time.Millisecond, func(ctx context.Context) error {
		reloads <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "json", "a.json"), []byte(`{}`), 0o644))

	select {
	case <-reloads:
	case <-time.After(3 * time.Second):
		t.Fatal("reload was not triggered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// TestRunDebouncesBursts tests that a burst of writes collapses into
// one reload.
func TestRunDebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	var count atomic.Int32
	w := New(dir, 150*time.Millisecond, func(ctx context.Context) error {
		count.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "doc"+string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(name, []byte("content"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

// TestNewDefaultDebounce tests the debounce fallback.
func TestNewDefaultDebounce(t *testing.T) {
	w := New("/tmp", 0, nil)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

// TestRunMissingDir tests the error on a nonexistent directory.
func TestRunMissingDir(t *testing.T) {
	w := New("/nonexistent/caremind-test", time.Second, nil)
	err := w.Run(context.Background())
	assert.Error(t, err)
}

// Package watcher reloads the knowledge base when its source files
// change on disk. Bursts of filesystem events (editors write several
// times, bulk copies touch many files) are debounced into one reload.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/caremind/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last event
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc is invoked after a debounced burst of changes.
type ReloadFunc func(ctx context.Context) error

// Watcher observes a knowledge directory and triggers reloads.
type Watcher struct {
	dir      string
	debounce time.Duration
	reload   ReloadFunc
}

// New creates a watcher over dir. A non-positive debounce falls back
// to DefaultDebounce.
func New(dir string, debounce time.Duration, reload ReloadFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce, reload: reload}
}

// Run watches until ctx is cancelled. It watches the knowledge dir and
// its json/ and documents/ subdirectories when they exist.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	for _, sub := range []string{"json", "documents"} {
		path := filepath.Join(w.dir, sub)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
	logger.Info("Watching %s for changes", w.dir)

	// The timer starts stopped; every relevant event rewinds it.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("Change detected: %s %s", event.Op, event.Name)
			timer.Reset(w.debounce)

			// New subdirectories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.Add(event.Name); err != nil {
						logger.Warn("Could not watch %s: %v", event.Name, err)
					}
				}
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			logger.Info("Knowledge files changed, reloading")
			if err := w.reload(ctx); err != nil {
				logger.Warn("Reload failed: %v", err)
			}
		}
	}
}

// relevant filters out events that cannot change knowledge content.
func relevant(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}

// Package watcher auto-ingests documents dropped into a watched
// directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/docuport/docuport/internal/extract"
)

// Ingester handles one changed document file.
type Ingester interface {
	File(ctx context.Context, path string) (int, error)
}

// Watcher watches a directory tree and ingests created or modified
// documents after a debounce window, so half-written files settle before
// extraction runs.
type Watcher struct {
	dir      string
	ingester Ingester
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

// New returns a watcher over dir.
func New(dir string, ingester Ingester, debounce time.Duration) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path is not a directory: %s", dir)
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		dir:      dir,
		ingester: ingester,
		debounce: debounce,
		pending:  make(map[string]time.Time),
	}, nil
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.dir); err != nil {
		return err
	}

	log.Info("watching for documents", "dir", w.dir, "debounce", w.debounce)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	// New subdirectories need their own watches.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := w.addRecursive(fw, event.Name); err != nil {
				log.Warn("failed to watch new directory", "dir", event.Name, "error", err)
			}
		}
		return
	}

	if !extract.Supported(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flushPending ingests files whose last event is older than the debounce
// window.
func (w *Watcher) flushPending(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		added, err := w.ingester.File(ctx, path)
		if err != nil {
			log.Warn("auto-ingest failed", "file", path, "error", err)
			continue
		}
		log.Info("auto-ingested", "file", filepath.Base(path), "added", added)
	}
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}

// Package watch provides an fsnotify-backed driven.DirWatcher.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
	"github.com/custodia-labs/kbadmin/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is reported.
const DefaultSettle = 500 * time.Millisecond

// Ensure Watcher implements the interface.
var _ driven.DirWatcher = (*Watcher)(nil)

// Watcher reports regular files created or rewritten in a directory.
// Each burst of writes to one path is reported once, after it settles.
type Watcher struct {
	settle time.Duration
}

// New creates a Watcher. A non-positive settle uses DefaultSettle.
func New(settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{settle: settle}
}

// Watch blocks until ctx is cancelled, calling onFile for each settled file.
// Subdirectories and hidden files are ignored.
func (w *Watcher) Watch(ctx context.Context, dir string, onFile func(path string)) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Debug("watching %s", dir)

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	fire := func(path string) {
		mu.Lock()
		delete(pending, path)
		mu.Unlock()

		if ctx.Err() != nil || !isRegular(path) {
			return
		}
		onFile(path)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			path := event.Name
			mu.Lock()
			if t, exists := pending[path]; exists {
				t.Reset(w.settle)
			} else {
				pending[path] = time.AfterFunc(w.settle, func() { fire(path) })
			}
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error on %s: %v", dir, err)
		}
	}
}

// relevant reports whether an event may announce new file content.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return !isHidden(filepath.Base(event.Name))
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

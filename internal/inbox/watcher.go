// Package inbox imports candidate exports dropped into a watched directory.
package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is imported.
const DefaultDebounce = 500 * time.Millisecond

// ImportFunc imports one settled file.
type ImportFunc func(ctx context.Context, fileName string, content []byte) error

// Stats counts watcher activity.
type Stats struct {
	Imported      int
	Failed        int
	LastEventTime time.Time
	LastEventPath string
}

// Watcher imports .csv and .json files written into a directory, one at a time.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dir         string
	importFn    ImportFunc
	logger      *zap.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	tick        time.Duration
	stats       Stats
}

// New creates a watcher for dir. A non-positive debounce uses DefaultDebounce.
func New(dir string, debounce time.Duration, importFn ImportFunc, logger *zap.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox path %s is not a directory", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:     fw,
		dir:         dir,
		importFn:    importFn,
		logger:      logger,
		debounceMap: make(map[string]time.Time),
		debounceDur: debounce,
		tick:        min(100*time.Millisecond, debounce),
	}, nil
}

// Run watches until ctx is done. Imports run on this goroutine, so two files
// are never imported concurrently.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching inbox", zap.String("dir", w.dir))

	// Debounce timer for batching rapid changes
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("inbox watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("inbox watcher error", zap.Error(err))

		case <-ticker.C:
			w.processDebouncedEvents(ctx)
		}
	}
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func isImportable(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".json":
		return true
	default:
		return false
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isImportable(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	w.logger.Debug("inbox event", zap.String("file", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	now := time.Now()
	w.stats.LastEventTime = now
	w.stats.LastEventPath = event.Name
	w.debounceMap[event.Name] = now
	w.mu.Unlock()
}

// processDebouncedEvents imports files that have settled past the debounce window.
func (w *Watcher) processDebouncedEvents(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	toProcess := make([]string, 0)
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			toProcess = append(toProcess, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toProcess {
		if ctx.Err() != nil {
			return
		}
		w.importFile(ctx, path)
	}
}

func (w *Watcher) importFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.logger.Debug("file vanished before import", zap.String("file", path))
			return
		}
		w.logger.Error("failed to read inbox file", zap.String("file", path), zap.Error(err))
		w.recordResult(false)
		return
	}

	if err := w.importFn(ctx, filepath.Base(path), content); err != nil {
		w.logger.Warn("inbox import failed", zap.String("file", path), zap.Error(err))
		w.recordResult(false)
		return
	}
	w.recordResult(true)
}

func (w *Watcher) recordResult(ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ok {
		w.stats.Imported++
	} else {
		w.stats.Failed++
	}
}

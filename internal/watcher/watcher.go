// Package watcher watches spool directories for finished dump files and
// hands them to the ingest callback. Dumps are large and written slowly, so
// events are debounced until writes quiet down.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 2 * time.Second

// dump file extensions the watcher reacts to.
var dumpSuffixes = []string{".xml", ".xml.bz2"}

// SpoolWatcher watches flat spool directories and invokes onDump once a
// dump file stops changing.
type SpoolWatcher struct {
	dirs     []string
	onDump   func(path string)
	debounce time.Duration
	logger   *zap.Logger

	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	pending  map[string]*time.Timer
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// Option configures a SpoolWatcher.
type Option func(*SpoolWatcher)

// WithDebounce overrides how long a file must stay quiet before ingest.
func WithDebounce(d time.Duration) Option {
	return func(w *SpoolWatcher) { w.debounce = d }
}

// NewSpoolWatcher creates a watcher over dirs. onDump is called with the
// path of each settled dump file.
func NewSpoolWatcher(dirs []string, onDump func(path string), logger *zap.Logger, opts ...Option) *SpoolWatcher {
	w := &SpoolWatcher{
		dirs:     dirs,
		onDump:   onDump,
		debounce: defaultDebounce,
		logger:   logger,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. Spool directories are created if missing. Runs
// until ctx is cancelled or Stop is called.
func (w *SpoolWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	for _, dir := range w.dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			_ = watcher.Close()
			w.mu.Unlock()
			return err
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			w.mu.Unlock()
			return err
		}
	}
	w.watcher = watcher
	w.started = true
	w.mu.Unlock()

	w.logger.Info("spool watcher started", zap.Strings("directories", w.dirs))
	go w.run(ctx)
	return nil
}

func (w *SpoolWatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Warn("spool watcher error", zap.Error(err))
			}
		}
	}
}

func (w *SpoolWatcher) handleEvent(ev fsnotify.Event) {
	if !isDumpFile(ev.Name) {
		return
	}
	switch {
	case ev.Op.Has(fsnotify.Create), ev.Op.Has(fsnotify.Write):
		w.scheduleIngest(ev.Name)
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.cancelIngest(ev.Name)
	}
}

// scheduleIngest arms (or re-arms) the quiet-period timer for path.
func (w *SpoolWatcher) scheduleIngest(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.logger.Info("dump file settled", zap.String("path", path))
		if w.onDump != nil {
			w.onDump(path)
		}
	})
}

func (w *SpoolWatcher) cancelIngest(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// SyncExisting invokes onDump for dump files already sitting in the spool
// directories, so files dropped before startup are not missed.
func (w *SpoolWatcher) SyncExisting() error {
	for _, dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if isDumpFile(path) && w.onDump != nil {
				w.onDump(path)
			}
		}
	}
	return nil
}

// Stop stops the watcher and cancels pending timers.
func (w *SpoolWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
		w.mu.Unlock()
	})
}

func isDumpFile(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range dumpSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

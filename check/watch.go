package check

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file has to stay quiet after a write
// before it is checked again.
const DefaultDebounce = 100 * time.Millisecond

var ErrAlreadyWatching = errors.New("already watching")

// Watcher re-checks proof documents when they are written.
type Watcher struct {
	engine   Engine
	logger   *zap.Logger
	onReport func(path string, report *Report, err error)
	debounce time.Duration

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	pending  map[string]*time.Timer
	watching bool
}

// NewWatcher returns a watcher that hands every new report to onReport.
func NewWatcher(engine Engine, logger *zap.Logger, onReport func(string, *Report, error)) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		engine:   engine,
		logger:   logger,
		onReport: onReport,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
}

// SetDebounce changes the quiet period. It has no effect once Watch runs.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Watch adds every directory below dirs and blocks until ctx is done.
func (w *Watcher) Watch(ctx context.Context, dirs ...string) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return ErrAlreadyWatching
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = fw
	w.watching = true
	w.mu.Unlock()

	defer w.stop()

	for _, dir := range dirs {
		subdirs, err := NewScanner(dir).Dirs()
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
		for _, sub := range subdirs {
			if err := fw.Add(sub); err != nil {
				return fmt.Errorf("error adding directory to watcher: %w", err)
			}
		}
		w.logger.Info("Watching", zap.String("dir", dir))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("Closing watcher", zap.Error(err))
		}
		w.watcher = nil
	}
	w.watching = false
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !IsDocument(event.Name) || filepath.Base(event.Name) == DefaultConfigFile {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// editors write in bursts; only the last write in a quiet period counts
	if t, ok := w.pending[event.Name]; ok {
		t.Stop()
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		live := w.watching
		w.mu.Unlock()
		if live {
			w.recheck(path)
		}
	})
}

func (w *Watcher) recheck(path string) {
	report, err := w.engine.Run(path)
	if err != nil {
		w.logger.Error("Error checking file", zap.String("file", path), zap.Error(err))
	} else {
		w.logger.Debug("Rechecked file", zap.String("file", path), zap.Int("failures", report.Failures()))
	}
	if w.onReport != nil {
		w.onReport(path, report, err)
	}
}

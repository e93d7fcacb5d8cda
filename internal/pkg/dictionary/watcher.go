package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/endorses/wordmask/internal/pkg/constants"
	"github.com/endorses/wordmask/internal/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives the new word list after a word file changed.
type ReloadFunc func(ctx context.Context, words []string) error

// WatcherConfig configures the word file watcher.
type WatcherConfig struct {
	// Debounce collapses bursts of file events into one reload.
	// Default: 100ms
	Debounce time.Duration

	// PollInterval is the fallback polling interval when fsnotify is unavailable.
	// Default: 1 second
	PollInterval time.Duration
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		Debounce:     constants.WatchDebounce,
		PollInterval: 1 * time.Second,
	}
}

// WatcherStats reports watcher activity.
type WatcherStats struct {
	Reloads uint64
	Skipped uint64
	Errors  uint64
}

// Watcher watches a word file and calls a ReloadFunc when the set of words
// in it changes. Rewrites that leave the set unchanged are skipped.
type Watcher struct {
	config    WatcherConfig
	path      string
	onChange  ReloadFunc
	fsWatcher *fsnotify.Watcher
	mu        sync.Mutex
	stopChan  chan struct{}
	wg        sync.WaitGroup
	running   bool

	// fingerprint of the last word list handed to onChange
	last    uint64
	hasLast bool

	stats WatcherStats
}

// NewWatcher creates a new word file watcher.
func NewWatcher(path string, onChange ReloadFunc, config WatcherConfig) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = DefaultWatcherConfig().Debounce
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultWatcherConfig().PollInterval
	}
	return &Watcher{
		config:   config,
		path:     path,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}
}

// Start records the current content as the baseline and begins watching.
// The parent directory is watched so that editors replacing the file by
// rename are noticed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	if words, err := ParseFile(w.path); err == nil {
		w.last, w.hasLast = Fingerprint(words), true
	} else if !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to read word file", "path", w.path, "error", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("fsnotify unavailable, falling back to polling", "error", err)
		return w.startPolling(ctx)
	}

	dir := filepath.Dir(w.path)
	if err := fsWatcher.Add(dir); err != nil {
		logger.Warn("failed to watch directory, falling back to polling",
			"path", w.path,
			"dir", dir,
			"error", err)
		if cerr := fsWatcher.Close(); cerr != nil {
			logger.Error("failed to close fsnotify watcher", "error", cerr)
		}
		return w.startPolling(ctx)
	}
	w.fsWatcher = fsWatcher

	w.wg.Add(1)
	go w.fsWatchLoop(ctx)

	logger.Info("started word file watcher",
		"path", w.path,
		"mode", "fsnotify")
	return nil
}

func (w *Watcher) startPolling(ctx context.Context) error {
	w.wg.Add(1)
	go w.pollLoop(ctx)

	logger.Info("started word file watcher",
		"path", w.path,
		"mode", "polling",
		"interval", w.config.PollInterval)
	return nil
}

func (w *Watcher) fsWatchLoop(ctx context.Context) {
	defer w.wg.Done()

	targetPath, _ := filepath.Abs(w.path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			eventPath, _ := filepath.Abs(event.Name)
			if eventPath != targetPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(w.config.Debounce)
			}
		case <-pending:
			pending = nil
			w.check(ctx)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn("fsnotify error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		}
	}
}

func (w *Watcher) pollLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	var lastModTime time.Time
	var lastSize int64

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if !os.IsNotExist(err) {
					logger.Warn("failed to stat word file", "path", w.path, "error", err)
				}
				continue
			}
			if info.ModTime().Equal(lastModTime) && info.Size() == lastSize {
				continue
			}
			lastModTime, lastSize = info.ModTime(), info.Size()
			w.check(ctx)
		}
	}
}

// check reads the file and calls onChange when its fingerprint moved.
func (w *Watcher) check(ctx context.Context) {
	words, err := ParseFile(w.path)
	if err != nil {
		// The file may be mid-replace; the next event retries.
		logger.Debug("word file not readable", "path", w.path, "error", err)
		return
	}

	fp := Fingerprint(words)

	w.mu.Lock()
	if w.hasLast && fp == w.last {
		w.stats.Skipped++
		w.mu.Unlock()
		logger.Debug("word file unchanged", "path", w.path)
		return
	}
	w.mu.Unlock()

	if err := w.onChange(ctx, words); err != nil {
		logger.Error("word file reload failed", "path", w.path, "error", err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.last, w.hasLast = fp, true
	w.stats.Reloads++
	w.mu.Unlock()
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	if w.fsWatcher != nil {
		return w.fsWatcher.Close()
	}
	return nil
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

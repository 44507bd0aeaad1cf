package analyzer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/uisema/pkg/parser"
)

// Watcher re-runs the analysis pipeline when project sources change.
//
// Events are debounced: rapid edits collapse into a single run. Changed
// files are invalidated in the analyzer's caches first, so the run only
// re-extracts what actually changed.
type Watcher struct {
	analyzer *Analyzer
	root     string
	scanOpts ScanOptions
	options  WatchOptions
	logger   *slog.Logger

	fsWatcher *fsnotify.Watcher
	results   chan *ProjectResult

	// Debouncing: changed paths accumulate until the timer fires.
	pending map[string]bool
	timer   *time.Timer
	mu      sync.Mutex

	stopChan chan struct{}
	stopped  bool
	lifeMu   sync.Mutex
}

// NewWatcher creates a watcher over root. Call Start to begin watching;
// completed runs arrive on Results.
func NewWatcher(a *Analyzer, root string, scanOpts ScanOptions, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.DebounceMs == 0 {
		options.DebounceMs = DefaultWatchOptions().DebounceMs
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to resolve watch root: %w", err)
	}

	return &Watcher{
		analyzer:  a,
		root:      absRoot,
		scanOpts:  scanOpts,
		options:   options,
		logger:    logger,
		fsWatcher: fsWatcher,
		results:   make(chan *ProjectResult, 1),
		pending:   make(map[string]bool),
		stopChan:  make(chan struct{}),
	}, nil
}

// Results delivers the outcome of each triggered re-analysis. A slow
// consumer only loses intermediate runs, never the latest one.
func (w *Watcher) Results() <-chan *ProjectResult {
	return w.results
}

// Start registers watches for the root and its subdirectories and begins
// processing events in the background.
func (w *Watcher) Start() error {
	w.lifeMu.Lock()
	if w.stopped {
		w.lifeMu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.lifeMu.Unlock()

	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set up watches: %w", err)
	}

	w.logger.Info("file watcher started", "root", w.root)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	err := w.fsWatcher.Close()
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if w.shouldIgnore(path) {
		return
	}

	// New directories need their own watch before edits inside them are
	// visible.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.fsWatcher.Add(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if parser.DetectLanguage(path) == parser.LanguageUnknown {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.scheduleRun(path)
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.analyzer.Invalidate(path)
		w.scheduleRun(path)
	}
}

// scheduleRun records a changed path and (re)arms the debounce timer.
func (w *Watcher) scheduleRun(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		w.runPending,
	)
}

func (w *Watcher) runPending() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	w.lifeMu.Lock()
	if w.stopped {
		w.lifeMu.Unlock()
		return
	}
	w.lifeMu.Unlock()

	for _, path := range changed {
		w.analyzer.Invalidate(path)
	}

	w.logger.Info("re-analyzing project", "changed_files", len(changed))

	result, err := w.analyzer.AnalyzeProject(w.root, w.scanOpts, nil)
	if err != nil {
		w.logger.Error("re-analysis failed", "error", err)
		return
	}

	// Keep only the latest result when the consumer lags.
	select {
	case w.results <- result:
	default:
		select {
		case <-w.results:
		default:
		}
		select {
		case w.results <- result:
		default:
		}
	}
}

func (w *Watcher) shouldIgnore(path string) bool {
	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range w.scanOpts.Exclude {
		if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
			return true
		}
	}
	return false
}

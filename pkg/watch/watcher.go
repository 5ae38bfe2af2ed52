package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyRunning is returned when Watch is called on a running watcher.
var ErrAlreadyRunning = errors.New("watcher already running")

// FileWatcherConfig configures a FileWatcher.
type FileWatcherConfig struct {
	// Root is the directory watched recursively.
	Root string

	// Debounce is the quiet period before changes are flushed.
	Debounce time.Duration

	// Extensions selects the source files reported.
	Extensions []string

	// Ignore lists directory names never watched.
	Ignore []string
}

// FileWatcher watches a source tree and reports changed source files in
// debounced batches. Directories created while watching are picked up.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	config  FileWatcherConfig

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a watcher for cfg.Root.
func NewFileWatcher(cfg FileWatcherConfig, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %q is not a directory", cfg.Root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher: watcher,
		logger:  logger.With("component", "watcher"),
		config:  cfg,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Running reports whether the event loop is active.
func (fw *FileWatcher) Running() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

// Watch blocks until ctx is cancelled or Stop is called, calling onChange
// with each debounced batch of changed source files. Batches may include
// files that were deleted.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(paths []string)) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	fw.running = true
	fw.mu.Unlock()

	debounce := NewDebouncer(fw.config.Debounce, onChange)
	defer func() {
		debounce.Stop()
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	if err := fw.addDirectory(fw.config.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.config.Root, err)
	}

	fw.logger.Info("file watcher started",
		"root", fw.config.Root,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Debug("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Debug("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			for _, path := range fw.handleEvent(event) {
				debounce.Add(path)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases the fsnotify handle.
func (fw *FileWatcher) Stop() error {
	fw.mu.RLock()
	running := fw.running
	fw.mu.RUnlock()

	if running {
		close(fw.stopCh)
		<-fw.doneCh
	}
	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// handleEvent returns the source files an event affects. A new directory
// is watched and its existing files reported, since files written before
// the watch was added produce no events.
func (fw *FileWatcher) handleEvent(event fsnotify.Event) []string {
	if event.Op == fsnotify.Chmod {
		return nil
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if fw.ignored(filepath.Base(event.Name)) {
				return nil
			}
			if err := fw.addDirectory(event.Name); err != nil {
				fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return fw.sourcesUnder(event.Name)
		}
	}

	if !fw.isSource(event.Name) {
		return nil
	}
	fw.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())
	return []string{event.Name}
}

func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.ignored(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (fw *FileWatcher) sourcesUnder(dir string) []string {
	var paths []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && fw.ignored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if fw.isSource(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}

func (fw *FileWatcher) isSource(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := filepath.Ext(base)
	for _, want := range fw.config.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) ignored(name string) bool {
	return slices.Contains(fw.config.Ignore, name)
}

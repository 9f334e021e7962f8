package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docengine/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher rebuilds the snapshot when files below the content root change.
type Watcher struct {
	root      string
	rebuilder Rebuilder
	debounce  time.Duration
	watcher   *fsnotify.Watcher

	stopOnce   sync.Once
	stopChan   chan struct{}
	reloadChan chan struct{}
	done       sync.WaitGroup
}

// NewWatcher creates a watcher for root. A non-positive debounce uses
// DefaultDebounce.
func NewWatcher(root string, rebuilder Rebuilder, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content root: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		root:       absRoot,
		rebuilder:  rebuilder,
		debounce:   debounce,
		watcher:    w,
		stopChan:   make(chan struct{}),
		reloadChan: make(chan struct{}, 1),
	}, nil
}

// Start watches every directory below the root and begins processing events.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}
	slog.Info("Starting content watcher", logfields.Root(w.root))

	w.done.Add(2)
	go w.watchLoop()
	go w.reloadLoop(ctx)
	return nil
}

// Stop ends event processing and releases the underlying watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		slog.Info("Stopping content watcher")
		close(w.stopChan)
		err = w.watcher.Close()
		w.done.Wait()
	})
	return err
}

// addTree registers dir and its non-hidden subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			slog.Warn("Skipping unreadable directory", logfields.Path(path), logfields.Error(err))
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(d.Name()) {
			return fs.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func (w *Watcher) watchLoop() {
	defer w.done.Done()
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Content watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if hidden(filepath.Base(event.Name)) || event.Op == fsnotify.Chmod {
		return
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}
	slog.Debug("Content change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
	w.trigger()
}

func (w *Watcher) trigger() {
	select {
	case w.reloadChan <- struct{}{}:
	default:
	}
}

// reloadLoop coalesces bursts of events into one rebuild per quiet period.
// Rebuilds run on this goroutine, so Stop returns only after any running
// rebuild has finished.
func (w *Watcher) reloadLoop(ctx context.Context) {
	defer w.done.Done()
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timerC = nil
	}
	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return
		case <-w.stopChan:
			stopTimer()
			return
		case <-w.reloadChan:
			stopTimer()
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			// Errors are logged by the rebuilder; the old snapshot stays live.
			_, _ = w.rebuilder.Rebuild(ctx, TriggerWatch)
		}
	}
}

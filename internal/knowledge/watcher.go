package knowledge

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses editor save bursts into a single event.
const debounceWindow = 500 * time.Millisecond

// Watcher emits a notification when a watched file changes, typically to
// trigger a knowledge reload and index rebuild.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	events  chan struct{}
	logger  *slog.Logger
	started bool
}

// NewWatcher creates a watcher for the given file. Call Start to begin
// watching and Close to release the underlying watcher.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:   filepath.Clean(path),
		fsw:    fsw,
		events: make(chan struct{}, 1),
		logger: logger,
	}, nil
}

// Events returns the change notification channel.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Start watches the file's directory (watching the path itself breaks on
// rename-replace saves) and forwards debounced change events until the
// context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if w.started {
		return nil
	}
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceWindow, func() {
					select {
					case w.events <- struct{}{}:
					default:
					}
				})
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("knowledge watcher error", "error", err)
			}
		}
	}()

	return nil
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

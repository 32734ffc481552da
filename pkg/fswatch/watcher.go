// Package fswatch adapts operating-system file change events onto an
// observable path list: create events append paths, remove and rename
// events remove them. It consumes the notification core's contract and adds
// no notification logic of its own; consumers observe the list.
package fswatch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/notifly-dev/notifly/pkg/obslist"
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// Watcher mirrors the file tree under a root directory into an
// obslist.List of absolute paths.
type Watcher struct {
	root string
	list *obslist.List[string]
	fsw  *fsnotify.Watcher
	log  *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// New creates a watcher over root feeding list. The list is seeded with the
// files present at creation time.
func New(root string, list *obslist.List[string], opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("fswatch: resolve root: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fswatch: create watcher: %w", err)
	}

	w := &Watcher{
		root: abs,
		list: list,
		fsw:  fsw,
		log:  slog.Default(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addRecursive(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the watched root directory, resolved to an absolute path.
func (w *Watcher) Root() string {
	return w.root
}

// Start pumps OS events into the list until ctx is cancelled or Close is
// called. It blocks; callers normally run it on its own goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "root", w.root, "error", err)
		}
	}
}

// Close stops the watcher and releases the OS resources. Safe to call more
// than once. The list is left as it was.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

// handleEvent translates one OS event into a list mutation.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.log.Warn("watch new directory", "path", event.Name, "error", err)
			}
			return
		}
		if w.list.Contains(event.Name) {
			return
		}
		if err := w.list.Append(event.Name); err != nil {
			w.log.Warn("append path", "path", event.Name, "error", err)
		}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if _, err := w.list.Remove(event.Name); err != nil {
			w.log.Warn("remove path", "path", event.Name, "error", err)
		}
	}
}

// addRecursive registers dir and its subdirectories with the OS watcher and
// seeds the list with the files below them.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("fswatch: watch %s: %w", path, err)
			}
			return nil
		}
		if w.list.Contains(path) {
			return nil
		}
		if err := w.list.Append(path); err != nil {
			return fmt.Errorf("fswatch: seed %s: %w", path, err)
		}
		return nil
	})
}

package fswatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifly-dev/notifly/pkg/obslist"
)

func newTestWatcher(t *testing.T) (*Watcher, *obslist.List[string], string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.txt"), []byte("x"), 0o644))

	list := obslist.New[string]()
	w, err := New(dir, list, WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, list, w.Root()
}

func TestNewSeedsExistingFiles(t *testing.T) {
	_, list, root := newTestWatcher(t)
	assert.Equal(t, 1, list.Len())
	assert.True(t, list.Contains(filepath.Join(root, "seed.txt")))
}

func TestHandleEventCreateAppends(t *testing.T) {
	w, list, root := newTestWatcher(t)

	path := filepath.Join(root, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})

	assert.True(t, list.Contains(path))

	// A duplicate create is not appended twice.
	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})
	assert.Equal(t, 2, list.Len())
}

func TestHandleEventRemoveAndRename(t *testing.T) {
	w, list, root := newTestWatcher(t)
	seed := filepath.Join(root, "seed.txt")

	w.handleEvent(fsnotify.Event{Name: seed, Op: fsnotify.Remove})
	assert.False(t, list.Contains(seed))

	// Removing an unknown path is harmless.
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "ghost"), Op: fsnotify.Rename})
	assert.Equal(t, 0, list.Len())
}

func TestListObserversSeeTranslatedEvents(t *testing.T) {
	w, list, root := newTestWatcher(t)

	var actions []obslist.Action
	list.AttachListChanged(func(_ any, ev obslist.Event[string]) {
		actions = append(actions, ev.Action)
	})

	path := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Remove})

	require.Len(t, actions, 2)
	assert.Equal(t, obslist.ActionAdd, actions[0])
	assert.Equal(t, obslist.ActionRemove, actions[1])
}

func TestStartStopsOnContextCancel(t *testing.T) {
	w, _, _ := newTestWatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestCloseIsIdempotent(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

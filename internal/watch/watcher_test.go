package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriDocs/internal/eventbus"
	"github.com/Rorical/RoriDocs/internal/watch"
)

func newWatcher(t *testing.T, opts ...watch.Option) (*watch.Watcher, *eventbus.EventBus) {
	t.Helper()
	bus := eventbus.NewEventBus()
	opts = append([]watch.Option{watch.WithDebounce(20 * time.Millisecond)}, opts...)
	w, err := watch.New(bus, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, bus
}

func nextEvent(t *testing.T, bus *eventbus.EventBus) eventbus.CoreEvent {
	t.Helper()
	select {
	case ev := <-bus.CoreToUI():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestWatcher_CreateInWatchedDir(t *testing.T) {
	root := t.TempDir()
	w, bus := newWatcher(t)
	require.NoError(t, w.Sync([]string{root}))

	require.NoError(t, os.WriteFile(filepath.Join(root, "new.md"), []byte("# New"), 0o644))

	assert.Equal(t, eventbus.TreeChangedEvent{Dir: root}, nextEvent(t, bus))
}

func TestWatcher_BurstIsCoalesced(t *testing.T) {
	root := t.TempDir()
	w, bus := newWatcher(t, watch.WithDebounce(300*time.Millisecond))
	require.NoError(t, w.Sync([]string{root}))

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}

	nextEvent(t, bus)
	select {
	case ev := <-bus.CoreToUI():
		t.Fatalf("unexpected second event %#v", ev)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_SelectedDocumentRewritten(t *testing.T) {
	root := t.TempDir()
	doc := filepath.Join(root, "intro.md")
	require.NoError(t, os.WriteFile(doc, []byte("# Intro"), 0o644))

	w, bus := newWatcher(t)
	require.NoError(t, w.Sync([]string{root}))
	w.SetSelected(doc)

	require.NoError(t, os.WriteFile(doc, []byte("# Intro v2"), 0o644))

	assert.Equal(t, eventbus.DocumentChangedEvent{Path: doc}, nextEvent(t, bus))
}

func TestWatcher_HiddenEntriesIgnored(t *testing.T) {
	root := t.TempDir()
	w, bus := newWatcher(t)
	require.NoError(t, w.Sync([]string{root}))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".swp"), nil, 0o644))

	select {
	case ev := <-bus.CoreToUI():
		t.Fatalf("unexpected event %#v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_SyncReplacesWatchedSet(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "guides")
	require.NoError(t, os.Mkdir(sub, 0o755))

	w, _ := newWatcher(t)
	require.NoError(t, w.Sync([]string{root, sub}))
	assert.ElementsMatch(t, []string{root, sub}, w.Watched())

	require.NoError(t, w.Sync([]string{root}))
	assert.Equal(t, []string{root}, w.Watched())

	err := w.Sync([]string{root, filepath.Join(root, "missing")})
	assert.Error(t, err)
	assert.Equal(t, []string{root}, w.Watched())
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := watch.New(eventbus.NewEventBus())
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

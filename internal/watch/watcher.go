// Package watch reports changes to a dataset's folders while it is browsed.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Rorical/RoriDocs/internal/eventbus"
)

const defaultDebounce = 150 * time.Millisecond

// Watcher follows the tree's visible folders and the open document and
// publishes coalesced change events on the bus.
type Watcher struct {
	fs       *fsnotify.Watcher
	bus      *eventbus.EventBus
	logger   *zap.Logger
	debounce time.Duration

	mu       sync.Mutex
	dirs     map[string]bool
	selected string

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

func New(bus *eventbus.EventBus, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		bus:      bus,
		logger:   zap.NewNop(),
		debounce: defaultDebounce,
		dirs:     make(map[string]bool),
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.watchLoop()
	return w, nil
}

// Sync makes the watched set equal to dirs. Folders that cannot be added
// are skipped and reported together.
func (w *Watcher) Sync(dirs []string) error {
	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[filepath.Clean(d)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for d := range w.dirs {
		if !want[d] {
			_ = w.fs.Remove(d)
			delete(w.dirs, d)
		}
	}

	var errs []error
	for d := range want {
		if w.dirs[d] {
			continue
		}
		if err := w.fs.Add(d); err != nil {
			errs = append(errs, fmt.Errorf("watch %s: %w", d, err))
			continue
		}
		w.dirs[d] = true
	}
	return errors.Join(errs...)
}

// Watched returns the folders currently followed.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		out = append(out, d)
	}
	return out
}

// SetSelected sets the document whose rewrites produce DocumentChangedEvent.
func (w *Watcher) SetSelected(path string) {
	w.mu.Lock()
	w.selected = filepath.Clean(path)
	w.mu.Unlock()
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closed)
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	var (
		treeTimer <-chan time.Time
		docTimer  <-chan time.Time
		treeDir   string
		docPath   string
	)

	for {
		select {
		case <-w.closed:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			if strings.HasPrefix(filepath.Base(name), ".") {
				continue
			}

			w.mu.Lock()
			dir := filepath.Dir(name)
			watchedDir := w.dirs[dir]
			isSelected := name == w.selected
			w.mu.Unlock()

			if watchedDir && event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				treeDir = dir
				if treeTimer == nil {
					treeTimer = time.After(w.debounce)
				}
			}
			if isSelected && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				docPath = name
				if docTimer == nil {
					docTimer = time.After(w.debounce)
				}
			}
		case <-treeTimer:
			treeTimer = nil
			w.publish(eventbus.TreeChangedEvent{Dir: treeDir})
		case <-docTimer:
			docTimer = nil
			w.publish(eventbus.DocumentChangedEvent{Path: docPath})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
			w.publish(eventbus.WatchErrorEvent{Err: err})
		}
	}
}

func (w *Watcher) publish(event eventbus.CoreEvent) {
	if err := w.bus.SendToUI(event); err != nil {
		w.logger.Debug("event not delivered", zap.Error(err))
	}
}

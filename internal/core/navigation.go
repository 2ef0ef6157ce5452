package core

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/RoriDocs/internal/markdown"
)

// Shell is what the controller needs from the terminal UI
type Shell interface {
	FocusTree()
	ScrollHome()
}

// LoadedMsg carries the outcome of one load back into the event loop
type LoadedMsg struct {
	Seq  uint64
	Path string
	Doc  *markdown.Document
	Err  error
}

// Controller couples tree selections to document loading. Only the most
// recent selection is ever applied; earlier loads are cancelled and their
// results dropped.
type Controller struct {
	state  navState
	loader Loader
	shell  Shell
	logger *zap.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewController creates a controller in the Idle phase
func NewController(loader Loader, shell Shell, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		loader: loader,
		shell:  shell,
		logger: logger,
	}
}

// Select records path, enters Loading and returns the command that performs
// the load.
func (c *Controller) Select(path string) tea.Cmd {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.seq++
	seq := c.seq
	c.cancel = cancel
	c.mu.Unlock()

	c.state.startLoading(path)
	c.shell.FocusTree()
	c.logger.Debug("document selected", zap.String("path", path), zap.Uint64("seq", seq))

	return func() tea.Msg {
		doc, err := c.loader.Load(ctx, path)
		return LoadedMsg{Seq: seq, Path: path, Doc: doc, Err: err}
	}
}

// Reload selects the current path again. It returns nil when nothing has
// been selected yet.
func (c *Controller) Reload() tea.Cmd {
	path := c.state.snapshot().SelectedPath
	if path == "" {
		return nil
	}
	return c.Select(path)
}

// Complete applies a load result. It reports false for results of a
// superseded selection, which leave the state untouched.
func (c *Controller) Complete(msg LoadedMsg) bool {
	c.mu.Lock()
	if msg.Seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("dropping superseded load", zap.String("path", msg.Path), zap.Uint64("seq", msg.Seq))
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	if msg.Err != nil {
		var navErr *NavigationError
		if !errors.As(msg.Err, &navErr) {
			navErr = &NavigationError{Path: msg.Path, Err: msg.Err}
		}
		c.state.finishError(navErr)
		c.logger.Debug("document load failed", zap.String("path", msg.Path), zap.Error(navErr))
		c.shell.FocusTree()
		return true
	}

	c.state.finishLoaded(msg.Path, msg.Doc)
	c.shell.FocusTree()
	c.shell.ScrollHome()
	return true
}

// State returns a copy of the navigation state
func (c *Controller) State() NavigationState {
	return c.state.snapshot()
}

// Document returns the loaded document and the last load error
func (c *Controller) Document() (*markdown.Document, error) {
	return c.state.current()
}

// Stop cancels any in-flight load
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

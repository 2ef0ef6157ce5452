package mock

import (
	"context"
	"sync"

	"github.com/Rorical/RoriDocs/internal/core"
	"github.com/Rorical/RoriDocs/internal/markdown"
)

var _ core.Loader = (*Loader)(nil)

// Loader is a mock implementation of core.Loader.
type Loader struct {
	LoadFn func(ctx context.Context, path string) (*markdown.Document, error)
}

func (l *Loader) Load(ctx context.Context, path string) (*markdown.Document, error) {
	return l.LoadFn(ctx, path)
}

var _ core.Shell = (*Shell)(nil)

// Shell records the calls the controller makes into the UI.
type Shell struct {
	mu          sync.Mutex
	FocusCalls  int
	ScrollCalls int
}

func (s *Shell) FocusTree() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FocusCalls++
}

func (s *Shell) ScrollHome() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScrollCalls++
}

// Counts returns the recorded focus and scroll calls
func (s *Shell) Counts() (focus, scroll int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.FocusCalls, s.ScrollCalls
}

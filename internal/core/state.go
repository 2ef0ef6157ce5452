package core

import (
	"sync"

	"github.com/Rorical/RoriDocs/internal/markdown"
)

// Phase is the state of the navigation state machine
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorStatus is the status text shown after a failed selection
const ErrorStatus = "ERROR"

// NavigationState is what the session currently shows
type NavigationState struct {
	SelectedPath string
	Phase        Phase
	StatusText   string
}

// navState guards NavigationState and the document it points at
type navState struct {
	mu       sync.RWMutex
	state    NavigationState
	document *markdown.Document
	lastErr  error
}

func (ns *navState) snapshot() NavigationState {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.state
}

func (ns *navState) startLoading(path string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.state.SelectedPath = path
	ns.state.Phase = Loading
}

// Atomic: Loaded phase, status and document change together
func (ns *navState) finishLoaded(path string, doc *markdown.Document) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.state.Phase = Loaded
	ns.state.StatusText = path
	ns.document = doc
	ns.lastErr = nil
}

// finishError keeps the attempted path for display
func (ns *navState) finishError(err error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.state.Phase = Error
	ns.state.StatusText = ErrorStatus
	ns.document = nil
	ns.lastErr = err
}

func (ns *navState) current() (*markdown.Document, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.document, ns.lastErr
}

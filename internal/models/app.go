package models

// Focus names the pane that receives navigation keys
type Focus int

const (
	FocusTree Focus = iota
	FocusContent
)

func (f Focus) String() string {
	if f == FocusContent {
		return "content"
	}
	return "tree"
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	DatasetKey  string // Dataset being browsed
	Status      string // Header subtitle: selected path or ERROR
	Notice      string // Transient footer message
	Loading     bool   // A document load is in flight
	LoadingDots int    // Animation counter for loading dots
	Width       int    // Terminal width
	Height      int    // Terminal height
	Focus       Focus
	ShowTOC     bool
	ShowHelp    bool
}

// Title is the header title for the session
func (m AppModel) Title() string {
	if m.DatasetKey == "" {
		return "RoriDocs"
	}
	return "RoriDocs · " + m.DatasetKey
}

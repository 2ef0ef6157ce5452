package update

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriDocs/internal/core"
	"github.com/Rorical/RoriDocs/internal/eventbus"
	"github.com/Rorical/RoriDocs/internal/models"
)

// Action tells the application what a message requires beyond the UI
// state changes already applied by the handler.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionQuit
	ActionFocusChanged
	ActionRerender
	ActionResize
	ActionScrollTop
	ActionReloadTree
	ActionReloadDocument
)

// HandleKeyMsg applies session-wide keys. Anything else is returned as
// ActionForward for the focused pane.
func HandleKeyMsg(appModel *models.AppModel, keyMsg tea.KeyMsg, keys KeyMap) Action {
	switch {
	case key.Matches(keyMsg, keys.Quit):
		return ActionQuit
	case key.Matches(keyMsg, keys.SwitchFocus):
		if appModel.Focus == models.FocusTree {
			appModel.Focus = models.FocusContent
		} else {
			appModel.Focus = models.FocusTree
		}
		return ActionFocusChanged
	case key.Matches(keyMsg, keys.ToggleTOC):
		appModel.ShowTOC = !appModel.ShowTOC
		return ActionRerender
	case key.Matches(keyMsg, keys.Top):
		return ActionScrollTop
	case key.Matches(keyMsg, keys.Help):
		appModel.ShowHelp = !appModel.ShowHelp
		return ActionRerender
	}
	return ActionForward
}

// HandleCoreEvent maps a background event onto the session. selected is
// the path of the current document, empty when none is open.
func HandleCoreEvent(appModel *models.AppModel, event eventbus.CoreEvent, selected string) Action {
	switch event := event.(type) {
	case eventbus.TreeChangedEvent:
		appModel.Notice = "Updated " + filepath.Base(event.Dir)
		return ActionReloadTree
	case eventbus.DocumentChangedEvent:
		if selected == "" || filepath.Clean(event.Path) != filepath.Clean(selected) {
			return ActionNone
		}
		appModel.Notice = "Reloaded " + filepath.Base(event.Path)
		return ActionReloadDocument
	case eventbus.WatchErrorEvent:
		appModel.Notice = "Watcher: " + event.Err.Error()
	}
	return ActionNone
}

// ApplyNavigationState copies controller state into the UI model
func ApplyNavigationState(appModel *models.AppModel, state core.NavigationState) {
	appModel.Status = state.StatusText
	wasLoading := appModel.Loading
	appModel.Loading = state.Phase == core.Loading
	if appModel.Loading && !wasLoading {
		appModel.LoadingDots = 0
	}
	if appModel.Loading {
		appModel.Notice = "Loading " + filepath.Base(state.SelectedPath)
	} else if state.Phase == core.Loaded || state.Phase == core.Error {
		appModel.Notice = ""
	}
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}

package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriDocs/internal/models"
)

// HandleUpdate applies UI-only messages. Messages it does not know are
// returned as ActionForward.
func HandleUpdate(appModel *models.AppModel, msg tea.Msg, keys KeyMap) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(appModel, msg, keys), nil
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return ActionResize, nil
	case TickMsg:
		return ActionNone, HandleTickMsg(appModel)
	}
	return ActionForward, nil
}

package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Rorical/RoriDocs/internal/config"
	"github.com/Rorical/RoriDocs/internal/core"
	"github.com/Rorical/RoriDocs/internal/dispatcher"
	"github.com/Rorical/RoriDocs/internal/models"
	"github.com/Rorical/RoriDocs/internal/tree"
	"github.com/Rorical/RoriDocs/internal/update"
	"github.com/Rorical/RoriDocs/internal/watch"
	"github.com/Rorical/RoriDocs/ui/components"
	"github.com/Rorical/RoriDocs/ui/styles"
)

const minTreeWidth = 16

// AppModel is the bubbletea model of a session. It is also the Shell the
// navigation controller drives.
type AppModel struct {
	appModel   models.AppModel
	keys       update.KeyMap
	tree       *tree.Model
	viewport   viewport.Model
	help       help.Model
	controller *core.Controller
	dispatcher *dispatcher.EventDispatcher
	watcher    *watch.Watcher
	config     *config.Config
	logger     *zap.Logger
}

var _ core.Shell = (*AppModel)(nil)

func (m *AppModel) FocusTree() {
	m.appModel.Focus = models.FocusTree
	m.tree.Focus()
}

func (m *AppModel) ScrollHome() {
	m.viewport.GotoTop()
}

// UIState returns a copy of the UI state
func (m *AppModel) UIState() models.AppModel {
	return m.appModel
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatcher.CoreEventMsg:
		// Handle core events and continue listening
		cmd := m.handleCoreEvent(msg)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	case tree.FileSelectedMsg:
		cmd := m.controller.Select(msg.Path)
		if m.watcher != nil {
			m.watcher.SetSelected(msg.Path)
		}
		update.ApplyNavigationState(&m.appModel, m.controller.State())
		return m, cmd
	case core.LoadedMsg:
		if m.controller.Complete(msg) {
			update.ApplyNavigationState(&m.appModel, m.controller.State())
			if doc, err := m.controller.Document(); err == nil && doc != nil {
				m.appModel.Notice = doc.Title()
			}
			m.refreshContent()
		}
		return m, nil
	}

	action, cmd := update.HandleUpdate(&m.appModel, msg, m.keys)
	switch action {
	case update.ActionQuit:
		return m, tea.Quit
	case update.ActionFocusChanged:
		if m.appModel.Focus == models.FocusTree {
			m.tree.Focus()
		} else {
			m.tree.Blur()
		}
	case update.ActionResize:
		m.layout()
	case update.ActionRerender:
		m.layout()
	case update.ActionScrollTop:
		m.viewport.GotoTop()
	case update.ActionForward:
		return m, m.forward(msg)
	}
	return m, cmd
}

// forward hands a message to the focused pane
func (m *AppModel) forward(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return nil
	}
	if m.appModel.Focus == models.FocusTree {
		cmd := m.tree.Update(msg)
		m.syncWatcher()
		return cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *AppModel) handleCoreEvent(msg dispatcher.CoreEventMsg) tea.Cmd {
	selected := ""
	if st := m.controller.State(); st.Phase != core.Idle {
		selected = st.SelectedPath
	}

	switch update.HandleCoreEvent(&m.appModel, msg.Event, selected) {
	case update.ActionReloadTree:
		m.tree.Reload()
		m.syncWatcher()
	case update.ActionReloadDocument:
		cmd := m.controller.Reload()
		update.ApplyNavigationState(&m.appModel, m.controller.State())
		return cmd
	}
	return nil
}

func (m *AppModel) syncWatcher() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Sync(m.tree.ExpandedDirs()); err != nil {
		m.logger.Debug("watch folders", zap.Error(err))
	}
}

func (m *AppModel) refreshContent() {
	doc, err := m.controller.Document()
	path := m.controller.State().SelectedPath
	m.viewport.SetContent(components.RenderContent(doc, err, path, m.appModel.ShowTOC, m.viewport.Width))
}

// layout sizes the panes from the terminal size
func (m *AppModel) layout() {
	width, height := m.appModel.Width, m.appModel.Height

	m.help.ShowAll = m.appModel.ShowHelp
	m.help.Width = width
	chrome := 2 + lipgloss.Height(m.help.View(m.keys))
	paneHeight := max(height-chrome-2, 1)

	treeOuter := max(m.config.TreeWidth(width), minTreeWidth)
	if treeOuter > width/2 {
		treeOuter = width / 2
	}
	treeInner := max(treeOuter-2, 1)
	contentInner := max(width-treeOuter-2, 1)

	m.tree.SetSize(treeInner, paneHeight)
	m.viewport.Width = contentInner
	m.viewport.Height = paneHeight
	m.refreshContent()
}

func (m *AppModel) View() string {
	width := m.appModel.Width
	failed := m.controller.State().Phase == core.Error
	focusTree := m.appModel.Focus == models.FocusTree

	header := components.RenderHeader(m.appModel.Title(), m.appModel.Status, failed, width)

	treePane := styles.PaneStyle(m.tree.Width(), m.viewport.Height, focusTree).
		Render(m.tree.View())
	contentPane := styles.PaneStyle(m.viewport.Width, m.viewport.Height, !focusTree).
		Render(m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, treePane, contentPane)

	status := components.RenderStatus(m.appModel.Notice, m.appModel.Loading, m.appModel.LoadingDots, width)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		status,
		m.help.View(m.keys),
	)
}

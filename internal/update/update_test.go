package update_test

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/Rorical/RoriDocs/internal/core"
	"github.com/Rorical/RoriDocs/internal/eventbus"
	"github.com/Rorical/RoriDocs/internal/models"
	"github.com/Rorical/RoriDocs/internal/update"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestHandleKeyMsg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		want   update.Action
		verify func(t *testing.T, m models.AppModel)
	}{
		{name: "q quits", msg: runeKey('q'), want: update.ActionQuit},
		{name: "ctrl+c quits", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, want: update.ActionQuit},
		{
			name: "tab moves focus to content",
			msg:  tea.KeyMsg{Type: tea.KeyTab},
			want: update.ActionFocusChanged,
			verify: func(t *testing.T, m models.AppModel) {
				assert.Equal(t, models.FocusContent, m.Focus)
			},
		},
		{
			name: "t toggles contents",
			msg:  runeKey('t'),
			want: update.ActionRerender,
			verify: func(t *testing.T, m models.AppModel) {
				assert.True(t, m.ShowTOC)
			},
		},
		{name: "g scrolls to top", msg: runeKey('g'), want: update.ActionScrollTop},
		{name: "home scrolls to top", msg: tea.KeyMsg{Type: tea.KeyHome}, want: update.ActionScrollTop},
		{
			name: "? toggles help",
			msg:  runeKey('?'),
			want: update.ActionRerender,
			verify: func(t *testing.T, m models.AppModel) {
				assert.True(t, m.ShowHelp)
			},
		},
		{name: "arrows go to the pane", msg: tea.KeyMsg{Type: tea.KeyDown}, want: update.ActionForward},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := models.AppModel{}
			assert.Equal(t, tc.want, update.HandleKeyMsg(&m, tc.msg, update.DefaultKeyMap))
			if tc.verify != nil {
				tc.verify(t, m)
			}
		})
	}
}

func TestHandleKeyMsg_TabTogglesBack(t *testing.T) {
	t.Parallel()
	m := models.AppModel{Focus: models.FocusContent}

	update.HandleKeyMsg(&m, tea.KeyMsg{Type: tea.KeyTab}, update.DefaultKeyMap)

	assert.Equal(t, models.FocusTree, m.Focus)
}

func TestHandleCoreEvent(t *testing.T) {
	t.Parallel()

	t.Run("tree change reloads tree", func(t *testing.T) {
		t.Parallel()
		m := models.AppModel{}
		action := update.HandleCoreEvent(&m, eventbus.TreeChangedEvent{Dir: "/docs/guides"}, "")
		assert.Equal(t, update.ActionReloadTree, action)
		assert.Equal(t, "Updated guides", m.Notice)
	})

	t.Run("rewrite of open document reloads it", func(t *testing.T) {
		t.Parallel()
		m := models.AppModel{}
		action := update.HandleCoreEvent(&m, eventbus.DocumentChangedEvent{Path: "/docs/a.md"}, "/docs/a.md")
		assert.Equal(t, update.ActionReloadDocument, action)
	})

	t.Run("rewrite of another document is ignored", func(t *testing.T) {
		t.Parallel()
		m := models.AppModel{}
		action := update.HandleCoreEvent(&m, eventbus.DocumentChangedEvent{Path: "/docs/b.md"}, "/docs/a.md")
		assert.Equal(t, update.ActionNone, action)
		assert.Empty(t, m.Notice)
	})

	t.Run("watch error shows a notice", func(t *testing.T) {
		t.Parallel()
		m := models.AppModel{}
		action := update.HandleCoreEvent(&m, eventbus.WatchErrorEvent{Err: errors.New("queue overflow")}, "")
		assert.Equal(t, update.ActionNone, action)
		assert.Equal(t, "Watcher: queue overflow", m.Notice)
	})
}

func TestApplyNavigationState(t *testing.T) {
	t.Parallel()
	m := models.AppModel{LoadingDots: 3}

	update.ApplyNavigationState(&m, core.NavigationState{SelectedPath: "/docs/a.md", Phase: core.Loading})
	assert.True(t, m.Loading)
	assert.Equal(t, 0, m.LoadingDots)
	assert.Equal(t, "Loading a.md", m.Notice)

	update.ApplyNavigationState(&m, core.NavigationState{SelectedPath: "/docs/a.md", Phase: core.Error, StatusText: core.ErrorStatus})
	assert.False(t, m.Loading)
	assert.Equal(t, "ERROR", m.Status)
	assert.Empty(t, m.Notice)
}

func TestHandleUpdate(t *testing.T) {
	t.Parallel()
	m := models.AppModel{Loading: true}

	action, cmd := update.HandleUpdate(&m, tea.WindowSizeMsg{Width: 120, Height: 40}, update.DefaultKeyMap)
	assert.Equal(t, update.ActionResize, action)
	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.Width)
	assert.Equal(t, 40, m.Height)

	action, cmd = update.HandleUpdate(&m, update.TickMsg{}, update.DefaultKeyMap)
	assert.Equal(t, update.ActionNone, action)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.LoadingDots)

	action, _ = update.HandleUpdate(&m, "unknown", update.DefaultKeyMap)
	assert.Equal(t, update.ActionForward, action)
}

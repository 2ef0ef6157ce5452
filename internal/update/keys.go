package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Rorical/RoriDocs/internal/tree"
)

// KeyMap holds the session-wide bindings plus the tree's own, so the footer
// help can show both.
type KeyMap struct {
	Quit        key.Binding
	SwitchFocus key.Binding
	ToggleTOC   key.Binding
	Top         key.Binding
	Help        key.Binding
	Tree        tree.KeyMap
}

var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	SwitchFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch pane"),
	),
	ToggleTOC: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "contents"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Tree: tree.DefaultKeyMap,
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tree.Select, k.SwitchFocus, k.ToggleTOC, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tree.Up, k.Tree.Down, k.Tree.PageUp, k.Tree.PageDown},
		{k.Tree.Expand, k.Tree.Collapse, k.Tree.Select},
		{k.SwitchFocus, k.ToggleTOC, k.Top},
		{k.Help, k.Quit},
	}
}

package tree

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriDocs/ui/styles"
)

// FileSelectedMsg is emitted when the user activates a markdown file.
type FileSelectedMsg struct {
	Path string
}

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Select   key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Expand: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "expand"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "collapse"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "open"),
	),
}

// Model is a lazily loaded directory tree rooted at one folder.
type Model struct {
	KeyMap KeyMap

	root    *Node
	flat    []*Node
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

// New builds a tree rooted at dir with its first level loaded.
func New(dir string) *Model {
	root := &Node{
		Name:  filepath.Base(dir),
		Path:  dir,
		IsDir: true,
		Depth: -1,
	}
	root.expand()

	m := &Model{
		KeyMap:  DefaultKeyMap,
		root:    root,
		focused: true,
	}
	m.rebuild()
	return m
}

func (m *Model) Root() string { return m.root.Path }

// Err reports a failure to list the root folder.
func (m *Model) Err() error { return m.root.Err }

func (m *Model) Focus()        { m.focused = true }
func (m *Model) Blur()         { m.focused = false }
func (m *Model) Focused() bool { return m.focused }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

func (m *Model) Width() int { return m.width }

// Selected returns the node under the cursor, nil for an empty tree.
func (m *Model) Selected() *Node {
	if len(m.flat) == 0 {
		return nil
	}
	return m.flat[m.cursor]
}

// Visible lists the paths of the rows currently shown, in order.
func (m *Model) Visible() []string {
	paths := make([]string, len(m.flat))
	for i, n := range m.flat {
		paths[i] = n.Path
	}
	return paths
}

// ExpandedDirs returns the root and every expanded folder below it.
func (m *Model) ExpandedDirs() []string {
	dirs := []string{m.root.Path}
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.IsDir && c.Expanded {
				dirs = append(dirs, c.Path)
				walk(c)
			}
		}
	}
	walk(m.root)
	return dirs
}

// Update handles key input while the tree has focus.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.KeyMap.Up):
		m.move(-1)
	case key.Matches(keyMsg, m.KeyMap.Down):
		m.move(1)
	case key.Matches(keyMsg, m.KeyMap.PageUp):
		m.move(-m.page())
	case key.Matches(keyMsg, m.KeyMap.PageDown):
		m.move(m.page())
	case key.Matches(keyMsg, m.KeyMap.Expand):
		if n := m.Selected(); n != nil && n.IsDir && !n.Expanded {
			n.expand()
			m.rebuild()
		}
	case key.Matches(keyMsg, m.KeyMap.Collapse):
		m.collapse()
	case key.Matches(keyMsg, m.KeyMap.Select):
		return m.activate()
	}
	return nil
}

func (m *Model) activate() tea.Cmd {
	n := m.Selected()
	if n == nil {
		return nil
	}
	if n.IsDir {
		if n.Expanded {
			n.Expanded = false
		} else {
			n.expand()
		}
		m.rebuild()
		return nil
	}
	path := n.Path
	return func() tea.Msg {
		return FileSelectedMsg{Path: path}
	}
}

func (m *Model) collapse() {
	n := m.Selected()
	if n == nil {
		return
	}
	if n.IsDir && n.Expanded {
		n.Expanded = false
		m.rebuild()
		return
	}
	if n.Parent != nil && n.Parent != m.root {
		n.Parent.Expanded = false
		m.rebuild()
		m.moveTo(n.Parent.Path)
	}
}

// Reload re-reads every loaded folder, keeping expansion and the cursor
// where the entries still exist.
func (m *Model) Reload() {
	var selected string
	if n := m.Selected(); n != nil {
		selected = n.Path
	}
	expanded := make(map[string]bool)
	for _, dir := range m.ExpandedDirs() {
		expanded[dir] = true
	}

	m.root.Loaded = false
	m.root.Err = nil
	m.root.Children = nil
	m.reopen(m.root, expanded)
	m.rebuild()
	m.moveTo(selected)
}

func (m *Model) reopen(n *Node, expanded map[string]bool) {
	n.expand()
	for _, c := range n.Children {
		if c.IsDir && expanded[c.Path] {
			m.reopen(c, expanded)
		}
	}
}

func (m *Model) rebuild() {
	m.flat = m.root.flatten(m.flat[:0])
	if m.cursor >= len(m.flat) {
		m.cursor = len(m.flat) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampOffset()
}

func (m *Model) moveTo(path string) {
	for i, n := range m.flat {
		if n.Path == path {
			m.cursor = i
			m.clampOffset()
			return
		}
	}
}

func (m *Model) move(delta int) {
	if len(m.flat) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.flat) {
		m.cursor = len(m.flat) - 1
	}
	m.clampOffset()
}

func (m *Model) page() int {
	if m.height > 1 {
		return m.height - 1
	}
	return 1
}

// clampOffset keeps the cursor inside the visible window
func (m *Model) clampOffset() {
	if m.height <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if limit := len(m.flat) - m.height; m.offset > limit {
		m.offset = limit
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) View() string {
	if m.root.Err != nil {
		return styles.ErrorStyle().Render("Unable to list " + m.root.Path)
	}
	if len(m.flat) == 0 {
		return styles.PlaceholderStyle().Render("No markdown files")
	}

	end := len(m.flat)
	if m.height > 0 && m.offset+m.height < end {
		end = m.offset + m.height
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.flat[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(n *Node, current bool) string {
	indent := strings.Repeat("  ", n.Depth)

	var marker, label string
	switch {
	case n.IsDir && n.Expanded:
		marker = "▾ "
	case n.IsDir:
		marker = "▸ "
	default:
		marker = "  "
	}
	label = n.Name
	if n.Err != nil {
		label += " (unreadable)"
	}

	row := indent + marker + label
	if m.width > 0 && lipgloss.Width(row) > m.width {
		row = truncate(row, m.width)
	}

	if current {
		return styles.TreeCursorStyle(m.focused).Render(row)
	}
	if n.IsDir {
		return styles.TreeDirStyle().Render(row)
	}
	return styles.TreeFileStyle().Render(row)
}

func truncate(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

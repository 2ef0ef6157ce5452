package tree_test

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriDocs/internal/tree"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// docsFixture lays out:
//
//	guides/setup.md
//	guides/advanced/tuning.md
//	Zeta.md
//	alpha.md
//	notes.txt
//	.hidden/secret.md
//	.draft.md
func docsFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "guides", "setup.md"), "# Setup")
	writeFile(t, filepath.Join(root, "guides", "advanced", "tuning.md"), "# Tuning")
	writeFile(t, filepath.Join(root, "Zeta.md"), "# Zeta")
	writeFile(t, filepath.Join(root, "alpha.md"), "# Alpha")
	writeFile(t, filepath.Join(root, "notes.txt"), "plain")
	writeFile(t, filepath.Join(root, ".hidden", "secret.md"), "# Secret")
	writeFile(t, filepath.Join(root, ".draft.md"), "# Draft")
	return root
}

func keyMsg(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestListDir_FiltersAndSorts(t *testing.T) {
	root := docsFixture(t)

	entries, err := tree.ListDir(root)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"guides", "alpha.md", "Zeta.md"}, names)
	assert.True(t, entries[0].IsDir)
}

func TestListDir_MissingFolder(t *testing.T) {
	_, err := tree.ListDir(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestNew_ShowsFirstLevelOnly(t *testing.T) {
	root := docsFixture(t)

	m := tree.New(root)

	require.NoError(t, m.Err())
	assert.Equal(t, root, m.Root())
	assert.Equal(t, []string{
		filepath.Join(root, "guides"),
		filepath.Join(root, "alpha.md"),
		filepath.Join(root, "Zeta.md"),
	}, m.Visible())
	assert.Equal(t, []string{root}, m.ExpandedDirs())
}

func TestUpdate_ExpandAndCollapse(t *testing.T) {
	root := docsFixture(t)
	guides := filepath.Join(root, "guides")
	m := tree.New(root)

	assert.Nil(t, m.Update(keyMsg(tea.KeyRight)))
	assert.Equal(t, []string{
		guides,
		filepath.Join(guides, "advanced"),
		filepath.Join(guides, "setup.md"),
		filepath.Join(root, "alpha.md"),
		filepath.Join(root, "Zeta.md"),
	}, m.Visible())
	assert.Equal(t, []string{root, guides}, m.ExpandedDirs())

	// collapsing from a child jumps back to its folder
	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyDown))
	require.Equal(t, filepath.Join(guides, "setup.md"), m.Selected().Path)
	m.Update(keyMsg(tea.KeyLeft))

	assert.Equal(t, guides, m.Selected().Path)
	assert.Len(t, m.Visible(), 3)
}

func TestUpdate_SelectFileEmitsMessage(t *testing.T) {
	root := docsFixture(t)
	m := tree.New(root)

	m.Update(keyMsg(tea.KeyDown))
	cmd := m.Update(keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd)

	msg, ok := cmd().(tree.FileSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "alpha.md"), msg.Path)
}

func TestUpdate_SelectFolderToggles(t *testing.T) {
	root := docsFixture(t)
	m := tree.New(root)

	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}))
	assert.Len(t, m.Visible(), 5)

	assert.Nil(t, m.Update(keyMsg(tea.KeyEnter)))
	assert.Len(t, m.Visible(), 3)
}

func TestUpdate_IgnoredWhenBlurred(t *testing.T) {
	root := docsFixture(t)
	m := tree.New(root)
	m.Blur()

	m.Update(keyMsg(tea.KeyDown))
	assert.Nil(t, m.Update(keyMsg(tea.KeyEnter)))
	assert.Equal(t, filepath.Join(root, "guides"), m.Selected().Path)
	assert.False(t, m.Focused())
}

func TestUpdate_CursorStaysInBounds(t *testing.T) {
	root := docsFixture(t)
	m := tree.New(root)
	m.SetSize(20, 2)

	m.Update(keyMsg(tea.KeyUp))
	assert.Equal(t, filepath.Join(root, "guides"), m.Selected().Path)

	for i := 0; i < 10; i++ {
		m.Update(keyMsg(tea.KeyDown))
	}
	assert.Equal(t, filepath.Join(root, "Zeta.md"), m.Selected().Path)
	assert.Contains(t, m.View(), "Zeta.md")
	assert.NotContains(t, m.View(), "guides")
}

func TestReload_KeepsExpansionAndCursor(t *testing.T) {
	root := docsFixture(t)
	guides := filepath.Join(root, "guides")
	m := tree.New(root)

	m.Update(keyMsg(tea.KeyRight))
	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyDown))
	require.Equal(t, filepath.Join(guides, "setup.md"), m.Selected().Path)

	writeFile(t, filepath.Join(guides, "install.md"), "# Install")
	require.NoError(t, os.Remove(filepath.Join(root, "alpha.md")))
	m.Reload()

	assert.Equal(t, []string{
		guides,
		filepath.Join(guides, "advanced"),
		filepath.Join(guides, "install.md"),
		filepath.Join(guides, "setup.md"),
		filepath.Join(root, "Zeta.md"),
	}, m.Visible())
	assert.Equal(t, filepath.Join(guides, "setup.md"), m.Selected().Path)
}

func TestView_MissingRoot(t *testing.T) {
	m := tree.New(filepath.Join(t.TempDir(), "absent"))

	assert.Error(t, m.Err())
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "Unable to list")
}

func TestView_EmptyFolder(t *testing.T) {
	m := tree.New(t.TempDir())

	assert.NoError(t, m.Err())
	assert.Contains(t, m.View(), "No markdown files")
	assert.Nil(t, m.Update(keyMsg(tea.KeyEnter)))
}

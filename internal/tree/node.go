package tree

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Rorical/RoriDocs/internal/core"
)

// Node is one entry of the directory tree
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Depth    int
	Parent   *Node
	Children []*Node
	Expanded bool
	Loaded   bool
	Err      error
}

// ListDir returns the filtered children of dir: directories first, then
// markdown files, each group sorted case-insensitively.
func ListDir(dir string) ([]core.Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]core.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		isDir := de.IsDir()
		// follow symlinks so linked folders stay navigable
		if de.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, de.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, core.Entry{Name: de.Name(), IsDir: isDir})
	}

	entries = core.FilterEntries(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries, nil
}

// load reads the node's children once
func (n *Node) load() {
	if n.Loaded || !n.IsDir {
		return
	}
	n.Loaded = true

	entries, err := ListDir(n.Path)
	if err != nil {
		n.Err = err
		return
	}

	n.Children = make([]*Node, 0, len(entries))
	for _, e := range entries {
		n.Children = append(n.Children, &Node{
			Name:   strings.TrimSuffix(e.Name, "/"),
			Path:   filepath.Join(n.Path, e.Name),
			IsDir:  e.IsDir,
			Depth:  n.Depth + 1,
			Parent: n,
		})
	}
}

func (n *Node) expand() {
	n.load()
	n.Expanded = true
}

// flatten appends the visible descendants of n in display order
func (n *Node) flatten(out []*Node) []*Node {
	for _, c := range n.Children {
		out = append(out, c)
		if c.IsDir && c.Expanded {
			out = c.flatten(out)
		}
	}
	return out
}

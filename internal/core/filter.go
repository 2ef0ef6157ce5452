package core

import (
	"strings"
)

const (
	hiddenPrefix      = "."
	markdownExtension = ".md"
)

// Entry is a directory listing item offered to the tree
type Entry struct {
	Name  string
	IsDir bool
}

// IsMarkdown reports whether name carries the markdown extension
func IsMarkdown(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), markdownExtension)
}

// FilterEntries drops hidden entries and non-markdown files. Directories
// always pass so the tree stays navigable. A trailing "/" on a name also
// marks a directory.
func FilterEntries(entries []Entry) []Entry {
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name, hiddenPrefix) {
			continue
		}
		if e.IsDir || strings.HasSuffix(e.Name, "/") || IsMarkdown(e.Name) {
			result = append(result, e)
		}
	}
	return result
}

// Package markdown parses markdown files with goldmark and renders the
// resulting tree as styled terminal text.
package markdown

import (
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a document's table of contents
type Heading struct {
	Level int
	Text  string
}

// Document is a parsed markdown file
type Document struct {
	Path     string
	Source   []byte
	Headings []Heading
	root     ast.Node
}

func newParser() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
}

// Parse builds a Document from markdown source
func Parse(path string, src []byte) *Document {
	root := newParser().Parser().Parse(text.NewReader(src))

	doc := &Document{Path: path, Source: src, root: root}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		doc.Headings = append(doc.Headings, Heading{Level: h.Level, Text: plainText(h, src)})
		return ast.WalkSkipChildren, nil
	})

	return doc
}

// Title is the first top-level heading, or the file name without extension
func (d *Document) Title() string {
	for _, h := range d.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path))
}

// Render lays the document out for the given width. A width of zero or less
// disables wrapping.
func (d *Document) Render(width int) string {
	r := &renderer{src: d.Source}
	return r.blocks(d.root, width, "\n\n")
}

// RenderTOC renders the headings as an indented outline
func RenderTOC(headings []Heading, width int) string {
	if len(headings) == 0 {
		return DimStyle().Render("(no headings)")
	}

	var b strings.Builder
	b.WriteString(BoldStyle().Render("Contents") + "\n")
	for _, h := range headings {
		line := strings.Repeat("  ", max(h.Level-1, 0)) + "• " + h.Text
		if width > 0 && len([]rune(line)) > width {
			line = string([]rune(line)[:max(width-1, 1)]) + "…"
		}
		b.WriteString(headingStyle(h.Level).UnsetUnderline().Render(line) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// plainText concatenates the text below n without styling
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.URL(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

package components

import (
	"strings"

	"github.com/Rorical/RoriDocs/internal/markdown"
	"github.com/Rorical/RoriDocs/ui/styles"
)

// RenderContent draws the document pane. err takes precedence over doc;
// with neither a placeholder is shown.
func RenderContent(doc *markdown.Document, err error, path string, showTOC bool, width int) string {
	if err != nil {
		return RenderLoadError(path, err, width)
	}
	if doc == nil {
		return styles.PlaceholderStyle().Render("Select a document from the tree")
	}

	var b strings.Builder
	if showTOC {
		b.WriteString(markdown.RenderTOC(doc.Headings, width))
		b.WriteString("\n\n")
	}
	b.WriteString(doc.Render(width))
	return b.String()
}

func RenderLoadError(path string, err error, width int) string {
	style := styles.ErrorStyle()
	if width > 4 {
		style = style.Width(width)
	}
	return style.Render("Unable to load " + path + "\n\n" + err.Error())
}

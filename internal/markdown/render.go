package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

type renderer struct {
	src []byte
}

// blocks renders every child of n and joins them with sep
func (r *renderer) blocks(n ast.Node, width int, sep string) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.block(c, width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func (r *renderer) block(n ast.Node, width int) string {
	switch n := n.(type) {
	case *ast.Heading:
		prefix := ""
		if n.Level > 2 {
			prefix = strings.Repeat("#", n.Level) + " "
		}
		return wrap(headingStyle(n.Level), width).Render(prefix + r.inline(n))
	case *ast.Paragraph, *ast.TextBlock:
		return wrap(lipgloss.NewStyle(), width).Render(r.inline(n))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return CodeBlockStyle().Render(r.lines(n))
	case *ast.HTMLBlock:
		return DimStyle().Render(r.lines(n))
	case *ast.Blockquote:
		return QuoteStyle().Render(r.blocks(n, max(width-2, 0), "\n\n"))
	case *ast.List:
		return r.list(n, width)
	case *ast.ThematicBreak:
		return RuleStyle().Render(strings.Repeat("─", max(width, 3)))
	case *east.Table:
		return r.table(n)
	default:
		return r.blocks(n, width, "\n\n")
	}
}

func (r *renderer) list(l *ast.List, width int) string {
	number := l.Start
	if number == 0 {
		number = 1
	}

	var items []string
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}

		sep := "\n"
		if !l.IsTight {
			sep = "\n\n"
		}
		body := r.blocks(item, max(width-len(marker)-2, 0), sep)
		indent := strings.Repeat(" ", len(marker))
		body = strings.ReplaceAll(body, "\n", "\n"+indent)
		items = append(items, marker+body)
	}
	return ListStyle().Render(strings.Join(items, "\n"))
}

func (r *renderer) table(t *east.Table) string {
	var rows [][]string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.inline(cell))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var lines []string
	for i, row := range rows {
		padded := make([]string, len(row))
		for j, cell := range row {
			padded[j] = cell + strings.Repeat(" ", widths[j]-lipgloss.Width(cell))
		}
		line := strings.Join(padded, " │ ")
		if i == 0 {
			line = TableHeaderStyle().Render(line)
		}
		lines = append(lines, line)
		if i == 0 {
			var rule []string
			for _, w := range widths {
				rule = append(rule, strings.Repeat("─", w))
			}
			lines = append(lines, RuleStyle().Render(strings.Join(rule, "─┼─")))
		}
	}
	return strings.Join(lines, "\n")
}

// lines returns the raw source lines of a code or html block
func (r *renderer) lines(n ast.Node) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(r.src))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *renderer) inline(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(r.src))
			switch {
			case c.HardLineBreak():
				b.WriteByte('\n')
			case c.SoftLineBreak():
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.CodeSpan:
			b.WriteString(InlineCodeStyle().Render(plainText(c, r.src)))
		case *ast.Emphasis:
			style := ItalicStyle()
			if c.Level >= 2 {
				style = BoldStyle()
			}
			b.WriteString(style.Render(r.inline(c)))
		case *ast.Link:
			b.WriteString(LinkStyle().Render(r.inline(c)))
		case *ast.AutoLink:
			b.WriteString(LinkStyle().Render(string(c.URL(r.src))))
		case *ast.Image:
			b.WriteString(DimStyle().Render("[image: " + plainText(c, r.src) + "]"))
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				b.WriteString(DimStyle().Render(string(seg.Value(r.src))))
			}
		case *east.Strikethrough:
			b.WriteString(StrikethroughStyle().Render(r.inline(c)))
		case *east.TaskCheckBox:
			if c.IsChecked {
				b.WriteString("[x] ")
			} else {
				b.WriteString("[ ] ")
			}
		default:
			b.WriteString(r.inline(c))
		}
	}
	return b.String()
}

func wrap(style lipgloss.Style, width int) lipgloss.Style {
	if width > 0 {
		return style.Width(width)
	}
	return style
}

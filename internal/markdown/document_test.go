package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriDocs/internal/markdown"
)

const sample = `# Getting Started

Install the **core** package with ` + "`pip`" + `.

## Configuration

- first item
- second item with [a link](https://example.com)

1. one
2. two

` + "```python\nprint(\"hi\")\n```" + `

> quoted text

| Key | Value |
|-----|-------|
| lang | en |

### Details
`

func TestParse_Headings(t *testing.T) {
	t.Parallel()

	doc := markdown.Parse("docs/start.md", []byte(sample))

	require.Len(t, doc.Headings, 3)
	assert.Equal(t, markdown.Heading{Level: 1, Text: "Getting Started"}, doc.Headings[0])
	assert.Equal(t, markdown.Heading{Level: 2, Text: "Configuration"}, doc.Headings[1])
	assert.Equal(t, markdown.Heading{Level: 3, Text: "Details"}, doc.Headings[2])
	assert.Equal(t, "Getting Started", doc.Title())
}

func TestTitle_FallsBackToFileName(t *testing.T) {
	t.Parallel()

	doc := markdown.Parse("docs/intro.md", []byte("just text"))
	assert.Equal(t, "intro", doc.Title())
}

func TestRender_ContainsContent(t *testing.T) {
	t.Parallel()

	out := markdown.Parse("start.md", []byte(sample)).Render(100)

	for _, want := range []string{
		"Getting Started",
		"core",
		"pip",
		"• first item",
		"a link",
		"1. one",
		"2. two",
		`print("hi")`,
		"quoted text",
		"lang",
		"### Details",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "**core**", "emphasis markers are consumed")
	assert.NotContains(t, out, "```", "fences are consumed")
}

func TestRender_EmptyDocument(t *testing.T) {
	t.Parallel()

	assert.Empty(t, markdown.Parse("empty.md", nil).Render(80))
}

func TestRender_NoWrapWidth(t *testing.T) {
	t.Parallel()

	line := strings.Repeat("word ", 40)
	out := markdown.Parse("long.md", []byte(line)).Render(0)
	assert.Equal(t, 1, strings.Count(out, "\n")+1, "no wrapping without a width")
}

func TestRenderTOC(t *testing.T) {
	t.Parallel()

	toc := markdown.RenderTOC([]markdown.Heading{
		{Level: 1, Text: "Top"},
		{Level: 2, Text: "Child"},
	}, 40)

	assert.Contains(t, toc, "Contents")
	assert.Contains(t, toc, "• Top")
	assert.Contains(t, toc, "  • Child")
	assert.Contains(t, markdown.RenderTOC(nil, 40), "no headings")
}

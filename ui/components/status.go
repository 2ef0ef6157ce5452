package components

import (
	"strings"

	"github.com/Rorical/RoriDocs/ui/styles"
)

func RenderStatus(status string, loading bool, loadingDots int, width int) string {
	statusStyle := styles.StatusStyle(width)

	statusContent := status
	if loading {
		statusContent += strings.Repeat(".", loadingDots)
	}

	return statusStyle.Render(statusContent)
}

// RenderHeader draws the title bar; subtitle is the selected path or ERROR.
func RenderHeader(title, subtitle string, failed bool, width int) string {
	content := title
	if subtitle != "" {
		sub := styles.SubtitleStyle()
		if failed {
			sub = sub.Foreground(styles.ErrorStyle().GetForeground())
		}
		content += "  " + sub.Render(subtitle)
	}
	return styles.HeaderStyle(width).MaxHeight(1).Render(content)
}

package citation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lexbot/internal/styles"
)

// ToggleKey is the key hint shown next to the toggle caption.
const ToggleKey = "ctrl+o"

// Render draws the panel for a terminal of the given width. showHint adds the
// toggle key next to the caption; only the latest message gets it.
func Render(p Panel, width int, showHint bool) string {
	if p.Empty() {
		return ""
	}
	if width < 20 {
		width = 20
	}
	inner := width - 4

	var sb strings.Builder

	if docs := p.Documents(); len(docs) > 0 {
		sb.WriteString(styles.SourcesTitle.Render("Fuentes consultadas:"))
		sb.WriteString("\n")
		badges := make([]string, 0, len(docs))
		for _, d := range docs {
			badges = append(badges, styles.Badge.Render(d))
		}
		sb.WriteString(lipgloss.NewStyle().Width(inner).Render(strings.Join(badges, " ")))
		sb.WriteString("\n\n")
	}

	sb.WriteString(styles.SourcesTitle.Render(fmt.Sprintf("Fuentes verificadas (%d)", p.Total())))
	for _, src := range p.Visible() {
		sb.WriteString("\n")
		sb.WriteString(styles.SourceExcerpt.Width(inner).Render(`"` + src.Content + `"`))
		sb.WriteString("\n")
		sb.WriteString(styles.SourceDocument.Render("  📄 " + src.Document))
	}

	if label := p.ToggleLabel(); label != "" {
		sb.WriteString("\n")
		indicator := "▶ "
		if p.Expanded() {
			indicator = "▼ "
		}
		sb.WriteString(styles.SourceToggle.Render(indicator + label))
		if showHint {
			sb.WriteString(styles.SourceDocument.Render(" (" + ToggleKey + ")"))
		}
	}

	return styles.SourcesBox.Width(width - 2).Render(sb.String())
}

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"lexbot/internal/citation"
	"lexbot/internal/session"
	"lexbot/internal/styles"
)

// markdown caches one glamour renderer per wrap width.
type markdown struct {
	width    int
	renderer *glamour.TermRenderer
}

func (md *markdown) render(content string, width int) string {
	if width < 20 {
		width = 20
	}
	if md.renderer == nil || md.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		md.renderer, md.width = r, width
	}
	out, err := md.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(out)
}

// renderMessage draws one log entry: label, timestamp, body and, for
// assistant answers, the source panel.
func renderMessage(m session.Message, width int, md *markdown, panel citation.Panel, latest bool) string {
	var sb strings.Builder

	stamp := styles.Timestamp.Render(m.CreatedAt.Format("15:04"))
	if m.IsUser() {
		sb.WriteString(styles.UserLabel.Render("Tú") + " " + stamp + "\n")
		sb.WriteString(styles.UserMessage.Width(width - 2).Render(m.Content))
		return sb.String()
	}

	sb.WriteString(styles.AssistantLabel.Render("Asistente Legal") + " " + stamp + "\n")
	if m.Failed {
		sb.WriteString(styles.ErrorMessage.Width(width - 2).Render(m.Content))
		return sb.String()
	}

	sb.WriteString(styles.AssistantMessage.Width(width - 2).Render(md.render(m.Content, width-4)))
	if m.HasSources() {
		sb.WriteString("\n")
		sb.WriteString(citation.Render(panel, width, latest))
	}
	return sb.String()
}

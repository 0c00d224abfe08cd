package toast

import (
	"github.com/charmbracelet/lipgloss"

	"lexbot/internal/session"
	"lexbot/internal/styles"
)

func renderToast(t Toast, maxWidth int) string {
	bg, icon := styles.Success, "✓"
	if t.Notice.Level == session.NoticeError {
		bg, icon = styles.Error, "✗"
	}

	// 60 columns or 80% of the screen, whichever is smaller
	width := 60
	if maxWidth > 0 {
		if w := maxWidth * 8 / 10; w < width {
			width = w
		}
	}
	if width < 20 {
		width = 20
	}

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(styles.White).
		Padding(0, 2).
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(bg)

	body := lipgloss.NewStyle().Bold(true).Render(icon + " " + t.Notice.Title)
	if t.Notice.Description != "" {
		body += "\n" + t.Notice.Description
	}
	if t.Notice.Retry {
		body += "\n" + lipgloss.NewStyle().Italic(true).Render(RetryHint)
	}
	return style.Render(body)
}

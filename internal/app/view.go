package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lexbot/internal/citation"
	"lexbot/internal/session"
	"lexbot/internal/styles"
)

// BannerText is shown while the backend is known to be offline.
const BannerText = "⚠ Backend desconectado. Inicia el servidor y presiona ctrl+r para reintentar."

// View renders the application
func (m Model) View() string {
	if !m.ready {
		return "Iniciando..."
	}

	sections := []string{m.renderHeader(), m.mascot.View()}
	if m.showBanner() {
		sections = append(sections, styles.Banner.Width(m.width-2).Render(BannerText))
	}
	sections = append(sections, m.chat.View())
	if m.toasts.HasToasts() {
		sections = append(sections, m.toasts.View())
	}
	sections = append(sections, m.renderInput(), m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := styles.Header.Render("⚖ Asistente Legal")

	var status string
	switch {
	case !m.state.Checked:
		status = styles.Unknown.Render("○ Verificando conexión...")
	case m.state.Online():
		status = styles.Online.Render("● Conectado")
		if m.state.DocumentsCount > 0 {
			status += styles.Timestamp.Render(fmt.Sprintf(" · %d documentos", m.state.DocumentsCount))
		}
	default:
		status = styles.Offline.Render("● Desconectado")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", status)
}

func (m Model) renderInput() string {
	switch {
	case m.state.InFlight:
		return styles.InputDisabled.Width(m.width - 2).Render("Esperando respuesta... (ctrl+c para cancelar)")
	case m.state.Connectivity != session.ConnectivityOnline:
		return styles.InputDisabled.Width(m.width - 2).Render("Sin conexión con el backend (ctrl+r para reintentar)")
	}
	return styles.InputBorder.Width(m.width - 2).Render(m.input.View())
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.state.InFlight:
		left = styles.StatusBarBusy.Render("Consultando...")
	case m.lastErr != nil:
		left = styles.StatusBarError.Render("Error: " + m.lastErr.Error())
	default:
		left = styles.StatusBar.Render("Listo")
	}

	help := styles.StatusBar.Render("enter: enviar • " + citation.ToggleKey + ": fuentes • ctrl+r: reconectar • ctrl+c: salir")

	spacer := m.width - lipgloss.Width(left) - lipgloss.Width(help)
	if spacer < 0 {
		spacer = 0
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", spacer), help)
}

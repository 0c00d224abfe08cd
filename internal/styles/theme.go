package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#1E40AF")
	Secondary = lipgloss.Color("#06B6D4")
	Accent    = lipgloss.Color("#8B5CF6")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")
	LightGray = lipgloss.Color("#E5E7EB")
	Border    = lipgloss.Color("#374151")

	// Message Styles
	UserMessage = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(White).
			Bold(true)

	UserLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	AssistantMessage = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(LightGray)

	AssistantLabel = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ErrorMessage = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(Error)

	Timestamp = lipgloss.NewStyle().
			Foreground(Muted)

	// Citation Styles
	SourcesTitle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	SourceExcerpt = lipgloss.NewStyle().
			Foreground(LightGray).
			Italic(true).
			PaddingLeft(2)

	SourceDocument = lipgloss.NewStyle().
			Foreground(Muted)

	SourceToggle = lipgloss.NewStyle().
			Foreground(Warning).
			Underline(true)

	Badge = lipgloss.NewStyle().
		Foreground(LightGray).
		Background(Border).
		Padding(0, 1)

	SourcesBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Warning).
			Padding(0, 1)

	// Input Styles
	InputBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputDisabled = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	// Status Bar Styles
	StatusBar = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	StatusBarBusy = lipgloss.NewStyle().
			Foreground(Accent).
			Padding(0, 1)

	StatusBarError = lipgloss.NewStyle().
			Foreground(Error).
			Padding(0, 1)

	// Header
	Header = lipgloss.NewStyle().
		Foreground(White).
		Background(Primary).
		Bold(true).
		Padding(0, 1)

	Online = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Offline = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Unknown = lipgloss.NewStyle().
		Foreground(Muted)

	// Offline banner
	Banner = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(Warning).
		Foreground(Warning).
		Padding(0, 1)

	// Suggested questions in the empty state
	Suggestion = lipgloss.NewStyle().
			Foreground(LightGray).
			PaddingLeft(2)

	SuggestionKey = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

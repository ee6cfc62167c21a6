package browse

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#58a6ff")
	colorMuted  = lipgloss.Color("#8b949e")
	colorBadge  = lipgloss.Color("#d2a8ff")
	colorError  = lipgloss.Color("#f85149")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	badgeStyle = lipgloss.NewStyle().Foreground(colorBadge)

	activeStatusStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#0d1117")).
				Background(colorAccent)

	focusedStatusStyle = lipgloss.NewStyle().Underline(true)

	errorStyle = lipgloss.NewStyle().Foreground(colorError)
)

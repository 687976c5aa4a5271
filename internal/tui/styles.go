package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorMuted  = lipgloss.Color("#888888")
	colorAccent = lipgloss.Color("#7B68EE")
	colorBorder = lipgloss.Color("#444444")
	colorError  = lipgloss.Color("#FF5F5F")
	colorOK     = lipgloss.Color("#5FD75F")
)

// Panel styles
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleDetailPanel = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderTop(true).
				BorderForeground(colorBorder)

	styleModal = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleSearchPrompt = lipgloss.NewStyle().
				Foreground(colorAccent).Bold(true)

	styleLabel = lipgloss.NewStyle().Foreground(colorMuted)

	styleError = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	styleStatus = lipgloss.NewStyle().Foreground(colorOK)

	styleUserTurn = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

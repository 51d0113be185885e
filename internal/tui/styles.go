package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#8A2B5D")).
			Padding(0, 1)

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFD7"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D75F87"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	helpStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
)

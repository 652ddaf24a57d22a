package cli

import "github.com/charmbracelet/lipgloss"

// Terminal styles. lipgloss drops the colours when output is not a TTY.
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	promptStyle  = lipgloss.NewStyle().Bold(true)
)

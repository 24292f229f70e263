package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary = lipgloss.Color("#F4A956") // Orange
	colorText    = lipgloss.Color("#FAFAFA") // White/Light Gray
	colorSubtext = lipgloss.Color("#777777") // Gray
	colorSuccess = lipgloss.Color("#43BF6D") // Green
	colorError   = lipgloss.Color("#FF5F5F") // Red

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtext).
			Padding(0, 1)

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Width(11)

	styleValue = lipgloss.NewStyle().
			Foreground(colorText)

	styleSpeedBar = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFuncOn = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	styleFuncOff = lipgloss.NewStyle().
			Foreground(colorSubtext)

	styleEvent = lipgloss.NewStyle().
			Foreground(colorSubtext)

	styleError = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Padding(0, 1)
)

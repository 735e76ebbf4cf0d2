package tui

import "github.com/charmbracelet/lipgloss"

// palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // accent, borders
	coralPink   = lipgloss.Color("#FFCCCB") // "You:" label
	mintGreen   = lipgloss.Color("#A8E6CF") // saved-file notices
	skyBlue     = lipgloss.Color("#A0C4FF") // "Navigator:" label
	mutedGray   = lipgloss.Color("#6B7280")
	brightWhite = lipgloss.Color("#F9FAFB")
	alertRed    = lipgloss.Color("203")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	userStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	progressStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(alertRed)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorPrimary   = "#7D56F4"
	colorMedia     = "#04B575"
	colorText      = "#F2A33C"
	colorError     = "#FF5555"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
	colorPlayhead  = "#FF79C6"
)

// Styles for the timeline editor
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginTop(1).
			MarginBottom(1)

	MediaTrackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMedia))

	TextTrackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText))

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight)).
			Background(lipgloss.Color(colorPrimary))

	PlayheadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPlayhead))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))
)

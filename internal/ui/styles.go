// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"hubchat/internal/session"
)

var (
	// Colors
	Cyan     = lipgloss.Color("#00FFFF")
	Green    = lipgloss.Color("#00FF00")
	Yellow   = lipgloss.Color("#FFD700")
	Orange   = lipgloss.Color("#FFA500")
	Red      = lipgloss.Color("#FF6B6B")
	Magenta  = lipgloss.Color("#FF00FF")
	SkyBlue  = lipgloss.Color("#87CEEB")
	Dim      = lipgloss.Color("#555555")
	White    = lipgloss.Color("#FFFFFF")
	DarkGray = lipgloss.Color("#333333")

	// Author colors
	UserColor      = SkyBlue
	AssistantColor = Cyan
	SystemColor    = Yellow

	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	UserStyle = lipgloss.NewStyle().
			Foreground(SkyBlue).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	SystemStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(Dim)

	LabelBarStyle = lipgloss.NewStyle().
			Foreground(Green)

	// Status indicators
	StatusOK   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	StatusWarn = lipgloss.NewStyle().Foreground(Orange).Bold(true)
	StatusCrit = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

// RoleStyle returns the style for a transcript author.
func RoleStyle(role session.Role) lipgloss.Style {
	switch role {
	case session.RoleUser:
		return UserStyle
	case session.RoleAssistant:
		return AssistantStyle
	default:
		return lipgloss.NewStyle().Foreground(White)
	}
}

// FormatRole returns the display name for a transcript author.
func FormatRole(role session.Role) string {
	switch role {
	case session.RoleUser:
		return "You"
	case session.RoleAssistant:
		return "Assistant"
	default:
		return string(role)
	}
}

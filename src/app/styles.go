package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
)

// AppStyles contains all styling for the root view.
type AppStyles struct {
	headerStyle    lipgloss.Style
	tabStyle       lipgloss.Style
	activeTabStyle lipgloss.Style
	sidebarStyle   lipgloss.Style
	contentStyle   lipgloss.Style
	footerStyle    lipgloss.Style
	bannerStyle    lipgloss.Style

	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	mutedStyle   lipgloss.Style
}

func NewAppStyles() *AppStyles {
	return &AppStyles{
		headerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1),

		tabStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 2),

		activeTabStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Background(lipgloss.Color("236")).
			Bold(true).
			Padding(0, 2),

		sidebarStyle: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("240")),

		contentStyle: lipgloss.NewStyle().
			Padding(0, 1),

		footerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),

		bannerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),

		mutedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// banner renders the program name in ASCII art.
func banner() string {
	art := figure.NewFigure("kaas", "small", true).String()
	return strings.Trim(art, "\n")
}

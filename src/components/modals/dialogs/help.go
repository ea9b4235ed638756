// help.go - HelpModal for showing key bindings in a dialog.

package dialogs

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal displays static help text. Any key closes it.
type HelpModal struct {
	Title     string
	Lines     []string
	CloseSelf func()
}

func (m *HelpModal) Update(msg tea.KeyMsg) tea.Cmd {
	if m.CloseSelf != nil {
		m.CloseSelf()
	}
	return nil
}

func (m *HelpModal) ViewRegion(regionWidth, regionHeight int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render(m.Title)
	body := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Render(strings.Join(m.Lines, "\n"))
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("press any key to close")
	content := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("245")).
		Padding(1, 2).
		Render(title + "\n\n" + body + "\n\n" + hint)
	return lipgloss.Place(regionWidth, regionHeight, lipgloss.Center, lipgloss.Center, content)
}

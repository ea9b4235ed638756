// menu.go - MenuModal for picking one entry from a vertical list.

package dialogs

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuModal is a reusable modal for displaying a menu with options.
type MenuModal struct {
	Title     string
	Options   []string
	Selected  int
	OnSelect  func(index int) tea.Cmd
	CloseSelf func()
}

// Update handles up/down to navigate, enter to select, esc to close.
func (m *MenuModal) Update(msg tea.KeyMsg) tea.Cmd {
	if len(m.Options) == 0 {
		m.close()
		return nil
	}
	switch msg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		} else {
			m.Selected = len(m.Options) - 1
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		} else {
			m.Selected = 0
		}
	case "enter":
		m.close()
		if m.OnSelect != nil {
			return m.OnSelect(m.Selected)
		}
	case "esc":
		m.close()
	}
	return nil
}

func (m *MenuModal) close() {
	if m.CloseSelf != nil {
		m.CloseSelf()
	}
}

// ViewRegion renders the menu centered in the given region. The title is
// shown above and the selected option is highlighted.
func (m *MenuModal) ViewRegion(regionWidth, regionHeight int) string {
	title := lipgloss.NewStyle().Bold(true).Render(m.Title)
	var opts string
	for i, opt := range m.Options {
		style := lipgloss.NewStyle().Padding(0, 2)
		if i == m.Selected {
			style = style.Bold(true).Foreground(lipgloss.Color("33")).Background(lipgloss.Color("236"))
		}
		opts += style.Render(opt) + "\n"
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("245")).
		Padding(1, 2).
		Render(title + "\n\n" + opts)
	return lipgloss.Place(regionWidth, regionHeight, lipgloss.Center, lipgloss.Center, box)
}

// confirmation.go - ConfirmationModal for yes/no style dialogs with 1-3 options.
// Left/right changes the selection, enter runs it, esc cancels.

package dialogs

import (
	"kaas/src/components/modals"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationModal is a reusable modal for confirmation dialogs (1-3 options).
type ConfirmationModal struct {
	modals.BaseModal
}

// NewConfirmationModal creates a ConfirmationModal with the given message, options, and closeSelf callback.
func NewConfirmationModal(message string, options []modals.ModalOption, closeSelf modals.CloseSelfFunc) *ConfirmationModal {
	if len(options) < 1 || len(options) > 3 {
		panic("ConfirmationModal must have 1-3 options")
	}
	return &ConfirmationModal{
		BaseModal: modals.BaseModal{
			Message:   message,
			Options:   options,
			CloseSelf: closeSelf,
		},
	}
}

// NewYesNoModal builds the common two-button form. No is selected first so
// a stray enter never triggers onYes.
func NewYesNoModal(message string, onYes func() tea.Cmd, closeSelf modals.CloseSelfFunc) *ConfirmationModal {
	m := NewConfirmationModal(message, []modals.ModalOption{
		{Label: "Yes", OnSelect: onYes},
		{Label: "No", OnSelect: func() tea.Cmd { return nil }},
	}, closeSelf)
	m.Selected = 1
	return m
}

func (m *ConfirmationModal) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "shift+tab":
		m.Selected = (m.Selected + len(m.Options) - 1) % len(m.Options)
	case "right", "tab":
		m.Selected = (m.Selected + 1) % len(m.Options)
	case "y", "Y":
		return m.choose("Yes")
	case "n", "N":
		return m.choose("No")
	case "enter":
		opt, ok := m.SelectedOption()
		if !ok {
			return nil
		}
		m.Close()
		if opt.OnSelect != nil {
			return opt.OnSelect()
		}
	case "esc":
		m.Close()
	}
	return nil
}

// choose selects the option with the given label, if present.
func (m *ConfirmationModal) choose(label string) tea.Cmd {
	for i, opt := range m.Options {
		if opt.Label == label {
			m.Selected = i
			return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		}
	}
	return nil
}

func (m *ConfirmationModal) ViewRegion(regionWidth, regionHeight int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("245")).
		Padding(1, 4).
		Align(lipgloss.Center)
	if regionWidth > 20 {
		boxStyle = boxStyle.MaxWidth(regionWidth - 4)
	}

	msg := lipgloss.NewStyle().Bold(true).Width(min(60, max(20, regionWidth-16))).Align(lipgloss.Center).Render(m.Message)
	var opts string
	for i, opt := range m.Options {
		style := lipgloss.NewStyle().Padding(0, 2)
		if i == m.Selected {
			style = style.Bold(true).Foreground(lipgloss.Color("33")).Background(lipgloss.Color("236"))
		}
		opts += style.Render(opt.Label)
	}
	box := boxStyle.Render(msg + "\n\n" + opts)
	return lipgloss.Place(regionWidth, regionHeight, lipgloss.Center, lipgloss.Center, box)
}

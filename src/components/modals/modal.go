// modal.go - Shared building blocks for modal dialogs.

package modals

import tea "github.com/charmbracelet/bubbletea"

// CloseSelfFunc dismisses the modal that owns it.
type CloseSelfFunc func()

// ModalOption is one selectable button. OnSelect may return a command for
// the program to run, or nil.
type ModalOption struct {
	Label    string
	OnSelect func() tea.Cmd
}

// BaseModal holds the state common to every modal.
type BaseModal struct {
	Message   string
	Options   []ModalOption
	CloseSelf CloseSelfFunc
	Selected  int
}

// SelectedOption returns the highlighted option, if any.
func (b *BaseModal) SelectedOption() (ModalOption, bool) {
	if b.Selected < 0 || b.Selected >= len(b.Options) {
		return ModalOption{}, false
	}
	return b.Options[b.Selected], true
}

// Close calls CloseSelf when set.
func (b *BaseModal) Close() {
	if b.CloseSelf != nil {
		b.CloseSelf()
	}
}

// Modal is a dialog drawn over the active view. It receives every key
// while open.
type Modal interface {
	Update(msg tea.KeyMsg) tea.Cmd
	ViewRegion(regionWidth, regionHeight int) string
}

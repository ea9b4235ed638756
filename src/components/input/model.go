// model.go - Single-line text input shared by the upload and chat views.

package input

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InputModel is a single-line editor with a cursor. It only consumes key
// messages; submission keys such as enter are left to the owning view.
type InputModel struct {
	Placeholder string
	Disabled    bool

	value  []rune
	cursor int

	// paste reads the clipboard; swapped in tests.
	paste func() (string, error)
}

func New(placeholder string) *InputModel {
	return &InputModel{Placeholder: placeholder, paste: clipboard.ReadAll}
}

// Value returns the current text.
func (m *InputModel) Value() string { return string(m.value) }

// SetValue replaces the text and moves the cursor to the end.
func (m *InputModel) SetValue(s string) {
	m.value = []rune(s)
	m.cursor = len(m.value)
}

// Reset clears the text.
func (m *InputModel) Reset() {
	m.value = nil
	m.cursor = 0
}

// Cursor returns the cursor position in runes.
func (m *InputModel) Cursor() int { return m.cursor }

// Update applies an editing key and reports whether it was consumed.
func (m *InputModel) Update(msg tea.KeyMsg) bool {
	if m.Disabled {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		m.insert(msg.Runes)
		return true
	case tea.KeySpace:
		m.insert([]rune{' '})
		return true
	}

	switch msg.String() {
	case "backspace", "ctrl+h":
		if m.cursor > 0 {
			m.value = append(m.value[:m.cursor-1], m.value[m.cursor:]...)
			m.cursor--
		}
	case "delete", "ctrl+d":
		if m.cursor < len(m.value) {
			m.value = append(m.value[:m.cursor], m.value[m.cursor+1:]...)
		}
	case "left", "ctrl+b":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right":
		if m.cursor < len(m.value) {
			m.cursor++
		}
	case "home", "ctrl+a":
		m.cursor = 0
	case "end", "ctrl+e":
		m.cursor = len(m.value)
	case "ctrl+u":
		m.value = m.value[m.cursor:]
		m.cursor = 0
	case "ctrl+k":
		m.value = m.value[:m.cursor]
	case "ctrl+v":
		if m.paste == nil {
			return true
		}
		if text, err := m.paste(); err == nil && text != "" {
			m.insert([]rune(text))
		}
	default:
		return false
	}
	return true
}

func (m *InputModel) insert(rs []rune) {
	// single-line: newlines from pasted text become spaces
	clean := make([]rune, 0, len(rs))
	for _, r := range rs {
		if r == '\n' || r == '\r' {
			r = ' '
		}
		clean = append(clean, r)
	}
	tail := append([]rune{}, m.value[m.cursor:]...)
	m.value = append(append(m.value[:m.cursor], clean...), tail...)
	m.cursor += len(clean)
}

var (
	inputBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	disabledBoxStyle = inputBoxStyle.BorderForeground(lipgloss.Color("240"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	cursorStyle      = lipgloss.NewStyle().Reverse(true)
)

// View renders the input box at the given outer width.
func (m *InputModel) View(width int) string {
	box := inputBoxStyle
	if m.Disabled {
		box = disabledBoxStyle
	}
	if width > 4 {
		box = box.Width(width - 2)
	}

	if len(m.value) == 0 {
		if m.Disabled {
			return box.Render(placeholderStyle.Render(m.Placeholder))
		}
		return box.Render(cursorStyle.Render(" ") + placeholderStyle.Render(m.Placeholder))
	}

	before := string(m.value[:m.cursor])
	if m.Disabled {
		return box.Render(string(m.value))
	}
	if m.cursor >= len(m.value) {
		return box.Render(before + cursorStyle.Render(" "))
	}
	return box.Render(before + cursorStyle.Render(string(m.value[m.cursor])) + string(m.value[m.cursor+1:]))
}

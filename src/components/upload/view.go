package upload

import (
	"fmt"
	"strings"

	"kaas/src/components/spinner"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	hintStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	successStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	buttonStyle         = lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("33"))
	disabledButtonStyle = buttonStyle.Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236"))
)

// View renders the upload tab at the given width.
func (m *UploadModel) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Upload a Document") + "\n")
	b.WriteString(hintStyle.Render("Supported formats: "+strings.Join(m.cfg.AllowedExtensions, ", ")) + "\n\n")
	b.WriteString(m.Input.View(min(width, 72)) + "\n")

	if m.selected != nil {
		b.WriteString(selectedStyle.Render(fmt.Sprintf("Selected: %s (%s)", m.selected.Name, formatBytes(int64(len(m.selected.Content))))) + "\n")
	} else {
		b.WriteString(hintStyle.Render("No file selected") + "\n")
	}
	b.WriteString("\n")

	if m.Busy() {
		b.WriteString(disabledButtonStyle.Render(spinner.Frame(m.spinner)+" Uploading...") + "\n")
	} else {
		b.WriteString(buttonStyle.Render("Upload (ctrl+u)") + "\n")
	}

	if m.message != "" {
		style := successStyle
		if m.isError {
			style = errorStyle
		}
		b.WriteString("\n" + style.Width(max(width, 20)).Render(m.message) + "\n")
	}
	return b.String()
}

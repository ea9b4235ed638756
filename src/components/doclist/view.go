package doclist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	docStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	overflowText = "… and %d more"
)

// View renders the snapshot. Documents keep the order they were given in;
// when they do not fit, the tail is summarized on the last line.
func (d *DocListModel) View(s Snapshot) string {
	var b strings.Builder
	pad := "  "
	inner := max(d.Width-4, 4)

	b.WriteString(pad + titleStyle.Render("Documents") + "\n")
	b.WriteString(pad + hintStyle.Render("ctrl+r refresh") + "\n")
	b.WriteString(pad + strings.Repeat("-", inner) + "\n")

	switch {
	case s.Loading:
		b.WriteString(pad + mutedStyle.Render(LoadingText) + "\n")
	case s.Err != "":
		b.WriteString(pad + errorStyle.Width(inner).Render(s.Err) + "\n")
	case len(s.Docs) == 0:
		b.WriteString(pad + mutedStyle.Width(inner).Render(EmptyText) + "\n")
	default:
		// three header lines are already used
		room := d.Height - 3
		if room < 1 {
			room = 1
		}
		shown := s.Docs
		hidden := 0
		if len(shown) > room {
			hidden = len(shown) - (room - 1)
			shown = shown[:room-1]
		}
		for _, doc := range shown {
			b.WriteString(pad + docStyle.Render(truncate(doc.Filename, inner)) + "\n")
		}
		if hidden > 0 {
			b.WriteString(pad + mutedStyle.Render(fmt.Sprintf(overflowText, hidden)) + "\n")
		}
	}
	return b.String()
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

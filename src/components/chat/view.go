package chat

import (
	"fmt"
	"strings"

	"kaas/src/components/spinner"
	"kaas/src/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-wordwrap"
)

var (
	userTagStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			Background(lipgloss.Color("15")).
			Padding(0, 1)

	assistantTagStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("129")).
				Background(lipgloss.Color("15")).
				Padding(0, 1)

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	filterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	snippetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// header, input box and status line
const chromeHeight = 2 + 3 + 1

func (m *ChatModel) viewportHeight() int {
	return max(m.height-chromeHeight, 3)
}

func (m *ChatModel) textWidth() int {
	return max(m.width, 20)
}

// maxScroll is the largest scroll offset that still fills the viewport.
func (m *ChatModel) maxScroll() int {
	return max(len(m.conversationLines(m.textWidth()))-m.viewportHeight(), 0)
}

func (m *ChatModel) scrollBy(lines int) {
	m.scroll = min(max(m.scroll+lines, 0), m.maxScroll())
}

// View renders the chat tab into the size set with SetSize.
func (m *ChatModel) View() string {
	width := m.textWidth()
	header := headerStyle.Render("Ask about your documents") + "  " +
		filterStyle.Render("Filter: "+m.filter.Label()) + mutedStyle.Render("  (ctrl+f)")
	header = lipgloss.NewStyle().MaxWidth(width).Render(header)

	body := m.renderConversation(width, m.viewportHeight())
	status := m.status
	if m.inFlight {
		status = spinner.Frame(m.spinner) + " Waiting for answer"
	}

	return strings.Join([]string{
		header,
		"",
		body,
		m.Input.View(width),
		statusStyle.Render(status),
	}, "\n")
}

// renderConversation lays out every turn, then cuts the viewport out of
// the resulting lines according to the scroll position.
func (m *ChatModel) renderConversation(width, height int) string {
	lines := m.conversationLines(width)
	if len(lines) == 0 {
		placeholder := mutedStyle.Render("Ask a question to get started.")
		return lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center).Render(placeholder)
	}

	end := len(lines) - min(m.scroll, max(len(lines)-height, 0))
	start := max(end-height, 0)
	visible := lines[start:end]
	for len(visible) < height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

func (m *ChatModel) conversationLines(width int) []string {
	var lines []string
	textWidth := uint(max(width-2, 10))
	for _, turn := range m.history {
		lines = append(lines, renderTurn(turn, textWidth)...)
		lines = append(lines, "")
	}
	if m.inFlight {
		lines = append(lines, assistantTagStyle.Render("Assistant"))
		lines = append(lines, "  "+mutedStyle.Render(spinner.Frame(m.spinner)+" "+ThinkingText))
	}
	return lines
}

func renderTurn(turn models.Turn, width uint) []string {
	var lines []string
	if turn.IsUser() {
		lines = append(lines, userTagStyle.Render("You"))
	} else {
		lines = append(lines, assistantTagStyle.Render("Assistant"))
	}

	textStyle := lipgloss.NewStyle()
	if !turn.IsUser() && strings.HasPrefix(turn.Text, "Error: ") {
		textStyle = errorStyle
	}
	for _, l := range strings.Split(wordwrap.WrapString(turn.Text, width), "\n") {
		lines = append(lines, "  "+textStyle.Render(l))
	}

	if len(turn.Sources) == 0 {
		return lines
	}
	lines = append(lines, "  "+sourceStyle.Bold(true).Render("Sources:"))
	for _, src := range turn.Sources {
		lines = append(lines, "  "+sourceStyle.Render("• "+SourceLabel(src)))
		snippet := SourceSnippet(src)
		if snippet == "" {
			continue
		}
		for _, l := range strings.Split(wordwrap.WrapString(snippet, width-4), "\n") {
			lines = append(lines, "    "+snippetStyle.Render(l))
		}
	}
	return lines
}

// SourceLabel formats a citation as "filename (chunk: n)".
func SourceLabel(src models.Source) string {
	return fmt.Sprintf("%s (chunk: %d)", src.Filename, src.ChunkIndex)
}

// SourceSnippet returns the snippet on a single line.
func SourceSnippet(src models.Source) string {
	return strings.Join(strings.Fields(src.Snippet), " ")
}

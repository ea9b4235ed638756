// model.go - ChatModel, the chat tab: conversation history, question input and document filter.

package chat

import (
	"context"
	"log/slog"
	"strings"

	"kaas/src/components/input"
	"kaas/src/components/spinner"
	"kaas/src/logging"
	"kaas/src/models"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	AnswerFallbackError = "Failed to get an answer."
	ThinkingText        = "Thinking..."
)

// Querier is the part of the API client the chat view needs.
type Querier interface {
	Query(ctx context.Context, question string, filename *string, k int) (*models.QueryResult, error)
}

// FilterMenuRequestMsg asks the root view to open the filter picker.
type FilterMenuRequestMsg struct {
	Options  []string
	Selected int
}

// FilterSelectedMsg carries the label picked in the filter menu.
type FilterSelectedMsg struct {
	Label string
}

type queryResultMsg struct {
	owner  int64
	result *models.QueryResult
	err    error
}

// ChatModel lives for the whole program so the history survives tab
// switches. At most one query is in flight at a time.
type ChatModel struct {
	id     int64
	ctx    context.Context
	cancel context.CancelFunc

	client Querier
	k      int
	logger *slog.Logger
	Input  *input.InputModel

	history  []models.Turn
	docs     []models.Document
	filter   models.Filter
	inFlight bool
	spinner  int
	status   string

	width  int
	height int
	// scroll counts lines hidden below the viewport; 0 follows the tail.
	scroll int

	// copyText writes to the system clipboard; swapped in tests.
	copyText func(string) error
}

// New creates the chat view. k is the number of chunks requested per query.
func New(client Querier, k int, logger *slog.Logger) *ChatModel {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChatModel{
		id:       spinner.NewOwner(),
		ctx:      ctx,
		cancel:   cancel,
		client:   client,
		k:        k,
		logger:   logging.Component(logger, "chat"),
		Input:    input.New("Ask a question about your documents..."),
		width:    80,
		height:   24,
		copyText: clipboard.WriteAll,
	}
}

// Close cancels a query still in flight.
func (m *ChatModel) Close() { m.cancel() }

// History returns a copy of the conversation so far.
func (m *ChatModel) History() []models.Turn {
	return append([]models.Turn(nil), m.history...)
}

func (m *ChatModel) Filter() models.Filter { return m.filter }

func (m *ChatModel) InFlight() bool { return m.inFlight }

// Status returns the transient status line.
func (m *ChatModel) Status() string { return m.status }

func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scroll = min(m.scroll, m.maxScroll())
}

// SetDocuments replaces the known documents. A filter pointing at a
// filename that is no longer listed falls back to all documents.
func (m *ChatModel) SetDocuments(docs []models.Document) {
	m.docs = docs
	if !m.filter.ContainedIn(docs) {
		m.logger.Info("filter reset, document no longer listed", "filename", m.filter.Filename())
		m.filter = models.AllDocuments()
	}
}

// FilterOptions lists the selector labels: all documents first, then one
// per distinct filename in list order.
func (m *ChatModel) FilterOptions() []string {
	opts := []string{models.AllDocumentsLabel}
	seen := map[string]bool{}
	for _, d := range m.docs {
		if seen[d.Filename] {
			continue
		}
		seen[d.Filename] = true
		opts = append(opts, d.Filename)
	}
	return opts
}

// SelectFilter applies a selector label. Unknown labels select all
// documents.
func (m *ChatModel) SelectFilter(label string) {
	f := models.ForDocument(label)
	if label == models.AllDocumentsLabel || label == "" || !f.ContainedIn(m.docs) {
		f = models.AllDocuments()
	}
	m.filter = f
}

func (m *ChatModel) Init() tea.Cmd { return nil }

func (m *ChatModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case queryResultMsg:
		m.handleResult(msg)
	case FilterSelectedMsg:
		m.SelectFilter(msg.Label)
	case spinner.TickMsg:
		if msg.Owner == m.id && m.inFlight {
			m.spinner++
			return spinner.Tick(m.id)
		}
	}
	return nil
}

func (m *ChatModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.Submit()
	case "ctrl+f":
		return m.filterMenu()
	case "ctrl+y":
		m.copyLastAnswer()
		return nil
	case "up":
		m.scrollBy(1)
		return nil
	case "down":
		m.scrollBy(-1)
		return nil
	case "pgup":
		m.scrollBy(m.viewportHeight() / 2)
		return nil
	case "pgdown":
		m.scrollBy(-m.viewportHeight() / 2)
		return nil
	}
	m.Input.Update(msg)
	return nil
}

// Submit sends the input as a question using the filter selected right
// now. Empty input and a query already in flight are ignored.
func (m *ChatModel) Submit() tea.Cmd {
	question := strings.TrimSpace(m.Input.Value())
	if question == "" || m.inFlight {
		return nil
	}

	m.history = append(m.history, models.UserTurn(question))
	m.Input.Reset()
	m.inFlight = true
	m.spinner = 0
	m.scroll = 0
	m.status = ""

	ctx, client, k, owner := m.ctx, m.client, m.k, m.id
	filename := m.filter.Param()
	m.logger.Debug("query submitted", "filter", m.filter.Label(), "k", k)
	return tea.Batch(
		func() tea.Msg {
			result, err := client.Query(ctx, question, filename, k)
			return queryResultMsg{owner: owner, result: result, err: err}
		},
		spinner.Tick(m.id),
	)
}

func (m *ChatModel) handleResult(msg queryResultMsg) {
	if msg.owner != m.id || !m.inFlight {
		return
	}
	m.inFlight = false
	m.scroll = 0

	if msg.err != nil {
		m.logger.Warn("query failed", "error", msg.err)
		m.history = append(m.history, models.AssistantTurn("Error: "+models.UserMessage(msg.err, AnswerFallbackError), nil))
		return
	}
	m.logger.Debug("answer received", "sources", len(msg.result.Sources))
	m.history = append(m.history, models.AssistantTurn(msg.result.Answer, msg.result.Sources))
}

func (m *ChatModel) filterMenu() tea.Cmd {
	opts := m.FilterOptions()
	selected := 0
	for i, o := range opts {
		if o == m.filter.Label() {
			selected = i
		}
	}
	return func() tea.Msg {
		return FilterMenuRequestMsg{Options: opts, Selected: selected}
	}
}

func (m *ChatModel) copyLastAnswer() {
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].IsUser() {
			continue
		}
		if err := m.copyText(m.history[i].Text); err != nil {
			m.logger.Warn("clipboard write failed", "error", err)
			m.status = "Clipboard unavailable."
			return
		}
		m.status = "Copied last answer to clipboard."
		return
	}
	m.status = "Nothing to copy yet."
}

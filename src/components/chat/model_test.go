package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"kaas/src/components/spinner"
	"kaas/src/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryCall struct {
	question string
	filename *string
	k        int
}

type fakeQuerier struct {
	mu      sync.Mutex
	calls   []queryCall
	results []*models.QueryResult
	errs    []error
}

func (f *fakeQuerier) Query(_ context.Context, question string, filename *string, k int) (*models.QueryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.calls)
	f.calls = append(f.calls, queryCall{question, filename, k})
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return &models.QueryResult{Answer: "ok", Sources: []models.Source{}}, nil
}

// collect runs cmd and flattens batches into their messages. Spinner ticks
// are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return nil
	}
	return []tea.Msg{msg}
}

// ask types question, submits it and returns the pending result message.
func ask(t *testing.T, m *ChatModel, question string) tea.Msg {
	t.Helper()
	m.Input.SetValue(question)
	msgs := collect(m.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Len(t, msgs, 1)
	return msgs[0]
}

func TestChat_HistoryOrder(t *testing.T) {
	f := &fakeQuerier{results: []*models.QueryResult{
		{Answer: "first answer", Sources: []models.Source{{Filename: "a.pdf", ChunkIndex: 2}}},
		{Answer: "second answer", Sources: []models.Source{}},
	}}
	m := New(f, 7, nil)

	m.Update(ask(t, m, "q1"))
	m.Update(ask(t, m, "q2"))

	h := m.History()
	require.Len(t, h, 4)
	assert.Equal(t, models.UserTurn("q1"), h[0])
	assert.Equal(t, "first answer", h[1].Text)
	assert.Equal(t, []models.Source{{Filename: "a.pdf", ChunkIndex: 2}}, h[1].Sources)
	assert.Equal(t, models.UserTurn("q2"), h[2])
	assert.Equal(t, "second answer", h[3].Text)
	assert.False(t, m.InFlight())
}

func TestChat_SecondSubmitWhileInFlight(t *testing.T) {
	f := &fakeQuerier{}
	m := New(f, 7, nil)

	m.Input.SetValue("first")
	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.InFlight())
	assert.Empty(t, m.Input.Value())

	m.Input.SetValue("second")
	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "second", m.Input.Value())
	assert.Len(t, m.History(), 1)

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	m.Update(msgs[0])

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Len(t, f.calls, 1)
}

func TestChat_EmptyQuestionIgnored(t *testing.T) {
	f := &fakeQuerier{}
	m := New(f, 7, nil)

	m.Input.SetValue("   ")
	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Empty(t, m.History())
	assert.False(t, m.InFlight())
}

func TestChat_ErrorTurn(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail", &models.APIError{Op: "query", Status: 500, Detail: "LLM offline"}, "Error: LLM offline"},
		{"no detail", &models.APIError{Op: "query", Status: 502}, "Error: Failed to get an answer."},
		{"transport", &models.TransportError{Op: "query", Err: errors.New("connection refused")}, "Error: Failed to get an answer."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(&fakeQuerier{errs: []error{tt.err}}, 7, nil)
			m.Update(ask(t, m, "why?"))

			h := m.History()
			require.Len(t, h, 2)
			assert.Equal(t, models.SenderAssistant, h[1].Sender)
			assert.Equal(t, tt.want, h[1].Text)
			assert.NotNil(t, h[1].Sources)
			assert.Empty(t, h[1].Sources)
			assert.False(t, m.InFlight())
		})
	}
}

func TestChat_FilterScopesQuery(t *testing.T) {
	f := &fakeQuerier{}
	m := New(f, 7, nil)
	m.SetDocuments([]models.Document{{ID: "1", Filename: "report.pdf"}, {ID: "2", Filename: "notes.txt"}})

	m.Update(ask(t, m, "all docs"))

	m.Update(FilterSelectedMsg{Label: "report.pdf"})
	assert.Equal(t, "report.pdf", m.Filter().Label())
	m.Update(ask(t, m, "scoped"))

	m.Update(FilterSelectedMsg{Label: models.AllDocumentsLabel})
	m.Update(ask(t, m, "all again"))

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.calls, 3)
	assert.Nil(t, f.calls[0].filename)
	require.NotNil(t, f.calls[1].filename)
	assert.Equal(t, "report.pdf", *f.calls[1].filename)
	assert.Nil(t, f.calls[2].filename)
	for _, c := range f.calls {
		assert.Equal(t, 7, c.k)
	}
}

func TestChat_FilterCapturedAtSubmit(t *testing.T) {
	f := &fakeQuerier{}
	m := New(f, 7, nil)
	m.SetDocuments([]models.Document{{ID: "1", Filename: "report.pdf"}})
	m.SelectFilter("report.pdf")

	m.Input.SetValue("q")
	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.SelectFilter(models.AllDocumentsLabel)
	collect(cmd)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.calls, 1)
	require.NotNil(t, f.calls[0].filename)
	assert.Equal(t, "report.pdf", *f.calls[0].filename)
}

func TestChat_FilterFallsBackWhenDocumentDisappears(t *testing.T) {
	m := New(&fakeQuerier{}, 7, nil)
	m.SetDocuments([]models.Document{{ID: "1", Filename: "report.pdf"}})
	m.SelectFilter("report.pdf")
	require.False(t, m.Filter().IsAll())

	m.SetDocuments([]models.Document{{ID: "1", Filename: "report.pdf"}, {ID: "2", Filename: "b.txt"}})
	assert.Equal(t, "report.pdf", m.Filter().Filename())

	m.SetDocuments(nil)
	assert.True(t, m.Filter().IsAll())
}

func TestChat_UnknownFilterLabelSelectsAll(t *testing.T) {
	m := New(&fakeQuerier{}, 7, nil)
	m.SetDocuments([]models.Document{{ID: "1", Filename: "report.pdf"}})
	m.SelectFilter("gone.pdf")
	assert.True(t, m.Filter().IsAll())
}

func TestChat_FilterOptions(t *testing.T) {
	m := New(&fakeQuerier{}, 7, nil)
	m.SetDocuments([]models.Document{
		{ID: "1", Filename: "b.pdf"},
		{ID: "2", Filename: "a.txt"},
		{ID: "3", Filename: "b.pdf"},
	})
	m.SelectFilter("a.txt")

	msgs := collect(m.Update(tea.KeyMsg{Type: tea.KeyCtrlF}))
	require.Len(t, msgs, 1)
	assert.Equal(t, FilterMenuRequestMsg{
		Options:  []string{models.AllDocumentsLabel, "b.pdf", "a.txt"},
		Selected: 2,
	}, msgs[0])
}

func TestChat_StaleResultIgnored(t *testing.T) {
	f := &fakeQuerier{}
	a := New(f, 7, nil)
	b := New(f, 7, nil)

	msg := ask(t, a, "q")
	b.Update(msg)
	assert.Empty(t, b.History())
}

func TestChat_CopyLastAnswer(t *testing.T) {
	m := New(&fakeQuerier{results: []*models.QueryResult{{Answer: "forty-two"}}}, 7, nil)
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Nothing to copy yet.", m.Status())

	m.Update(ask(t, m, "meaning?"))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "forty-two", copied)
	assert.Equal(t, "Copied last answer to clipboard.", m.Status())

	m.copyText = func(string) error { return errors.New("no display") }
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Clipboard unavailable.", m.Status())
}

func TestChat_ViewRendersSourcesAndThinking(t *testing.T) {
	m := New(&fakeQuerier{results: []*models.QueryResult{{
		Answer:  "The total is 10.",
		Sources: []models.Source{{Filename: "report.pdf", ChunkIndex: 3, Snippet: "total: 10"}},
	}}}, 7, nil)
	m.SetSize(100, 40)

	m.Input.SetValue("total?")
	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), ThinkingText)

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	m.Update(msgs[0])

	out := m.View()
	assert.NotContains(t, out, ThinkingText)
	assert.Contains(t, out, "The total is 10.")
	assert.Contains(t, out, "report.pdf (chunk: 3)")
	assert.Contains(t, out, "total: 10")
	assert.Contains(t, out, "Filter: All Documents")
}

func TestChat_ScrollClamps(t *testing.T) {
	m := New(&fakeQuerier{}, 7, nil)
	m.SetSize(80, 12)
	for i := 0; i < 5; i++ {
		m.Update(ask(t, m, "question"))
	}

	for i := 0; i < 100; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	lines := len(m.conversationLines(80))
	assert.Equal(t, lines-m.viewportHeight(), m.scroll)

	before := m.scroll
	m.View()
	assert.Equal(t, before, m.scroll, "rendering must not move the scroll position")

	m.SetSize(80, 200)
	assert.Equal(t, 0, m.scroll)
	m.SetSize(80, 12)

	for i := 0; i < 20; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	}
	assert.Equal(t, 0, m.scroll)
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "report.pdf (chunk: 0)", SourceLabel(models.Source{Filename: "report.pdf"}))
}

package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"kaas/src/components/spinner"
	"kaas/src/config"
	"kaas/src/models"
	"kaas/src/services/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu     sync.Mutex
	calls  []*api.File
	result *models.UploadResult
	err    error
	block  bool
}

func (f *fakeUploader) Upload(ctx context.Context, file *api.File) (*models.UploadResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, file)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, &models.TransportError{Op: "upload", Err: ctx.Err()}
	}
	return f.result, f.err
}

func (f *fakeUploader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var testConfig = config.UploadConfig{
	MaxFileBytes:      1024,
	AllowedExtensions: []string{".pdf", ".txt"},
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

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	return path
}

func newModel(f *fakeUploader) *UploadModel {
	return New(f, testConfig, nil)
}

func TestUpload_NoSelection(t *testing.T) {
	f := &fakeUploader{}
	m := newModel(f)

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})

	assert.Nil(t, cmd)
	msg, isErr := m.Message()
	assert.Equal(t, NoFileMessage, msg)
	assert.True(t, isErr)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, f.callCount())
}

func TestSelect_ValidatesFile(t *testing.T) {
	m := newModel(&fakeUploader{})

	m.Select(writeFile(t, "notes.docx", 10))
	assert.Nil(t, m.Selected())
	msg, isErr := m.Message()
	assert.True(t, isErr)
	assert.Contains(t, msg, ".pdf, .txt")

	m.Select(writeFile(t, "huge.pdf", 2048))
	assert.Nil(t, m.Selected())
	msg, _ = m.Message()
	assert.Equal(t, "File is larger than 1 KB.", msg)

	m.Select(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Nil(t, m.Selected())
	msg, _ = m.Message()
	assert.Contains(t, msg, "File not found")

	m.Select(writeFile(t, "Report.PDF", 10))
	require.NotNil(t, m.Selected())
	assert.Equal(t, "Report.PDF", m.Selected().Name)
	assert.Equal(t, StateSelected, m.State())
	msg, _ = m.Message()
	assert.Empty(t, msg)
}

func TestLoadFile_ValidationErrors(t *testing.T) {
	cfg := config.UploadConfig{AllowedExtensions: []string{".pdf", ".txt"}, MaxFileBytes: 1024}
	paths := map[string]string{
		"empty":     "  ",
		"extension": writeFile(t, "notes.docx", 10),
		"missing":   filepath.Join(t.TempDir(), "missing.txt"),
		"directory": filepath.Join(t.TempDir(), "dir.pdf"),
		"too large": writeFile(t, "huge.pdf", 2048),
	}
	require.NoError(t, os.Mkdir(paths["directory"], 0o700))

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			file, err := LoadFile(path, cfg)
			assert.Nil(t, file)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr), "got %T", err)
			assert.Equal(t, verr.Message, models.UserMessage(err, UploadFallbackError))
		})
	}
}

func TestSelect_FromTypedPath(t *testing.T) {
	m := newModel(&fakeUploader{})
	m.Input.SetValue(writeFile(t, "a.txt", 3))

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.Selected())
	assert.Equal(t, "a.txt", m.Selected().Name)
	assert.Empty(t, m.Input.Value())
}

func TestUpload_Success(t *testing.T) {
	f := &fakeUploader{result: &models.UploadResult{Filename: "report.pdf", UploadID: "42"}}
	m := newModel(f)
	m.Select(writeFile(t, "report.pdf", 10))

	cmd := m.Upload()
	require.NotNil(t, cmd)
	assert.Equal(t, StateUploading, m.State())
	assert.True(t, m.Input.Disabled)

	// further actions are ignored while the request runs
	assert.Nil(t, m.Upload())
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, m.Selected())

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, f.callCount())

	next := m.Update(msgs[0])
	assert.Equal(t, StateSucceeded, m.State())
	assert.Nil(t, m.Selected())
	assert.False(t, m.Input.Disabled)
	msg, isErr := m.Message()
	assert.Equal(t, "Success: report.pdf is being processed. (ID: 42)", msg)
	assert.False(t, isErr)

	out := collect(next)
	require.Len(t, out, 1)
	assert.Equal(t, UploadSucceededMsg{Result: models.UploadResult{Filename: "report.pdf", UploadID: "42"}}, out[0])
}

func TestUpload_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend detail", &models.APIError{Op: "upload", Status: 400, Detail: "Unsupported file type"}, "Error: Unsupported file type"},
		{"no detail", &models.APIError{Op: "upload", Status: 500}, "Error: An unexpected error occurred."},
		{"transport", &models.TransportError{Op: "upload", Err: context.DeadlineExceeded}, "Error: An unexpected error occurred."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(&fakeUploader{err: tt.err})
			m.Select(writeFile(t, "report.pdf", 10))

			msgs := collect(m.Upload())
			require.Len(t, msgs, 1)
			assert.Nil(t, m.Update(msgs[0]))

			assert.Equal(t, StateFailed, m.State())
			msg, isErr := m.Message()
			assert.Equal(t, tt.want, msg)
			assert.True(t, isErr)
			// the selection survives so the user can retry
			require.NotNil(t, m.Selected())
			assert.Equal(t, "report.pdf", m.Selected().Name)
		})
	}
}

func TestUpload_StaleResultIgnored(t *testing.T) {
	f := &fakeUploader{result: &models.UploadResult{Filename: "a.pdf", UploadID: "1"}}
	old := newModel(f)
	old.Select(writeFile(t, "a.pdf", 10))
	msgs := collect(old.Upload())
	require.Len(t, msgs, 1)

	fresh := newModel(f)
	assert.Nil(t, fresh.Update(msgs[0]))
	assert.Equal(t, StateIdle, fresh.State())
	msg, _ := fresh.Message()
	assert.Empty(t, msg)
}

func TestUpload_CloseCancelsInFlight(t *testing.T) {
	f := &fakeUploader{block: true}
	m := newModel(f)
	m.Select(writeFile(t, "a.pdf", 10))
	cmd := m.Upload()

	done := make(chan []tea.Msg)
	go func() { done <- collect(cmd) }()
	m.Close()

	msgs := <-done
	require.Len(t, msgs, 1)
	assert.Nil(t, m.Update(msgs[0]))
	msg, _ := m.Message()
	assert.Empty(t, msg)
}

func TestUpload_ViewShowsState(t *testing.T) {
	m := newModel(&fakeUploader{})
	assert.Contains(t, m.View(80), "No file selected")

	m.Select(writeFile(t, "report.pdf", 10))
	assert.Contains(t, m.View(80), "Selected: report.pdf (10 bytes)")

	m.Upload()
	assert.Contains(t, m.View(80), "Uploading...")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "50 MB", formatBytes(50<<20))
	assert.Equal(t, "2 KB", formatBytes(2048))
	assert.Equal(t, "12 bytes", formatBytes(12))
}

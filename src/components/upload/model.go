// model.go - UploadModel, the upload tab: pick a file by path and send it to the backend.
//
// States run idle -> selected -> uploading -> succeeded|failed. A succeeded
// upload clears the selection; a failed one keeps it so the user can retry.

package upload

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kaas/src/components/input"
	"kaas/src/components/spinner"
	"kaas/src/config"
	"kaas/src/logging"
	"kaas/src/models"
	"kaas/src/services/api"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	NoFileMessage       = "Please select a file first."
	UploadFallbackError = "An unexpected error occurred."
)

// Uploader is the part of the API client the upload view needs.
type Uploader interface {
	Upload(ctx context.Context, file *api.File) (*models.UploadResult, error)
}

type State int

const (
	StateIdle State = iota
	StateSelected
	StateUploading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateUploading:
		return "uploading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UploadSucceededMsg tells the root view that the backend accepted a file.
type UploadSucceededMsg struct {
	Result models.UploadResult
}

type uploadResultMsg struct {
	owner  int64
	result *models.UploadResult
	err    error
}

// UploadModel holds the state of one upload tab instance. Each instance owns
// a context; Close cancels it and any result that arrives afterwards is
// dropped.
type UploadModel struct {
	id     int64
	ctx    context.Context
	cancel context.CancelFunc

	client  Uploader
	cfg     config.UploadConfig
	logger  *slog.Logger
	Input   *input.InputModel
	spinner int

	state    State
	selected *api.File
	message  string
	isError  bool
}

func New(client Uploader, cfg config.UploadConfig, logger *slog.Logger) *UploadModel {
	ctx, cancel := context.WithCancel(context.Background())
	return &UploadModel{
		id:     spinner.NewOwner(),
		ctx:    ctx,
		cancel: cancel,
		client: client,
		cfg:    cfg,
		logger: logging.Component(logger, "upload"),
		Input:  input.New("Path to a " + strings.Join(cfg.AllowedExtensions, " or ") + " file"),
	}
}

// Close cancels any upload still in flight.
func (m *UploadModel) Close() {
	m.cancel()
}

func (m *UploadModel) State() State { return m.state }

// Message returns the status line and whether it reports an error.
func (m *UploadModel) Message() (string, bool) { return m.message, m.isError }

// Selected returns the chosen file, or nil.
func (m *UploadModel) Selected() *api.File { return m.selected }

// Busy reports whether an upload is in flight.
func (m *UploadModel) Busy() bool { return m.state == StateUploading }

func (m *UploadModel) Init() tea.Cmd { return nil }

func (m *UploadModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case uploadResultMsg:
		return m.handleResult(msg)
	case spinner.TickMsg:
		if msg.Owner == m.id && m.Busy() {
			m.spinner++
			return spinner.Tick(m.id)
		}
	}
	return nil
}

func (m *UploadModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	// select and upload actions are disabled while a request is running
	if m.Busy() {
		return nil
	}
	switch msg.String() {
	case "enter":
		m.Select(m.Input.Value())
		return nil
	case "ctrl+u":
		return m.Upload()
	case "esc":
		m.Clear()
		return nil
	}
	m.Input.Update(msg)
	return nil
}

// Select loads the file at path and makes it the current selection.
func (m *UploadModel) Select(path string) {
	if m.Busy() {
		return
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	file, err := LoadFile(path, m.cfg)
	if err != nil {
		m.logger.Warn("file selection failed", "path", path, "error", err)
		m.setError(err.Error())
		return
	}

	m.selected = file
	m.state = StateSelected
	m.message = ""
	m.isError = false
	m.Input.Reset()
	m.logger.Debug("file selected", "filename", file.Name, "bytes", len(file.Content))
}

// Clear drops the selection and any status message.
func (m *UploadModel) Clear() {
	if m.Busy() {
		return
	}
	m.selected = nil
	m.state = StateIdle
	m.message = ""
	m.isError = false
	m.Input.Reset()
}

// Upload sends the current selection. With nothing selected it sets an
// error message and returns nil without calling the backend.
func (m *UploadModel) Upload() tea.Cmd {
	if m.Busy() {
		return nil
	}
	if m.selected == nil {
		m.setError(NoFileMessage)
		return nil
	}

	m.state = StateUploading
	m.message = ""
	m.isError = false
	m.Input.Disabled = true
	m.spinner = 0

	ctx, client, file, owner := m.ctx, m.client, m.selected, m.id
	return tea.Batch(
		func() tea.Msg {
			result, err := client.Upload(ctx, file)
			return uploadResultMsg{owner: owner, result: result, err: err}
		},
		spinner.Tick(m.id),
	)
}

func (m *UploadModel) handleResult(msg uploadResultMsg) tea.Cmd {
	if msg.owner != m.id || m.state != StateUploading || m.ctx.Err() != nil {
		return nil
	}
	m.Input.Disabled = false

	if msg.err != nil {
		m.logger.Warn("upload failed", "filename", m.selected.Name, "error", msg.err)
		m.state = StateFailed
		m.setError("Error: " + models.UserMessage(msg.err, UploadFallbackError))
		return nil
	}

	result := *msg.result
	if result.Filename == "" {
		result.Filename = m.selected.Name
	}
	m.logger.Info("upload accepted", "filename", result.Filename, "upload_id", result.UploadID)
	m.state = StateSucceeded
	m.message = fmt.Sprintf("Success: %s is being processed. (ID: %s)", result.Filename, result.UploadID)
	m.isError = false
	m.selected = nil
	return func() tea.Msg { return UploadSucceededMsg{Result: result} }
}

func (m *UploadModel) setError(text string) {
	m.message = text
	m.isError = true
}

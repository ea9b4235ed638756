// Package app holds the root Bubble Tea model. It owns the document list,
// switches between the upload and chat tabs and runs the reset flow.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kaas/src/components/chat"
	"kaas/src/components/doclist"
	"kaas/src/components/modals"
	"kaas/src/components/modals/dialogs"
	"kaas/src/components/upload"
	"kaas/src/config"
	"kaas/src/logging"
	"kaas/src/models"
	"kaas/src/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	ListErrorMessage    = "Could not load document list."
	ResetPrompt         = "Are you sure you want to delete all uploaded data? This cannot be undone."
	ResetSuccessMessage = "All data has been successfully reset."
	ResetFailureMessage = "Failed to reset data."
)

// Backend is everything the TUI needs from the API client.
type Backend interface {
	upload.Uploader
	chat.Querier
	ListDocuments(ctx context.Context) ([]models.Document, error)
	ResetAll(ctx context.Context) error
}

type documentsLoadedMsg struct {
	gen  int64
	docs []models.Document
	err  error
}

type resetDoneMsg struct {
	err error
}

// AppModel is the root model. The chat view lives as long as the program;
// the upload view is rebuilt every time its tab is opened.
type AppModel struct {
	ctx    context.Context
	cancel context.CancelFunc

	client Backend
	cfg    *config.Config
	logger *slog.Logger
	// base is handed to child views so they carry their own component tag.
	base   *slog.Logger
	styles *AppStyles

	docs        []models.Document
	docsLoading bool
	docsErr     string
	// listGen identifies the newest list request; older responses are dropped.
	listGen int64

	tab     types.Tab
	chat    *chat.ChatModel
	upload  *upload.UploadModel
	doclist *doclist.DocListModel

	modal     modals.Modal
	resetting bool
	status    string
	statusErr bool

	width  int
	height int
	banner string
}

func New(client Backend, cfg *config.Config, logger *slog.Logger) *AppModel {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AppModel{
		ctx:     ctx,
		cancel:  cancel,
		client:  client,
		cfg:     cfg,
		logger:  logging.Component(logger, "app"),
		base:    logger,
		styles:  NewAppStyles(),
		docs:    []models.Document{},
		tab:     types.ChatTab,
		chat:    chat.New(client, cfg.Query.ResultLimit, logger),
		doclist: doclist.New(),
		width:   80,
		height:  24,
		banner:  banner(),
	}
}

// Documents returns the current list snapshot.
func (m *AppModel) Documents() []models.Document { return m.docs }

func (m *AppModel) ActiveTab() types.Tab { return m.tab }

// Status returns the status line and whether it reports an error.
func (m *AppModel) Status() (string, bool) { return m.status, m.statusErr }

func (m *AppModel) Init() tea.Cmd {
	return m.refresh()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case documentsLoadedMsg:
		m.handleDocuments(msg)
		return m, nil
	case resetDoneMsg:
		return m, m.handleReset(msg)
	case upload.UploadSucceededMsg:
		return m, m.onUploadSuccess(msg)
	case chat.FilterMenuRequestMsg:
		m.showFilterMenu(msg)
		return m, nil
	}

	// everything else belongs to a child; each ignores what is not its own
	cmds := []tea.Cmd{m.chat.Update(msg)}
	if m.upload != nil {
		cmds = append(cmds, m.upload.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *AppModel) handleKeyPress(key tea.KeyMsg) tea.Cmd {
	if m.modal != nil {
		return m.modal.Update(key)
	}

	switch key.String() {
	case "ctrl+c":
		m.Shutdown()
		return tea.Quit
	case "tab":
		m.switchTab(m.tab.Next())
		return nil
	case "ctrl+r":
		return m.refresh()
	case "ctrl+x":
		m.confirmReset()
		return nil
	case "f1":
		m.showHelp()
		return nil
	}

	if m.tab == types.UploadTab && m.upload != nil {
		return m.upload.Update(key)
	}
	return m.chat.Update(key)
}

// refresh starts a list request. The list itself is only replaced when the
// response arrives.
func (m *AppModel) refresh() tea.Cmd {
	m.listGen++
	m.docsLoading = true
	gen, ctx, client := m.listGen, m.ctx, m.client
	return func() tea.Msg {
		docs, err := client.ListDocuments(ctx)
		return documentsLoadedMsg{gen: gen, docs: docs, err: err}
	}
}

func (m *AppModel) handleDocuments(msg documentsLoadedMsg) {
	if msg.gen != m.listGen {
		m.logger.Debug("stale document list dropped", "gen", msg.gen, "latest", m.listGen)
		return
	}
	m.docsLoading = false
	if msg.err != nil {
		m.logger.Warn("document list failed", "error", msg.err)
		m.docs = []models.Document{}
		m.docsErr = ListErrorMessage
	} else {
		m.docs = msg.docs
		if m.docs == nil {
			m.docs = []models.Document{}
		}
		m.docsErr = ""
	}
	m.chat.SetDocuments(m.docs)
}

func (m *AppModel) switchTab(tab types.Tab) {
	if tab == m.tab {
		return
	}
	if m.upload != nil {
		m.upload.Close()
		m.upload = nil
	}
	if tab == types.UploadTab {
		m.upload = upload.New(m.client, m.cfg.Upload, m.base)
	}
	m.tab = tab
	m.logger.Debug("tab switched", "tab", tab.String())
}

func (m *AppModel) onUploadSuccess(msg upload.UploadSucceededMsg) tea.Cmd {
	m.setStatus(fmt.Sprintf("Success: %s is being processed. (ID: %s)", msg.Result.Filename, msg.Result.UploadID), false)
	cmd := m.refresh()
	m.switchTab(types.ChatTab)
	return cmd
}

func (m *AppModel) confirmReset() {
	if m.resetting {
		return
	}
	m.modal = dialogs.NewYesNoModal(ResetPrompt, m.startReset, m.closeModal)
}

func (m *AppModel) startReset() tea.Cmd {
	m.resetting = true
	ctx, client := m.ctx, m.client
	m.logger.Info("reset confirmed")
	return func() tea.Msg {
		return resetDoneMsg{err: client.ResetAll(ctx)}
	}
}

func (m *AppModel) handleReset(msg resetDoneMsg) tea.Cmd {
	m.resetting = false
	if msg.err != nil {
		m.logger.Warn("reset failed", "error", msg.err)
		m.setStatus(ResetFailureMessage, true)
		return nil
	}
	m.logger.Info("all data reset")
	m.setStatus(ResetSuccessMessage, false)
	return m.refresh()
}

func (m *AppModel) showFilterMenu(req chat.FilterMenuRequestMsg) {
	options := req.Options
	m.modal = &dialogs.MenuModal{
		Title:    "Filter by document",
		Options:  options,
		Selected: req.Selected,
		OnSelect: func(i int) tea.Cmd {
			label := options[i]
			return func() tea.Msg { return chat.FilterSelectedMsg{Label: label} }
		},
		CloseSelf: m.closeModal,
	}
}

func (m *AppModel) showHelp() {
	var lines []string
	seen := map[string]bool{}
	for _, t := range types.Tabs {
		for _, l := range types.ControlInfoFor(t).Lines {
			if !seen[l] {
				seen[l] = true
				lines = append(lines, l)
			}
		}
	}
	m.modal = &dialogs.HelpModal{
		Title:     "Keys",
		Lines:     lines,
		CloseSelf: m.closeModal,
	}
}

func (m *AppModel) closeModal() {
	m.modal = nil
}

func (m *AppModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *AppModel) resize(width, height int) {
	m.width = width
	m.height = height
	_, bodyHeight := m.bodySize()
	m.doclist.SetSize(sidebarWidth, bodyHeight)
	m.chat.SetSize(m.paneWidth(), bodyHeight)
}

// Shutdown cancels every request still in flight.
func (m *AppModel) Shutdown() {
	m.cancel()
	m.chat.Close()
	if m.upload != nil {
		m.upload.Close()
	}
}

const (
	sidebarWidth    = 36
	minWidth        = 60
	minHeight       = 16
	bannerMinHeight = 40
)

func (m *AppModel) showBanner() bool {
	return m.height >= bannerMinHeight
}

// bodySize is the area left for the sidebar and the active tab.
func (m *AppModel) bodySize() (int, int) {
	// header, tab bar, status line, footer
	chrome := 4
	if m.showBanner() {
		chrome += lipgloss.Height(m.banner)
	}
	return m.width, max(m.height-chrome, 3)
}

func (m *AppModel) contentWidth() int {
	return max(m.width-sidebarWidth-3, 20)
}

// paneWidth is the room the active tab gets inside the content padding.
func (m *AppModel) paneWidth() int {
	return m.contentWidth() - m.styles.contentStyle.GetHorizontalFrameSize()
}

func (m *AppModel) View() string {
	if m.width < minWidth || m.height < minHeight {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Align(lipgloss.Center, lipgloss.Center).
			Width(m.width).
			Height(m.height).
			Render("Terminal too small for kaas")
	}

	width, bodyHeight := m.bodySize()
	var sections []string
	if m.showBanner() {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, m.styles.bannerStyle.Render(m.banner)))
	}
	sections = append(sections, m.renderHeader(width), m.renderTabs(width))

	if m.modal != nil {
		sections = append(sections, m.modal.ViewRegion(width, bodyHeight))
	} else {
		sections = append(sections, m.renderBody(bodyHeight))
	}
	sections = append(sections, m.renderStatus(width), m.renderFooter(width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *AppModel) renderHeader(width int) string {
	title := "kaas · ask questions about your documents"
	return m.styles.headerStyle.Width(width).Render(title + "  " + m.cfg.API.BaseURL)
}

func (m *AppModel) renderTabs(width int) string {
	var tabs []string
	for _, t := range types.Tabs {
		style := m.styles.tabStyle
		if t == m.tab {
			style = m.styles.activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m *AppModel) renderBody(height int) string {
	sidebar := m.doclist.View(doclist.Snapshot{Docs: m.docs, Loading: m.docsLoading, Err: m.docsErr})
	sidebar = m.styles.sidebarStyle.Width(sidebarWidth).Height(height).MaxHeight(height).Render(sidebar)

	var content string
	if m.tab == types.UploadTab && m.upload != nil {
		content = m.upload.View(m.paneWidth())
	} else {
		content = m.chat.View()
	}
	content = m.styles.contentStyle.Width(m.contentWidth()).Height(height).MaxHeight(height).Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
}

func (m *AppModel) renderStatus(width int) string {
	if m.status == "" {
		return m.styles.mutedStyle.Width(width).Render("")
	}
	style := m.styles.successStyle
	if m.statusErr {
		style = m.styles.errorStyle
	}
	return style.Width(width).MaxHeight(1).Render(m.status)
}

func (m *AppModel) renderFooter(width int) string {
	info := types.ControlInfoFor(m.tab)
	if m.modal != nil {
		info = types.ControlInfoMap[types.ModalControlInfoType]
	}
	return m.styles.footerStyle.Width(width).MaxHeight(1).Render(strings.Join(info.Lines, " | "))
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"studydesk/internal/assistant"
	"studydesk/internal/catalog"
	"studydesk/internal/clipboard"
	"studydesk/internal/clock"
	"studydesk/internal/config"
	"studydesk/internal/export"
	"studydesk/internal/highlight"
	"studydesk/internal/pages"
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusPage
	focusInput
)

type Model struct {
	cfg       config.AppConfig
	store     *catalog.Store
	assistant *assistant.Assistant
	exporter  *export.Exporter
	clock     clock.Clock
	copyFn    func(context.Context, string) (clipboard.Command, error)

	sidebar list.Model
	page    viewport.Model
	chat    viewport.Model
	input   textinput.Model
	search  textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int

	focus         focusArea
	showAssistant bool
	searchMode    bool
	searchQuery   string
	rendering     bool
	renderNonce   int
	chatNonce     int
	typing        bool

	pageID      pages.ID
	tab         string
	calendarDay time.Time
	noteCursor  int
	noteID      string
	unread      int
	avgScore    int
	rendered    map[string]string
	highlighted map[string]highlight.Result
	matchLines  []int
	matchCount  int
	matchIndex  int

	logLine  string
	logLevel slog.Level
	logSeq   int

	status string
	err    error
}

type pageRenderedMsg struct {
	cacheKey string
	rendered string
	nonce    int
	err      error
}
type chatRenderedMsg struct {
	rendered string
	nonce    int
}
type assistantReplyMsg struct {
	reply assistant.Message
}
type exportMsg struct {
	path string
	err  error
}
type copyMsg struct {
	tool clipboard.Command
	err  error
}
type markReadMsg struct {
	changed int
	unread  int
	err     error
}
type notificationMsg struct {
	id      string
	deleted bool
	unread  int
	err     error
}

type sidebarItem struct {
	item pages.SidebarItem
}

func (i sidebarItem) Title() string {
	if i.item.Badge == "" {
		return i.item.Label
	}
	return i.item.Label + " (" + i.item.Badge + ")"
}

func (i sidebarItem) Description() string { return pages.Description(i.item.Page) }

func (i sidebarItem) FilterValue() string { return strings.ToLower(i.item.Label) }

func NewModel(cfg config.AppConfig, store *catalog.Store, asst *assistant.Assistant, exp *export.Exporter) Model {
	entries := pages.SidebarItems(pages.Role(cfg.Role))
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, sidebarItem{item: e})
	}

	l := list.New(items, list.NewDefaultDelegate(), 28, 20)
	l.Title = "Study Desk"
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	pageVP := viewport.New(60, 20)
	pageVP.SetContent("Loading...")
	chatVP := viewport.New(40, 10)

	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Points

	in := textinput.New()
	in.Placeholder = "Ask me anything about your studies..."
	in.Prompt = "> "
	in.CharLimit = 1000

	search := textinput.New()
	search.Placeholder = "Search this page..."
	search.Prompt = "/ "
	search.CharLimit = 256

	m := Model{
		cfg:       cfg,
		store:     store,
		assistant: asst,
		exporter:  exp,
		clock:     clock.Real(),
		copyFn:    clipboard.Copy,
		sidebar:   l,
		page:      pageVP,
		chat:      chatVP,
		input:     in,
		search:    search,
		spinner:   sp,
		help:      h,
		keys:      defaultKeys(),

		focus:         focusSidebar,
		showAssistant: cfg.ShowAssistant,
		pageID:        pages.Overview,
		rendered:      make(map[string]string),
		highlighted:   make(map[string]highlight.Result),
		matchIndex:    -1,
	}
	if len(entries) > 0 {
		m.pageID = entries[0].Page
	}
	m.tab = pages.ResolveTab(m.pageID, "")
	if n, err := store.UnreadCount(); err == nil {
		m.unread = n
	}
	if sum, err := store.GradeSummary(); err == nil {
		m.avgScore = sum.Percentage
	}
	m.typing = asst.IsAwaitingReply()
	m.chat.SetContent(export.BuildTranscriptMarkdown(asst.Transcript()))
	if m.showAssistant {
		m.focus = focusInput
		m.input.Focus()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) now() time.Time {
	return m.cfg.Now(m.clock.Now())
}

func (m Model) exportCmd() tea.Cmd {
	conv := export.NewConversation(m.cfg.Role, m.assistant.Transcript())
	exp := m.exporter
	return func() tea.Msg {
		path, err := exp.Export(conv)
		return exportMsg{path: path, err: err}
	}
}

func (m Model) copyCmd() tea.Cmd {
	reply, ok := m.assistant.LastReply()
	if !ok {
		return nil
	}
	copyFn := m.copyFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		tool, err := copyFn(ctx, reply.Content)
		return copyMsg{tool: tool, err: err}
	}
}

func (m Model) markAllReadCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		changed, err := store.MarkAllRead()
		if err != nil {
			return markReadMsg{err: err}
		}
		unread, err := store.UnreadCount()
		return markReadMsg{changed: changed, unread: unread, err: err}
	}
}

func (m Model) markReadCmd(id string) tea.Cmd {
	return notificationCmd(m.store, id, false, m.store.MarkRead)
}

func (m Model) deleteNotificationCmd(id string) tea.Cmd {
	return notificationCmd(m.store, id, true, m.store.DeleteNotification)
}

func notificationCmd(store *catalog.Store, id string, deleted bool, op func(string) error) tea.Cmd {
	return func() tea.Msg {
		if err := op(id); err != nil {
			return notificationMsg{id: id, deleted: deleted, err: err}
		}
		unread, err := store.UnreadCount()
		return notificationMsg{id: id, deleted: deleted, unread: unread, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		cmds = append(cmds, m.renderPage(true), m.renderChat())

	case pageRenderedMsg:
		if msg.nonce != m.renderNonce {
			break
		}
		m.rendering = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "Render failed: " + msg.err.Error()
			break
		}
		m.rendered[msg.cacheKey] = msg.rendered
		if msg.cacheKey == m.pageCacheKey() {
			m.setPageFromRendered(msg.cacheKey, msg.rendered, true)
		}

	case chatRenderedMsg:
		if msg.nonce != m.chatNonce {
			break
		}
		m.chat.SetContent(msg.rendered)
		m.chat.GotoBottom()

	case assistantReplyMsg:
		m.typing = m.assistant.IsAwaitingReply()
		m.status = "Assistant replied"
		if msg.reply.Category != assistant.CategoryText {
			m.status += " (" + string(msg.reply.Category) + ")"
		}
		cmds = append(cmds, m.renderChat())

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Exported: " + msg.path
		}

	case copyMsg:
		if msg.err != nil {
			m.err = msg.err
			if errors.Is(msg.err, clipboard.ErrToolNotFound) {
				m.status = "Could not copy: clipboard tool not found"
			} else {
				m.status = "Could not copy: " + msg.err.Error()
			}
		} else {
			m.status = "Copied last reply to clipboard"
		}

	case markReadMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "Mark all read failed: " + msg.err.Error()
			break
		}
		m.unread = msg.unread
		m.status = fmt.Sprintf("Marked %d notifications read", msg.changed)
		m.invalidatePages()
		cmds = append(cmds, m.renderPage(true))

	case notificationMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "Notification update failed: " + msg.err.Error()
			break
		}
		m.unread = msg.unread
		if msg.deleted {
			m.status = "Deleted notification " + msg.id
		} else {
			m.status = "Marked notification " + msg.id + " read"
		}
		m.invalidatePages()
		cmds = append(cmds, m.renderPage(true))

	case logRecordMsg:
		m.logSeq++
		m.logLine = msg.Summary
		m.logLevel = msg.Level
		seq := m.logSeq
		cmds = append(cmds, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{seq: seq}
		}))

	case logRecordFadeMsg:
		if msg.seq == m.logSeq {
			m.logLine = ""
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.typing {
		var spin tea.Cmd
		m.spinner, spin = m.spinner.Update(msg)
		cmds = append(cmds, spin)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.searchMode {
		switch msg.String() {
		case "esc":
			m.searchMode = false
			m.searchQuery = ""
			m.search.SetValue("")
			m.search.Blur()
			m.refreshPageFromCache()
			return m, nil
		case "enter":
			m.searchMode = false
			m.search.Blur()
			m.searchQuery = strings.TrimSpace(m.search.Value())
			m.refreshPageFromCache()
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if after := strings.TrimSpace(m.search.Value()); after != strings.TrimSpace(before) {
			m.searchQuery = after
			m.refreshPageFromCache()
		}
		return m, cmd
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.search.SetValue(m.searchQuery)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Tab):
		return m, m.cycleFocus()
	case key.Matches(msg, m.keys.Assistant):
		return m, m.toggleAssistant()
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.shiftTab(-1)
	case key.Matches(msg, m.keys.NextTab):
		return m, m.shiftTab(1)
	case key.Matches(msg, m.keys.PrevMatch):
		if m.searchQuery != "" {
			m.jumpToMatch(-1)
		}
		return m, nil
	case key.Matches(msg, m.keys.NextMatch):
		if m.searchQuery != "" {
			m.jumpToMatch(1)
		}
		return m, nil
	case key.Matches(msg, m.keys.MarkAllRead):
		if m.pageID != pages.Notifications {
			m.status = "Mark all read works on the Notifications page"
			return m, nil
		}
		return m, m.markAllReadCmd()
	case key.Matches(msg, m.keys.SelectNext), key.Matches(msg, m.keys.SelectPrev):
		if m.pageID != pages.Notifications {
			return m, nil
		}
		if key.Matches(msg, m.keys.SelectNext) {
			m.noteCursor++
		} else {
			m.noteCursor--
		}
		return m, m.renderPage(false)
	case key.Matches(msg, m.keys.MarkRead), key.Matches(msg, m.keys.Delete):
		if m.pageID != pages.Notifications {
			m.status = "Select a notification on the Notifications page"
			return m, nil
		}
		m.syncNoteCursor()
		if m.noteID == "" {
			m.status = "No notification selected"
			return m, nil
		}
		if key.Matches(msg, m.keys.MarkRead) {
			return m, m.markReadCmd(m.noteID)
		}
		return m, m.deleteNotificationCmd(m.noteID)
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()
	case key.Matches(msg, m.keys.PageUp):
		if m.focus == focusPage {
			m.page.HalfViewUp()
		}
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		if m.focus == focusPage {
			m.page.HalfViewDown()
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		prev := m.pageID
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		cmds = append(cmds, cmd)
		if item, ok := m.sidebar.SelectedItem().(sidebarItem); ok {
			m.pageID = item.item.Page
		}
		if m.pageID != prev {
			m.tab = pages.ResolveTab(m.pageID, "")
			m.noteCursor = 0
			cmds = append(cmds, m.renderPage(false))
		}
	} else {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.page.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.page.LineDown(1)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Leave):
		m.focus = focusPage
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m, m.cycleFocus()
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}
	for i, shortcut := range assistant.Shortcuts() {
		if i < len(m.keys.QuickActions) && key.Matches(msg, m.keys.QuickActions[i]) {
			m.input.SetValue(assistant.QuickAction(shortcut.Name))
			m.input.CursorEnd()
			m.status = "Quick action: " + shortcut.Label
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.assistant.Submit(m.input.Value()) {
		return m, nil
	}
	m.input.SetValue("")
	wasTyping := m.typing
	m.typing = m.assistant.IsAwaitingReply()
	m.status = ""
	cmds := []tea.Cmd{m.renderChat()}
	if m.typing && !wasTyping {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) cycleFocus() tea.Cmd {
	switch m.focus {
	case focusSidebar:
		m.focus = focusPage
	case focusPage:
		if m.showAssistant {
			m.focus = focusInput
			return m.input.Focus()
		}
		m.focus = focusSidebar
	default:
		m.input.Blur()
		m.focus = focusSidebar
	}
	return nil
}

func (m *Model) toggleAssistant() tea.Cmd {
	m.showAssistant = !m.showAssistant
	var cmds []tea.Cmd
	if m.showAssistant {
		m.focus = focusInput
		cmds = append(cmds, m.input.Focus())
	} else {
		if m.focus == focusInput {
			m.focus = focusPage
		}
		m.input.Blur()
	}
	m.resize()
	if m.width > 0 {
		cmds = append(cmds, m.renderPage(false), m.renderChat())
	}
	return tea.Batch(cmds...)
}

// shiftTab moves to the neighbouring tab, or by delta days on the
// calendar.
func (m *Model) shiftTab(delta int) tea.Cmd {
	if m.pageID == pages.Calendar {
		day := m.calendarDay
		if day.IsZero() {
			day = m.now()
		}
		m.calendarDay = day.AddDate(0, 0, delta)
		m.status = "Calendar: " + m.calendarDay.Format("Mon Jan 2, 2006")
		return m.renderPage(false)
	}
	tabs := pages.Tabs(m.pageID)
	if len(tabs) == 0 {
		return nil
	}
	idx := 0
	for i, t := range tabs {
		if t == m.tab {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(tabs)) % len(tabs)
	m.tab = tabs[idx]
	m.noteCursor = 0
	return m.renderPage(false)
}

// syncNoteCursor clamps the cursor to the notifications listed under the
// current tab and records the selected id.
func (m *Model) syncNoteCursor() {
	m.noteID = ""
	if m.pageID != pages.Notifications {
		return
	}
	list, err := m.store.Notifications(m.tab)
	if err != nil {
		m.err = err
		return
	}
	if len(list) == 0 {
		m.noteCursor = 0
		return
	}
	m.noteCursor = min(max(m.noteCursor, 0), len(list)-1)
	m.noteID = list[m.noteCursor].ID
}

func (m *Model) invalidatePages() {
	m.rendered = make(map[string]string)
	m.highlighted = make(map[string]highlight.Result)
}

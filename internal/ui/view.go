package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"studydesk/internal/assistant"
	"studydesk/internal/pages"
)

const (
	sidebarMinWidth = 24
	chromeLines     = 2 // status line and help line
)

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	side, pageW, chatW := m.paneWidths()
	bodyHeight := max(m.height-chromeLines, 8)

	m.sidebar.SetSize(side-2, bodyHeight-2)
	m.page.Width = pageW - 2
	m.page.Height = max(bodyHeight-3, 1)
	if chatW > 0 {
		m.chat.Width = chatW - 2
		m.chat.Height = max(bodyHeight-6, 1)
		m.input.Width = max(chatW-6, 10)
	}
}

// paneWidths splits the terminal between sidebar, page and, when shown,
// the assistant panel. The assistant width is zero while hidden.
func (m Model) paneWidths() (int, int, int) {
	side := max(m.width/5, sidebarMinWidth)
	rest := max(m.width-side-1, 20)
	if !m.showAssistant {
		return side, rest, 0
	}
	chat := max(rest*2/5, 30)
	page := max(rest-chat-1, 20)
	return side, page, chat
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}

	side, pageW, chatW := m.paneWidths()
	bodyHeight := max(m.height-chromeLines, 8)

	panes := []string{
		panelStyle(m.focus == focusSidebar).Width(side).Height(bodyHeight).Render(m.sidebar.View()),
		panelStyle(m.focus == focusPage).Width(pageW).Height(bodyHeight).Render(
			lipgloss.JoinVertical(lipgloss.Left, m.tabBar(), m.page.View()),
		),
	}
	if m.showAssistant {
		panes = append(panes, panelStyle(m.focus == focusInput).Width(chatW).Height(bodyHeight).Render(m.assistantView()))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	var helpView string
	switch {
	case m.searchMode:
		helpView = m.search.View() + "  " + m.help.View(m.keys)
	case m.focus == focusInput:
		helpView = m.help.View(inputKeys{k: m.keys})
	case m.searchQuery != "":
		helpView = "search: " + m.searchQuery + "  " + m.help.View(m.keys)
	default:
		helpView = m.help.View(m.keys)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusLine(),
		body,
		helpView,
	)
}

func (m Model) tabBar() string {
	title := pageTitleStyle.Render(pages.Title(m.pageID))
	tabs := pages.Tabs(m.pageID)
	if len(tabs) == 0 {
		return title
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := pages.TabLabel(m.pageID, t)
		if t == m.tab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return title + "  " + strings.Join(parts, " ")
}

func (m Model) assistantView() string {
	typing := ""
	if m.typing {
		typing = m.spinner.View() + " Assistant is typing..."
	}
	shortcuts := assistant.Shortcuts()
	hints := make([]string, 0, len(shortcuts))
	for i, s := range shortcuts {
		hints = append(hints, fmt.Sprintf("f%d %s", i+1, s.Label))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		pageTitleStyle.Render("AI Study Assistant"),
		m.chat.View(),
		typing,
		quickHintStyle.Render(ansi.Truncate(strings.Join(hints, " · "), max(m.chat.Width, 10), "…")),
		m.input.View(),
	)
}

func (m Model) statusLine() string {
	parts := []string{
		"role=" + m.cfg.Role,
		"page=" + string(m.pageID),
	}
	if m.tab != "" {
		parts = append(parts, "tab="+m.tab)
	}
	parts = append(parts,
		fmt.Sprintf("unread=%d", m.unread),
		lipgloss.NewStyle().Foreground(pages.GradeColor(m.avgScore)).Render(fmt.Sprintf("avg=%d%%", m.avgScore)),
	)
	if m.searchQuery != "" || m.searchMode {
		parts = append(parts, "[search]")
		if strings.TrimSpace(m.searchQuery) != "" {
			if m.matchCount > 0 {
				cur := max(m.matchIndex+1, 1)
				parts = append(parts, fmt.Sprintf("[match %d/%d]", cur, len(m.matchLines)))
			} else {
				parts = append(parts, "[match 0]")
			}
		}
	}
	if m.rendering {
		parts = append(parts, "[rendering]")
	}
	if m.typing {
		if n := m.assistant.Pending(); n > 1 {
			parts = append(parts, fmt.Sprintf("[typing, %d queued]", n))
		} else {
			parts = append(parts, "[typing]")
		}
	}
	if s := strings.TrimSpace(m.status); s != "" {
		parts = append(parts, s)
	}
	if m.err != nil {
		parts = append(parts, "err="+m.err.Error())
	}

	style := statusStyle
	if m.logLine != "" {
		parts = append(parts, m.logLine)
		if m.logLevel >= slog.LevelError {
			style = statusErrorStyle
		} else {
			style = statusWarnStyle
		}
	}
	line := strings.Join(parts, "  ")
	if m.width > 2 {
		line = ansi.Truncate(line, m.width-2, "…")
	}
	return style.Render(line)
}

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)
	statusWarnStyle = statusStyle.
			Background(lipgloss.Color("136"))
	statusErrorStyle = statusStyle.
				Background(lipgloss.Color("124"))
	searchMatchStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("220"))
	pageTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("39"))
	quickHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func panelStyle(active bool) lipgloss.Style {
	border := lipgloss.NormalBorder()
	if active {
		return lipgloss.NewStyle().
			Border(border, true).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
	}
	return lipgloss.NewStyle().
		Border(border, true).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
}

package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"studydesk/internal/catalog"
	"studydesk/internal/export"
	"studydesk/internal/highlight"
	"studydesk/internal/pages"
)

func (m Model) pageCacheKey() string {
	key := fmt.Sprintf("%s|tab=%s|w=%d", m.pageID, m.tab, m.page.Width)
	switch m.pageID {
	case pages.Calendar:
		if !m.calendarDay.IsZero() {
			key += "|day=" + m.calendarDay.Format(time.DateOnly)
		}
	case pages.Notifications:
		key += "|sel=" + m.noteID
	}
	return key
}

func (m Model) pageRequest() pages.Request {
	return pages.Request{
		Page:     m.pageID,
		Tab:      m.tab,
		Role:     pages.Role(m.cfg.Role),
		Now:      m.now(),
		Day:      m.calendarDay,
		Selected: m.noteID,
	}
}

func (m Model) highlightCacheKey(cacheKey, query string) string {
	return cacheKey + "|q=" + strings.ToLower(strings.TrimSpace(query))
}

// renderPage shows the current page from cache, or starts an async render
// when it is missing or force is set.
func (m *Model) renderPage(force bool) tea.Cmd {
	m.syncNoteCursor()
	cacheKey := m.pageCacheKey()
	if !force {
		if rendered, ok := m.rendered[cacheKey]; ok {
			m.setPageFromRendered(cacheKey, rendered, true)
			return nil
		}
	}
	m.rendering = true
	m.renderNonce++
	m.page.SetContent("Loading " + pages.Title(m.pageID) + "...")
	m.clearMatches()
	return renderPageCmd(m.store, m.pageRequest(), m.cfg.GlamourStyle, wrapWidth(m.page.Width), cacheKey, m.renderNonce)
}

func renderPageCmd(store *catalog.Store, req pages.Request, style string, wrap int, cacheKey string, nonce int) tea.Cmd {
	return func() tea.Msg {
		md, err := pages.Render(store, req)
		if err != nil {
			return pageRenderedMsg{cacheKey: cacheKey, nonce: nonce, err: err}
		}
		return pageRenderedMsg{
			cacheKey: cacheKey,
			rendered: renderMarkdown(md, style, wrap),
			nonce:    nonce,
		}
	}
}

// renderChat puts the raw transcript markdown in the chat viewport and
// returns a command producing the styled version.
func (m *Model) renderChat() tea.Cmd {
	md := export.BuildTranscriptMarkdown(m.assistant.Transcript())
	m.chatNonce++
	nonce := m.chatNonce
	m.chat.SetContent(md)
	m.chat.GotoBottom()
	style := m.cfg.GlamourStyle
	wrap := wrapWidth(m.chat.Width)
	return func() tea.Msg {
		return chatRenderedMsg{rendered: renderMarkdown(md, style, wrap), nonce: nonce}
	}
}

// renderMarkdown falls back to the input when glamour cannot render it.
func renderMarkdown(md, style string, wrap int) string {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func wrapWidth(width int) int {
	return max(width-2, 20)
}

func (m *Model) refreshPageFromCache() {
	cacheKey := m.pageCacheKey()
	rendered, ok := m.rendered[cacheKey]
	if !ok {
		return
	}
	oldOffset := m.page.YOffset
	m.setPageFromRendered(cacheKey, rendered, false)
	m.page.SetYOffset(m.clampPageOffset(oldOffset))
}

func (m *Model) setPageFromRendered(cacheKey, rendered string, gotoTop bool) {
	content := rendered
	if query := strings.TrimSpace(m.searchQuery); query != "" {
		hKey := m.highlightCacheKey(cacheKey, query)
		res, ok := m.highlighted[hKey]
		if !ok {
			res = highlight.ApplyANSI(rendered, query, func(s string) string {
				return searchMatchStyle.Render(s)
			})
			m.highlighted[hKey] = res
		}
		content = res.Text
		m.setMatchMeta(res)
	} else {
		m.clearMatches()
	}

	m.page.SetContent(content)
	if gotoTop {
		m.page.GotoTop()
		if len(m.matchLines) > 0 {
			m.matchIndex = 0
			m.page.SetYOffset(m.clampPageOffset(m.matchLines[0]))
		}
	}
}

func (m *Model) setMatchMeta(res highlight.Result) {
	if res.Count == 0 || len(res.LineIndex) == 0 {
		m.clearMatches()
		return
	}
	m.matchCount = res.Count
	m.matchLines = append(m.matchLines[:0], res.LineIndex...)
	if m.matchIndex < 0 || m.matchIndex >= len(m.matchLines) {
		m.matchIndex = 0
	}
}

func (m *Model) clearMatches() {
	m.matchLines = nil
	m.matchCount = 0
	m.matchIndex = -1
}

func (m *Model) jumpToMatch(delta int) {
	if len(m.matchLines) == 0 {
		m.status = "No search matches on this page"
		return
	}

	if m.matchIndex < 0 || m.matchIndex >= len(m.matchLines) {
		m.matchIndex = 0
	} else if delta > 0 {
		m.matchIndex = (m.matchIndex + 1) % len(m.matchLines)
	} else if delta < 0 {
		m.matchIndex = (m.matchIndex - 1 + len(m.matchLines)) % len(m.matchLines)
	}

	line := m.matchLines[m.matchIndex]
	m.page.SetYOffset(m.clampPageOffset(line))
	m.status = fmt.Sprintf("Match %d/%d", m.matchIndex+1, len(m.matchLines))
}

func (m *Model) clampPageOffset(offset int) int {
	maxOffset := max(m.page.TotalLineCount()-m.page.Height, 0)
	return min(max(offset, 0), maxOffset)
}

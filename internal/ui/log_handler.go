package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studydesk/internal/assistant"
)

// Sender is the part of *tea.Program the relay needs.
type Sender interface {
	Send(msg tea.Msg)
}

type sendTarget struct{ s Sender }

// Relay forwards messages from background goroutines (reply timers,
// log records) into a running program. Messages sent before SetProgram
// are dropped.
type Relay struct {
	target atomic.Pointer[sendTarget]
}

func NewRelay() *Relay { return &Relay{} }

func (r *Relay) SetProgram(s Sender) {
	if s == nil {
		r.target.Store(nil)
		return
	}
	r.target.Store(&sendTarget{s: s})
}

func (r *Relay) Send(msg tea.Msg) {
	t := r.target.Load()
	if t == nil {
		return
	}
	t.s.Send(msg)
}

// AssistantReply matches the assistant's OnReply hook.
func (r *Relay) AssistantReply(msg assistant.Message) {
	r.Send(assistantReplyMsg{reply: msg})
}

type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

type logRecordFadeMsg struct{ seq int }

const logRecordFadeDelay = 5 * time.Second

// TUILogHandler routes slog records at or above its level into the
// program through a Relay. Derived handlers share the relay.
type TUILogHandler struct {
	level  slog.Level
	relay  *Relay
	attrs  []slog.Attr
	groups []string
}

func NewTUILogHandler(level slog.Level, relay *Relay) *TUILogHandler {
	return &TUILogHandler{level: level, relay: relay}
}

func (h *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	prefix := strings.Join(h.groups, ".")
	if prefix != "" {
		prefix += "."
	}
	var parts []string
	for _, attr := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	h.relay.Send(logRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

func (h *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TUILogHandler{
		level:  h.level,
		relay:  h.relay,
		attrs:  append(append([]slog.Attr(nil), h.attrs...), attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *TUILogHandler) WithGroup(name string) slog.Handler {
	return &TUILogHandler{
		level:  h.level,
		relay:  h.relay,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append(append([]string(nil), h.groups...), name),
	}
}

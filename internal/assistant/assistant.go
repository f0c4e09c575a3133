// Package assistant implements the scripted study assistant: an
// append-only transcript and a two-state machine that answers each
// submission after a fixed delay.
package assistant

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"studydesk/internal/clock"
)

const DefaultReplyDelay = 1500 * time.Millisecond

type Option func(*Assistant)

func WithClock(c clock.Clock) Option {
	return func(a *Assistant) { a.clock = c }
}

func WithResponder(r Responder) Option {
	return func(a *Assistant) { a.responder = r }
}

func WithDelay(d time.Duration) Option {
	return func(a *Assistant) { a.delay = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// OnReply registers fn to be called after each assistant reply is
// appended. fn runs on the timer's goroutine without the lock held.
func OnReply(fn func(Message)) Option {
	return func(a *Assistant) { a.onReply = fn }
}

type pendingReply struct {
	userID int64
	input  string
	timer  *clock.Timer
}

// Assistant owns one conversation. It is Idle when no reply is pending
// and AwaitingReply otherwise. Submissions made while AwaitingReply are
// queued; replies are appended in submission order.
type Assistant struct {
	mu        sync.Mutex
	clock     clock.Clock
	responder Responder
	delay     time.Duration
	logger    *slog.Logger
	onReply   func(Message)

	lastID     int64
	transcript []Message
	pending    []*pendingReply
	closed     bool
}

func New(opts ...Option) *Assistant {
	a := &Assistant{
		clock:     clock.Real(),
		responder: KeywordResponder{},
		delay:     DefaultReplyDelay,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.appendLocked(greeting, SenderAssistant, CategoryText)
	return a
}

// Submit appends text as a user message and schedules the reply. Blank
// input is ignored and reported as false.
func (a *Assistant) Submit(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}
	msg := a.appendLocked(text, SenderUser, CategoryText)
	p := &pendingReply{userID: msg.ID, input: text}
	a.pending = append(a.pending, p)
	queued := len(a.pending)
	a.mu.Unlock()

	a.logger.Debug("assistant submission", "id", msg.ID, "queued", queued)

	// Scheduled outside the lock: a zero delay on the fake clock runs
	// the callback synchronously.
	timer := a.clock.AfterFunc(a.delay, func() { a.deliver(p) })

	a.mu.Lock()
	p.timer = timer
	a.mu.Unlock()
	return true
}

// deliver answers p and every submission queued ahead of it, so replies
// never overtake each other even if their timers fire out of order.
func (a *Assistant) deliver(p *pendingReply) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	idx := -1
	for i, q := range a.pending {
		if q == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		a.mu.Unlock()
		return
	}

	due := a.pending[:idx+1]
	a.pending = append([]*pendingReply(nil), a.pending[idx+1:]...)
	replies := make([]Message, 0, len(due))
	for _, q := range due {
		if q != p {
			q.timer.Stop()
		}
		replies = append(replies, a.appendLocked(
			a.responder.Respond(q.input),
			SenderAssistant,
			a.responder.Classify(q.input),
		))
	}
	notify := a.onReply
	a.mu.Unlock()

	for _, r := range replies {
		a.logger.Debug("assistant reply", "id", r.ID, "category", string(r.Category))
		if notify != nil {
			notify(r)
		}
	}
}

// appendLocked assigns the next id and appends a new message. Callers
// hold a.mu, except New which runs before the value is shared.
func (a *Assistant) appendLocked(content string, sender Sender, category Category) Message {
	a.lastID++
	msg := Message{
		ID:        a.lastID,
		Content:   content,
		Sender:    sender,
		Timestamp: a.clock.Now(),
		Category:  category,
	}
	next := make([]Message, len(a.transcript), len(a.transcript)+1)
	copy(next, a.transcript)
	a.transcript = append(next, msg)
	return msg
}

// Transcript returns a copy of the conversation in id order.
func (a *Assistant) Transcript() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Message, len(a.transcript))
	copy(out, a.transcript)
	return out
}

func (a *Assistant) IsAwaitingReply() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending) > 0
}

// Pending reports how many submissions are still waiting for a reply.
func (a *Assistant) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// LastReply returns the most recent assistant message.
func (a *Assistant) LastReply() (Message, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.transcript) - 1; i >= 0; i-- {
		if a.transcript[i].Sender == SenderAssistant {
			return a.transcript[i], true
		}
	}
	return Message{}, false
}

// Close cancels every pending reply. Later submissions are ignored.
func (a *Assistant) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	cancelled := len(a.pending)
	for _, p := range a.pending {
		p.timer.Stop()
	}
	a.pending = nil
	a.mu.Unlock()

	if cancelled > 0 {
		a.logger.Debug("assistant closed with pending replies", "cancelled", cancelled)
	}
}

package assistant

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"studydesk/internal/clock"
)

var start = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestAssistant(t *testing.T, opts ...Option) (*Assistant, *clock.FakeClock) {
	t.Helper()
	fc := clock.Fake(start)
	base := []Option{
		WithClock(fc),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(append(base, opts...)...), fc
}

func TestNewSeedsGreeting(t *testing.T) {
	a, _ := newTestAssistant(t)
	msgs := a.Transcript()
	if len(msgs) != 1 {
		t.Fatalf("expected seed transcript of 1, got %d", len(msgs))
	}
	seed := msgs[0]
	if seed.ID != 1 || seed.Sender != SenderAssistant || seed.Category != CategoryText {
		t.Fatalf("unexpected seed message: %#v", seed)
	}
	if !strings.HasPrefix(seed.Content, "Hi! I'm your AI Study Assistant.") {
		t.Fatalf("unexpected greeting: %q", seed.Content)
	}
	if a.IsAwaitingReply() {
		t.Fatalf("fresh assistant should be idle")
	}
}

func TestSubmitSummarizeEndToEnd(t *testing.T) {
	a, fc := newTestAssistant(t)

	if !a.Submit("Summarize chapter 5") {
		t.Fatalf("expected submission to be accepted")
	}
	msgs := a.Transcript()
	if len(msgs) != 2 {
		t.Fatalf("expected user message appended immediately, len=%d", len(msgs))
	}
	if msgs[1].Sender != SenderUser || msgs[1].Content != "Summarize chapter 5" || msgs[1].Category != CategoryText {
		t.Fatalf("unexpected user message: %#v", msgs[1])
	}
	if !a.IsAwaitingReply() {
		t.Fatalf("expected AwaitingReply after submit")
	}

	fc.Advance(DefaultReplyDelay - time.Millisecond)
	if len(a.Transcript()) != 2 {
		t.Fatalf("reply arrived before the delay elapsed")
	}

	fc.Advance(time.Millisecond)
	msgs = a.Transcript()
	if len(msgs) != 3 {
		t.Fatalf("expected reply after delay, len=%d", len(msgs))
	}
	reply := msgs[2]
	if reply.Sender != SenderAssistant || reply.Category != CategorySummary {
		t.Fatalf("unexpected reply: sender=%s category=%s", reply.Sender, reply.Category)
	}
	if !strings.Contains(reply.Content, "Chapter 5: Derivatives") {
		t.Fatalf("unexpected summary content: %q", reply.Content)
	}
	if !reply.Timestamp.Equal(start.Add(DefaultReplyDelay)) {
		t.Fatalf("reply timestamp=%v", reply.Timestamp)
	}
	if a.IsAwaitingReply() {
		t.Fatalf("expected Idle after reply")
	}
}

func TestSubmitBlankIsNoop(t *testing.T) {
	cases := []string{"", "   ", "\t\n", " \r\n "}
	for _, in := range cases {
		a, fc := newTestAssistant(t)
		if a.Submit(in) {
			t.Fatalf("blank input %q should be rejected", in)
		}
		if got := len(a.Transcript()); got != 1 {
			t.Fatalf("input %q changed transcript length to %d", in, got)
		}
		if a.IsAwaitingReply() {
			t.Fatalf("input %q left assistant awaiting reply", in)
		}
		if fc.Pending() != 0 {
			t.Fatalf("input %q scheduled a timer", in)
		}
	}
}

func TestIDsIncreaseByOneAcrossSenders(t *testing.T) {
	a, fc := newTestAssistant(t)
	a.Submit("explain limits")
	fc.Advance(DefaultReplyDelay)
	a.Submit("hello")
	a.Submit("make a flashcard")
	fc.Advance(DefaultReplyDelay)

	msgs := a.Transcript()
	if len(msgs) != 7 {
		t.Fatalf("expected 7 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.ID != int64(i+1) {
			t.Fatalf("message %d has id %d", i, m.ID)
		}
	}
}

func TestQueuedSubmissionsReplyInOrder(t *testing.T) {
	a, fc := newTestAssistant(t)
	a.Submit("flashcard please")
	fc.Advance(500 * time.Millisecond)
	a.Submit("explain vectors")
	if a.Pending() != 2 {
		t.Fatalf("expected 2 queued replies, got %d", a.Pending())
	}

	fc.Advance(time.Second)
	msgs := a.Transcript()
	if len(msgs) != 4 || msgs[3].Category != CategoryFlashcard {
		t.Fatalf("expected first reply to be the flashcard, got %#v", msgs[len(msgs)-1])
	}
	if !a.IsAwaitingReply() {
		t.Fatalf("second reply still pending, expected AwaitingReply")
	}

	fc.Advance(500 * time.Millisecond)
	msgs = a.Transcript()
	if len(msgs) != 5 || msgs[4].Category != CategoryExplanation {
		t.Fatalf("expected explanation reply last, got %#v", msgs[len(msgs)-1])
	}
	if a.IsAwaitingReply() {
		t.Fatalf("expected Idle once the queue drained")
	}
}

func TestUserMessageAlwaysPrecedesItsReply(t *testing.T) {
	inputs := []string{"summary", "a", "EXPLAIN", "Flashcards!", "what is x?"}
	for _, in := range inputs {
		a, fc := newTestAssistant(t)
		a.Submit(in)
		fc.Advance(DefaultReplyDelay)
		msgs := a.Transcript()
		if len(msgs) != 3 {
			t.Fatalf("input %q: expected 3 messages, got %d", in, len(msgs))
		}
		if msgs[1].Sender != SenderUser || msgs[1].Content != in {
			t.Fatalf("input %q: user message not second: %#v", in, msgs[1])
		}
		if msgs[2].Sender != SenderAssistant {
			t.Fatalf("input %q: reply not third", in)
		}
	}
}

func TestCloseCancelsPendingReplies(t *testing.T) {
	a, fc := newTestAssistant(t)
	a.Submit("summarize this")
	a.Submit("and explain that")
	a.Close()

	if a.IsAwaitingReply() {
		t.Fatalf("Close should clear the awaiting state")
	}
	if fc.Pending() != 0 {
		t.Fatalf("Close should stop timers, %d still pending", fc.Pending())
	}
	fc.Advance(time.Minute)
	if got := len(a.Transcript()); got != 3 {
		t.Fatalf("stale reply appended after Close, len=%d", got)
	}
	if a.Submit("anything") {
		t.Fatalf("Submit after Close should be rejected")
	}
	a.Close()
}

func TestOnReplyNotified(t *testing.T) {
	var mu sync.Mutex
	var got []Message
	a, fc := newTestAssistant(t, OnReply(func(m Message) {
		mu.Lock()
		got = append(got, m)
		mu.Unlock()
	}))
	a.Submit("explain recursion")
	fc.Advance(DefaultReplyDelay)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].Category != CategoryExplanation || got[0].ID != 3 {
		t.Fatalf("unexpected notifications: %#v", got)
	}
}

func TestCustomDelayAndResponder(t *testing.T) {
	a, fc := newTestAssistant(t, WithDelay(2*time.Second), WithResponder(echoResponder{}))
	a.Submit("ping")
	fc.Advance(1500 * time.Millisecond)
	if !a.IsAwaitingReply() {
		t.Fatalf("custom delay not honoured")
	}
	fc.Advance(500 * time.Millisecond)
	last, ok := a.LastReply()
	if !ok || last.Content != "echo: ping" || last.Category != CategoryText {
		t.Fatalf("unexpected reply from custom responder: %#v", last)
	}
}

func TestZeroDelayRepliesImmediately(t *testing.T) {
	a, _ := newTestAssistant(t, WithDelay(0))
	a.Submit("summary")
	msgs := a.Transcript()
	if len(msgs) != 3 || msgs[2].Category != CategorySummary {
		t.Fatalf("expected synchronous reply, got %d messages", len(msgs))
	}
	if a.IsAwaitingReply() {
		t.Fatalf("expected Idle")
	}
}

func TestTranscriptIsACopy(t *testing.T) {
	a, _ := newTestAssistant(t)
	msgs := a.Transcript()
	msgs[0].Content = "mutated"
	if a.Transcript()[0].Content == "mutated" {
		t.Fatalf("Transcript exposed internal storage")
	}
}

func TestLastReplySeed(t *testing.T) {
	a, _ := newTestAssistant(t)
	a.Submit("question")
	last, ok := a.LastReply()
	if !ok || last.ID != 1 {
		t.Fatalf("expected seed greeting as last reply while awaiting, got %#v", last)
	}
}

type echoResponder struct{}

func (echoResponder) Classify(string) Category { return CategoryText }
func (echoResponder) Respond(in string) string  { return "echo: " + in }

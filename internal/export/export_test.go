package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"studydesk/internal/assistant"
)

var t0 = time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

func sampleMessages() []assistant.Message {
	return []assistant.Message{
		{ID: 1, Content: "Hi there", Sender: assistant.SenderAssistant, Timestamp: t0, Category: assistant.CategoryText},
		{ID: 2, Content: "Summarize chapter 5", Sender: assistant.SenderUser, Timestamp: t0.Add(time.Second), Category: assistant.CategoryText},
		{ID: 3, Content: "   ", Sender: assistant.SenderUser, Timestamp: t0.Add(2 * time.Second), Category: assistant.CategoryText},
		{ID: 4, Content: "**Chapter 5 Summary**", Sender: assistant.SenderAssistant, Timestamp: t0.Add(3 * time.Second), Category: assistant.CategorySummary},
	}
}

func TestBuildTranscriptMarkdown_Headings(t *testing.T) {
	out := BuildTranscriptMarkdown(sampleMessages())
	want := "## Assistant\n\nHi there\n\n## You\n\nSummarize chapter 5\n\n## Assistant (summary)\n\n**Chapter 5 Summary**\n"
	if out != want {
		t.Fatalf("unexpected transcript:\n%q\nwant:\n%q", out, want)
	}
}

func TestBuildConversationMarkdown_Header(t *testing.T) {
	c := Conversation{ID: "abc", Role: "student", StartedAt: t0, ExportedAt: t0.Add(time.Hour), Messages: sampleMessages()}
	out := BuildConversationMarkdown(c, time.Time{})
	for _, want := range []string{"# Study session abc", "Exported: 2024-01-20T11:00:00Z", "role: student", "message_count: 4", "## You"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestNewConversation(t *testing.T) {
	c := NewConversation("teacher", sampleMessages())
	if len(c.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", c.ID)
	}
	if !c.StartedAt.Equal(t0) {
		t.Fatalf("expected start from first message, got %v", c.StartedAt)
	}
	other := NewConversation("teacher", nil)
	if other.ID == c.ID {
		t.Fatalf("expected distinct ids")
	}
	if !other.StartedAt.IsZero() {
		t.Fatalf("expected zero start for empty transcript")
	}
}

func TestExport_WritesEachFormat(t *testing.T) {
	dir := t.TempDir()
	c := Conversation{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Role: "student", StartedAt: t0, Messages: sampleMessages()}

	cases := []struct {
		format string
		ext    string
		check  func(t *testing.T, raw []byte)
	}{
		{"md", "md", func(t *testing.T, raw []byte) {
			if !strings.Contains(string(raw), "## Assistant (summary)") {
				t.Fatalf("markdown export missing heading:\n%s", raw)
			}
		}},
		{"json", "json", func(t *testing.T, raw []byte) {
			var got Conversation
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("decode json: %v", err)
			}
			if got.ID != c.ID || len(got.Messages) != 4 || got.Messages[3].Category != assistant.CategorySummary {
				t.Fatalf("unexpected json export: %#v", got)
			}
		}},
		{"yaml", "yaml", func(t *testing.T, raw []byte) {
			var got Conversation
			if err := yaml.Unmarshal(raw, &got); err != nil {
				t.Fatalf("decode yaml: %v", err)
			}
			if got.Role != "student" || len(got.Messages) != 4 {
				t.Fatalf("unexpected yaml export: %#v", got)
			}
		}},
		{"html", "html", func(t *testing.T, raw []byte) {
			s := string(raw)
			if !strings.Contains(s, "<h2>Assistant (summary)</h2>") || !strings.Contains(s, "<strong>Chapter 5 Summary</strong>") {
				t.Fatalf("unexpected html export:\n%s", s)
			}
		}},
	}
	for _, tc := range cases {
		e, err := New(dir, tc.format)
		if err != nil {
			t.Fatalf("new %s exporter: %v", tc.format, err)
		}
		path, err := e.Export(c)
		if err != nil {
			t.Fatalf("export %s: %v", tc.format, err)
		}
		want := filepath.Join(dir, "conversation-"+c.ID+"."+tc.ext)
		if path != want {
			t.Fatalf("expected path %s, got %s", want, path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read export: %v", err)
		}
		tc.check(t, raw)
	}
}

func TestNew_DefaultsToExportsUnderCwd(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	e, err := New("", "md")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if e.Dir() != filepath.Join(cwd, "exports") {
		t.Fatalf("unexpected default dir %s", e.Dir())
	}
	e, err = New("out", "md")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if e.Dir() != filepath.Join(cwd, "out") {
		t.Fatalf("expected relative dir under cwd, got %s", e.Dir())
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := New(t.TempDir(), "pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExport_TypedErrorWhenDirIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	e, err := New(blocker, "json")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = e.Export(Conversation{ID: "x"})
	var exportErr *Error
	if !errors.As(err, &exportErr) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if exportErr.Format != "json" || !strings.HasSuffix(exportErr.Path, "conversation-x.json") {
		t.Fatalf("unexpected error fields: %#v", exportErr)
	}
}

func TestSafeFileName(t *testing.T) {
	if got := safeFileName(" a/b:c d "); got != "a_b_c_d" {
		t.Fatalf("unexpected safe name %q", got)
	}
	if got := safeFileName(""); got != "session" {
		t.Fatalf("unexpected empty name %q", got)
	}
}

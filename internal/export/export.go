package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"studydesk/internal/assistant"
)

// Conversation is an exported assistant transcript.
type Conversation struct {
	ID         string              `json:"id" yaml:"id"`
	Role       string              `json:"role,omitempty" yaml:"role,omitempty"`
	StartedAt  time.Time           `json:"started_at" yaml:"started_at"`
	ExportedAt time.Time           `json:"exported_at" yaml:"exported_at"`
	Messages   []assistant.Message `json:"messages" yaml:"messages"`
}

// NewConversation wraps a transcript under a fresh random id. StartedAt
// is taken from the first message.
func NewConversation(role string, msgs []assistant.Message) Conversation {
	c := Conversation{
		ID:       uuid.NewString(),
		Role:     role,
		Messages: msgs,
	}
	if len(msgs) > 0 {
		c.StartedAt = msgs[0].Timestamp
	}
	return c
}

type Exporter struct {
	dir       string
	format    string
	formatter Formatter
	now       func() time.Time
}

// New returns an exporter writing into dir. A relative dir is resolved
// against the working directory and an empty one means "<cwd>/exports".
func New(dir, format string) (*Exporter, error) {
	formatter, err := NewFormatter(format)
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve cwd: %w", err)
	}
	dir = strings.TrimSpace(dir)
	switch {
	case dir == "":
		dir = filepath.Join(cwd, "exports")
	case !filepath.IsAbs(dir):
		dir = filepath.Join(cwd, dir)
	}
	return &Exporter{
		dir:       dir,
		format:    formatter.Extension(),
		formatter: formatter,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (e *Exporter) Dir() string { return e.dir }

func (e *Exporter) Export(c Conversation) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ExportedAt.IsZero() {
		c.ExportedAt = e.now()
	}
	path := filepath.Join(e.dir, "conversation-"+safeFileName(c.ID)+"."+e.formatter.Extension())

	var buf bytes.Buffer
	if err := e.formatter.Format(c, &buf); err != nil {
		return "", &Error{Format: e.format, Path: path, Err: err}
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", &Error{Format: e.format, Path: path, Err: fmt.Errorf("create export directory: %w", err)}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", &Error{Format: e.format, Path: path, Err: fmt.Errorf("write export file: %w", err)}
	}
	return path, nil
}

// BuildTranscriptMarkdown renders messages as markdown sections, one per
// message. Blank messages are skipped.
func BuildTranscriptMarkdown(msgs []assistant.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		if m.FromUser() {
			b.WriteString("## You\n\n")
		} else {
			header := "## Assistant"
			if m.Category != "" && m.Category != assistant.CategoryText {
				header += " (" + string(m.Category) + ")"
			}
			b.WriteString(header + "\n\n")
		}
		b.WriteString(content + "\n\n")
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func BuildConversationMarkdown(c Conversation, now time.Time) string {
	if !c.ExportedAt.IsZero() {
		now = c.ExportedAt
	}
	var b strings.Builder
	b.WriteString("# Study session " + c.ID + "\n\n")
	b.WriteString("Exported: " + now.Format(time.RFC3339) + "\n\n")
	b.WriteString("```text\n")
	b.WriteString("role: " + safeValue(c.Role) + "\n")
	if !c.StartedAt.IsZero() {
		b.WriteString("started: " + c.StartedAt.Format(time.RFC3339) + "\n")
	}
	b.WriteString(fmt.Sprintf("message_count: %d\n", len(c.Messages)))
	b.WriteString("```\n\n")
	b.WriteString(BuildTranscriptMarkdown(c.Messages))
	return b.String()
}

func safeFileName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "session"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(s)
}

func safeValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "n/a"
	}
	return s
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studydesk/internal/assistant"
	"studydesk/internal/config"
	"studydesk/internal/export"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STUDYDESK_DATA", "")
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestAskPrintsReply(t *testing.T) {
	out, err := execute(t, "ask", "--reply-delay", "0", "--category", "Make", "flashcards", "please")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.HasPrefix(out, "[flashcard]\n") {
		t.Fatalf("expected category line, got:\n%s", out)
	}
	if !strings.Contains(out, "I'll help you create flashcards!") {
		t.Fatalf("expected flashcard reply, got:\n%s", out)
	}
}

func TestAskRejectsBlankInput(t *testing.T) {
	if _, err := execute(t, "ask", "   "); err == nil || !strings.Contains(err.Error(), "blank") {
		t.Fatalf("expected blank input error, got %v", err)
	}
	if _, err := execute(t, "ask"); err == nil {
		t.Fatalf("expected missing argument error")
	}
}

func TestSearchListsMatches(t *testing.T) {
	out, err := execute(t, "search", "chemistry")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, want := range []string{"KIND", "Organic Chemistry", "Chemistry Lab Partners", "study-group"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	out, err = execute(t, "search", "--limit", "1", "chemistry")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n"); lines != 1 {
		t.Fatalf("expected header plus one hit, got:\n%s", out)
	}

	out, err = execute(t, "search", "zzzz-no-such-thing")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.TrimSpace(out) != "No matches." {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSearchUsesDataOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	raw := "courses:\n  - {id: \"9\", title: \"Quantum Basket Weaving\", instructor: \"Dr. Who\", progress: 10}\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	out, err := execute(t, "search", "--data", path, "basket")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Quantum Basket Weaving") {
		t.Fatalf("expected override course, got:\n%s", out)
	}
}

func TestExportDemoWritesConversation(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "export-demo", "--export-dir", dir, "--export-format", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("export-demo: %v", err)
	}
	path := strings.TrimSpace(out)
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, ".json") {
		t.Fatalf("unexpected export path %q", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var conv export.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(conv.Messages) != 7 {
		t.Fatalf("expected greeting plus three exchanges, got %d messages", len(conv.Messages))
	}
	wantCategories := []assistant.Category{assistant.CategoryFlashcard, assistant.CategorySummary, assistant.CategoryExplanation}
	for i, want := range wantCategories {
		if got := conv.Messages[2+2*i].Category; got != want {
			t.Fatalf("reply %d: expected %s, got %s", i, want, got)
		}
	}
	for i, m := range conv.Messages {
		if m.ID != int64(i+1) {
			t.Fatalf("message %d has id %d", i, m.ID)
		}
	}
}

func TestInvalidFlagsFail(t *testing.T) {
	if _, err := execute(t, "search", "--role", "janitor", "x"); !errors.Is(err, config.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := execute(t, "export-demo", "--export-format", "pdf"); !errors.Is(err, export.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExportDemoLogsExportDir(t *testing.T) {
	t.Setenv("STUDYDESK_DATA", "")
	dir := t.TempDir()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"export-demo", "--export-dir", dir, "--log-level", "info"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("export-demo: %v", err)
	}
	logs := stderr.String()
	if !strings.Contains(logs, "exported demo conversation") || !strings.Contains(logs, "dir="+dir) {
		t.Fatalf("expected export dir in logs, got:\n%s", logs)
	}
}

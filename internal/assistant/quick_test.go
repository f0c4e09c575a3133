package assistant

import "testing"

func TestQuickActionPrompts(t *testing.T) {
	cases := map[string]string{
		"flashcards": "Create flashcards for my current mathematics unit",
		"summary":    "Summarize the last chapter I studied",
		"explain":    "Explain the concept of derivatives in simple terms",
		"unknown":    "",
		"":           "",
	}
	for name, want := range cases {
		if got := QuickAction(name); got != want {
			t.Fatalf("QuickAction(%q)=%q want %q", name, got, want)
		}
	}
}

func TestQuickActionDoesNotTouchTranscript(t *testing.T) {
	a, _ := newTestAssistant(t)
	_ = QuickAction("flashcards")
	if len(a.Transcript()) != 1 || a.IsAwaitingReply() {
		t.Fatalf("quick action mutated assistant state")
	}
}

func TestQuickActionPromptsClassifyToTheirCategory(t *testing.T) {
	r := KeywordResponder{}
	want := map[string]Category{
		"flashcards": CategoryFlashcard,
		"summary":    CategorySummary,
		"explain":    CategoryExplanation,
	}
	for _, s := range Shortcuts() {
		if got := r.Classify(s.Prompt); got != want[s.Name] {
			t.Fatalf("shortcut %s classified as %s want %s", s.Name, got, want[s.Name])
		}
	}
}

func TestShortcutsReturnsCopy(t *testing.T) {
	s := Shortcuts()
	if len(s) != 3 {
		t.Fatalf("expected 3 shortcuts, got %d", len(s))
	}
	s[0].Prompt = "changed"
	if QuickAction("flashcards") == "changed" {
		t.Fatalf("Shortcuts exposed internal slice")
	}
}

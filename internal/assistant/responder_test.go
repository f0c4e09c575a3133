package assistant

import "testing"

func TestKeywordResponderClassify(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"flashcard please", CategoryFlashcard},
		{"FLASHCARD please", CategoryFlashcard},
		{"Create Flashcards for physics", CategoryFlashcard},
		{"explain this flashcard", CategoryFlashcard},
		{"give me a summary and explain it", CategorySummary},
		{"Summarize chapter 5", CategorySummary},
		{"SUMMARY", CategorySummary},
		{"Explain the concept of derivatives", CategoryExplanation},
		{"can you EXPLAIN?", CategoryExplanation},
		{"what's due tomorrow?", CategoryText},
		{"", CategoryText},
		{"flash card", CategoryText},
	}
	r := KeywordResponder{}
	for _, tc := range cases {
		if got := r.Classify(tc.in); got != tc.want {
			t.Fatalf("Classify(%q)=%s want %s", tc.in, got, tc.want)
		}
	}
}

func TestKeywordResponderRespondMatchesCategory(t *testing.T) {
	r := KeywordResponder{}
	for _, in := range []string{"flashcard", "summary", "explain", "hello"} {
		got := r.Respond(in)
		if got == "" {
			t.Fatalf("Respond(%q) returned empty content", in)
		}
		if got != replyTemplates[r.Classify(in)] {
			t.Fatalf("Respond(%q) does not match the template for its category", in)
		}
	}
}

func TestKeywordResponderIsDeterministic(t *testing.T) {
	r := KeywordResponder{}
	in := "Please summarize and explain chapter 3"
	first, firstCat := r.Respond(in), r.Classify(in)
	for i := 0; i < 5; i++ {
		if r.Respond(in) != first || r.Classify(in) != firstCat {
			t.Fatalf("responder output changed between calls")
		}
	}
}

func TestRespondIgnoresRestOfInput(t *testing.T) {
	r := KeywordResponder{}
	if r.Respond("explain derivatives") != r.Respond("explain the french revolution") {
		t.Fatalf("template content should not depend on text beyond the keyword")
	}
}

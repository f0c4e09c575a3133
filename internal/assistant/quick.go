package assistant

// Shortcut is a named prompt the UI can drop into the input field. It
// never submits on its own.
type Shortcut struct {
	Name   string
	Label  string
	Prompt string
}

var shortcuts = []Shortcut{
	{Name: "flashcards", Label: "Create Flashcards", Prompt: "Create flashcards for my current mathematics unit"},
	{Name: "summary", Label: "Summarize Chapter", Prompt: "Summarize the last chapter I studied"},
	{Name: "explain", Label: "Explain Concept", Prompt: "Explain the concept of derivatives in simple terms"},
}

// Shortcuts returns the quick actions in display order.
func Shortcuts() []Shortcut {
	out := make([]Shortcut, len(shortcuts))
	copy(out, shortcuts)
	return out
}

// QuickAction returns the prefill text for name, or "" if name is not a
// known shortcut.
func QuickAction(name string) string {
	for _, s := range shortcuts {
		if s.Name == name {
			return s.Prompt
		}
	}
	return ""
}

package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Tab          key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	PrevTab      key.Binding
	NextTab      key.Binding
	PrevMatch    key.Binding
	NextMatch    key.Binding
	Search       key.Binding
	Assistant    key.Binding
	MarkAllRead  key.Binding
	SelectPrev   key.Binding
	SelectNext   key.Binding
	MarkRead     key.Binding
	Delete       key.Binding
	Export       key.Binding
	Copy         key.Binding
	Quit         key.Binding
	Submit       key.Binding
	Leave        key.Binding
	QuickActions []key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle focus"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f"),
			key.WithHelp("pgdn", "page down"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev tab/day"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next tab/day"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev match"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search page"),
		),
		Assistant: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "assistant"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark all read"),
		),
		SelectPrev: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "prev notification"),
		),
		SelectNext: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "next notification"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "mark read"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete notification"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export chat"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy reply"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave input"),
		),
		QuickActions: []key.Binding{
			key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "flashcards")),
			key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "summary")),
			key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "explain")),
		},
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.PrevTab, k.NextTab, k.Search, k.Assistant, k.Export, k.Copy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.PageDown, k.PageUp},
		{k.PrevTab, k.NextTab, k.Search, k.NextMatch, k.PrevMatch},
		{k.SelectNext, k.SelectPrev, k.MarkRead, k.Delete, k.MarkAllRead},
		{k.Assistant, k.Export, k.Copy, k.Quit},
	}
}

// inputKeys is the help shown while the assistant input has focus.
type inputKeys struct{ k keyMap }

func (i inputKeys) ShortHelp() []key.Binding {
	out := []key.Binding{i.k.Submit}
	out = append(out, i.k.QuickActions...)
	return append(out, i.k.Leave)
}

func (i inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{i.ShortHelp()}
}

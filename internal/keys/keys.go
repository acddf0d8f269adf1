// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Graph
	Enter    key.Binding
	LoadMore key.Binding
	Refresh  key.Binding
	Yank     key.Binding

	// Hunks
	NextHunk key.Binding
	PrevHunk key.Binding
	Stage    key.Binding
	Unstage  key.Binding
	Revert   key.Binding

	// Diff view
	NextFile         key.Binding
	PrevFile         key.Binding
	ToggleStaged     key.Binding
	ToggleSideBySide key.Binding
	ToggleWordDiff   key.Binding

	// General
	FocusNext    key.Binding
	Help         key.Binding
	Escape       key.Binding
	Quit         key.Binding
	ToggleStatus key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "focus left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "focus right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),

		// Graph
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view commit"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more commits"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy commit hash"),
		),

		// Hunks
		NextHunk: key.NewBinding(
			key.WithKeys("]", "J"),
			key.WithHelp("]", "next hunk"),
		),
		PrevHunk: key.NewBinding(
			key.WithKeys("[", "K"),
			key.WithHelp("[", "previous hunk"),
		),
		Stage: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stage hunk"),
		),
		Unstage: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unstage hunk"),
		),
		Revert: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "revert hunk"),
		),

		// Diff view
		NextFile: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous file"),
		),
		ToggleStaged: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "staged/unstaged"),
		),
		ToggleSideBySide: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "side by side"),
		),
		ToggleWordDiff: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "word diff mode"),
		),

		// General
		FocusNext: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next pane"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "go back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ToggleStatus: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle status bar"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Top, k.Bottom}, // Navigation
		{k.Enter, k.LoadMore, k.Refresh, k.Yank},                               // Graph
		{k.NextHunk, k.PrevHunk, k.Stage, k.Unstage, k.Revert},                 // Hunks
		{k.NextFile, k.PrevFile, k.ToggleStaged, k.ToggleSideBySide, k.ToggleWordDiff}, // Diff
		{k.FocusNext, k.Help, k.ToggleStatus, k.Escape, k.Quit},                // General
	}
}

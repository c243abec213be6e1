package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	More     key.Binding
	Enter    key.Binding

	// Actions
	Quit         key.Binding
	Help         key.Binding
	Escape       key.Binding
	Search       key.Binding
	Sort         key.Binding
	SortByID     key.Binding
	SortByTitle  key.Binding
	SortByAuthor key.Binding
	SortByBody   key.Binding
	Users        key.Binding
	Theme        key.Binding
	Retry        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		More: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "show more"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open post"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		SortByID: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort by id"),
		),
		SortByTitle: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort by title"),
		),
		SortByAuthor: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort by author"),
		),
		SortByBody: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "sort by body"),
		),
		Users: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "authors"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()

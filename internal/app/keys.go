package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings. List navigation lives in tracklist.
type KeyMap struct {
	PlayPause key.Binding
	Next      key.Binding
	Previous  key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	Shuffle   key.Binding
	Repeat    key.Binding
	Play      key.Binding
	Add       key.Binding
	AddNext   key.Binding
	Remove    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Clear     key.Binding
	Locate    key.Binding
	Focus     key.Binding
	Search    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Previous:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		SeekBack:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "seek -5%")),
		SeekFwd:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "seek +5%")),
		Shuffle:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		Repeat:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		Play:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to queue")),
		AddNext:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "play next")),
		Remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear queue")),
		Locate:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "go to current")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find track")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Previous, k.Shuffle, k.Repeat, k.Focus, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Next, k.Previous, k.SeekBack, k.SeekFwd},
		{k.Shuffle, k.Repeat, k.Clear, k.Locate},
		{k.Play, k.Add, k.AddNext, k.Remove, k.MoveUp, k.MoveDown},
		{k.Focus, k.Search, k.Help, k.Quit},
	}
}

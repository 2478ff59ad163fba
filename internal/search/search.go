// Package search is a fuzzy finder popup over the library tracks.
package search

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tideline/internal/playlist"
)

// ResultMsg is emitted on enter or escape.
type ResultMsg struct {
	Track    *playlist.Track // nil when canceled or nothing matched
	Canceled bool
}

type keyMap struct {
	Up, Down, Select, Cancel key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}

// Model is the finder state.
type Model struct {
	input   textinput.Model
	tracks  []playlist.Track
	matcher *Matcher
	matches []Match
	cursor  int
	offset  int
	width   int
	height  int
}

func New() Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "title, artist or album"
	return Model{input: ti}
}

// Open resets the query and indexes tracks.
func (m *Model) Open(tracks []playlist.Track) tea.Cmd {
	texts := make([]string, len(tracks))
	for i, t := range tracks {
		texts[i] = t.Title + " " + t.Artist + " " + t.Album
	}
	m.tracks = tracks
	m.matcher = NewMatcher(texts)
	m.input.SetValue("")
	m.cursor, m.offset = 0, 0
	m.refresh()
	return m.input.Focus()
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.input.Width = max(m.popupWidth()-2-len(m.input.Prompt)-1, 1)
}

// Query returns the typed text.
func (m Model) Query() string { return m.input.Value() }

// Matches returns the matching tracks, best first.
func (m Model) Matches() []playlist.Track {
	out := make([]playlist.Track, len(m.matches))
	for i, match := range m.matches {
		out[i] = m.tracks[match.Index]
	}
	return out
}

func (m *Model) refresh() {
	if m.matcher == nil {
		m.matches = nil
		return
	}
	m.matches = m.matcher.Search(m.input.Value())
	m.cursor = min(m.cursor, max(len(m.matches)-1, 0))
	m.adjustOffset()
}

func (m *Model) adjustOffset() {
	visible := m.visibleHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// Update handles keys; anything else goes to the text input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Cancel):
			m.input.Blur()
			return m, func() tea.Msg { return ResultMsg{Canceled: true} }
		case key.Matches(k, keys.Select):
			m.input.Blur()
			var selected *playlist.Track
			if m.cursor < len(m.matches) {
				t := m.tracks[m.matches[m.cursor].Index]
				selected = &t
			}
			return m, func() tea.Msg { return ResultMsg{Track: selected} }
		case key.Matches(k, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustOffset()
			}
			return m, nil
		case key.Matches(k, keys.Down):
			if m.cursor < len(m.matches)-1 {
				m.cursor++
				m.adjustOffset()
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor, m.offset = 0, 0
		m.refresh()
	}
	return m, cmd
}

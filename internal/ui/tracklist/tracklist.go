// Package tracklist is a scrollable, focusable list of tracks. It renders
// both the library and the play queue.
package tracklist

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tideline/internal/playlist"
	"github.com/llehouerou/tideline/internal/ui"
)

// KeyMap defines the navigation bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	PageUp key.Binding
	PageDn key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultKeyMap returns vim-style navigation bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		PageUp: key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDn: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	}
}

// Model represents the list state.
type Model struct {
	ui.Base
	keys    KeyMap
	title   string
	badges  string
	tracks  []playlist.Track
	current int // playlist.NotFound when no track is current
	cursor  int
	offset  int
	dimPast bool
}

// New creates an empty list titled title.
func New(title string) Model {
	return Model{
		keys:    DefaultKeyMap(),
		title:   title,
		current: playlist.NotFound,
	}
}

// WithDimmedPast renders the tracks before the current one dimmed, as a
// queue does for what has already played.
func (m Model) WithDimmedPast() Model {
	m.dimPast = true
	return m
}

// SetTracks replaces the listed tracks. The cursor stays on the same track
// when it is still listed.
func (m *Model) SetTracks(tracks []playlist.Track, current int) {
	var selected *playlist.Track
	if t, ok := m.Selected(); ok {
		selected = &t
	}
	m.tracks = tracks
	m.current = current
	m.cursor = min(m.cursor, max(len(tracks)-1, 0))
	if selected != nil {
		for i, t := range tracks {
			if t.Same(*selected) {
				m.cursor = i
				break
			}
		}
	}
	m.ensureCursorVisible()
}

// SetCurrent marks the track at index as current.
func (m *Model) SetCurrent(index int) {
	m.current = index
}

// SetBadges sets the text right-aligned in the header.
func (m *Model) SetBadges(s string) {
	m.badges = s
}

func (m Model) Tracks() []playlist.Track { return m.tracks }

func (m Model) Len() int { return len(m.tracks) }

func (m Model) Cursor() int { return m.cursor }

// Selected returns the track under the cursor.
func (m Model) Selected() (playlist.Track, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tracks) {
		return playlist.Track{}, false
	}
	return m.tracks[m.cursor], true
}

// SyncCursor moves the cursor to the current track.
func (m *Model) SyncCursor() {
	if m.current >= 0 && m.current < len(m.tracks) {
		m.cursor = m.current
		m.ensureCursorVisible()
	}
}

// SetCursor moves the cursor to index, clamped to the list.
func (m *Model) SetCursor(index int) {
	m.cursor = min(max(index, 0), max(len(m.tracks)-1, 0))
	m.ensureCursorVisible()
}

// Update handles navigation keys while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(keyMsg, m.keys.PageDn):
		m.moveCursor(max(m.listHeight(), 1))
	case key.Matches(keyMsg, m.keys.PageUp):
		m.moveCursor(-max(m.listHeight(), 1))
	case key.Matches(keyMsg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
	case key.Matches(keyMsg, m.keys.Bottom):
		m.SetCursor(len(m.tracks) - 1)
	}

	return m, nil
}

func (m Model) listHeight() int {
	return m.Height() - ui.PanelOverhead
}

// moveCursor moves the cursor by delta positions and ensures visibility.
func (m *Model) moveCursor(delta int) {
	if len(m.tracks) == 0 {
		return
	}
	m.SetCursor(m.cursor + delta)
}

// ensureCursorVisible adjusts the scroll offset to keep the cursor in view,
// with a margin above and below when the list is tall enough.
func (m *Model) ensureCursorVisible() {
	height := m.listHeight()
	if height <= 0 {
		return
	}
	margin := min(ui.ScrollMargin, (height-1)/2)

	if m.cursor-margin < m.offset {
		m.offset = m.cursor - margin
	}
	if m.cursor+margin >= m.offset+height {
		m.offset = m.cursor + margin - height + 1
	}
	m.offset = min(max(m.offset, 0), max(len(m.tracks)-height, 0))
}

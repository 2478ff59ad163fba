package search

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tideline/internal/ui/render"
	"github.com/llehouerou/tideline/internal/ui/styles"
)

const maxVisibleResults = 20

func (m Model) popupWidth() int {
	w := m.width * 60 / 100
	if w < 40 {
		w = min(40, m.width-4)
	}
	return max(w, 10)
}

func (m Model) popupHeight() int {
	h := m.height * 50 / 100
	if h < 10 {
		h = min(10, m.height-2)
	}
	return h
}

// visibleHeight is the number of result rows: the popup minus its border,
// the input line and the separator.
func (m Model) visibleHeight() int {
	return min(max(m.popupHeight()-4, 1), maxVisibleResults)
}

func (m Model) emptyMessage() string {
	if m.input.Value() != "" {
		return "No matches"
	}
	return "Library is empty"
}

// View renders the popup centred in the model's size.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	s := styles.T().S()
	innerW := m.popupWidth() - 2

	lines := []string{m.input.View(), render.Separator(innerW)}
	visible := m.visibleHeight()
	if len(m.matches) == 0 {
		lines = append(lines, s.Subtle.Render(m.emptyMessage()))
	}
	for i := m.offset; i < min(m.offset+visible, len(m.matches)); i++ {
		lines = append(lines, m.resultLine(i, innerW))
	}
	for len(lines) < visible+2 {
		lines = append(lines, "")
	}

	box := styles.T().PanelStyle(true).Width(innerW).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// resultLine shows "> Title" with the artist right-aligned.
func (m Model) resultLine(i, width int) string {
	s := styles.T().S()
	t := m.tracks[m.matches[i].Index]
	prefix, style := "  ", s.Base
	if i == m.cursor {
		prefix, style = "> ", s.Playing
	}

	avail := width - len(prefix)
	right := render.Truncate(t.Artist, avail/3)
	left := render.Truncate(t.Title, max(avail-lipgloss.Width(right)-1, 0))
	return style.Render(prefix) + render.Row(style.Render(left), s.Subtle.Render(right), avail)
}

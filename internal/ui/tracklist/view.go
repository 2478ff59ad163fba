package tracklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tideline/internal/icons"
	"github.com/llehouerou/tideline/internal/ui"
	"github.com/llehouerou/tideline/internal/ui/render"
	"github.com/llehouerou/tideline/internal/ui/styles"
)

// View renders the list.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	innerWidth := m.Width() - ui.BorderHeight
	header := m.renderHeader(innerWidth)
	separator := styles.T().S().Subtle.Render(render.Separator(innerWidth))
	trackList := m.renderTrackList(innerWidth, m.listHeight())

	return styles.T().PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(header + "\n" + separator + "\n" + trackList)
}

// renderHeader renders "Title (current/total)" with the badges on the right.
func (m Model) renderHeader(innerWidth int) string {
	s := styles.T().S()
	var left string
	if m.current >= 0 {
		left = fmt.Sprintf("%s (%d/%s)", m.title, m.current+1, humanize.Comma(int64(len(m.tracks))))
	} else {
		left = fmt.Sprintf("%s (%s)", m.title, humanize.Comma(int64(len(m.tracks))))
	}

	right := ""
	if m.badges != "" {
		right = s.Mode.Render(m.badges) + " "
	}
	left = render.TruncateAndPad(left, max(innerWidth-lipgloss.Width(right), 0))
	return s.Title.Render(left) + right
}

func (m Model) renderTrackList(innerWidth, listHeight int) string {
	lines := make([]string, 0, max(listHeight, 0))
	for i := range listHeight {
		idx := i + m.offset
		if idx >= len(m.tracks) {
			lines = append(lines, render.EmptyLine(innerWidth))
			continue
		}
		lines = append(lines, m.renderTrackLine(idx, innerWidth))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine renders "▶ title  artist  3:07".
func (m Model) renderTrackLine(idx, width int) string {
	track := m.tracks[idx]

	marker := icons.Playing()
	markerWidth := lipgloss.Width(marker) + 1
	prefix := strings.Repeat(" ", markerWidth)
	if idx == m.current {
		prefix = marker + " "
	}

	dur := " " + formatDuration(track.Duration)
	contentWidth := max(width-markerWidth-lipgloss.Width(dur), 0)

	// Two-column layout: title on left (60%), artist on right
	titleWidth := contentWidth * 3 / 5
	artistWidth := contentWidth - titleWidth

	line := prefix +
		render.TruncateAndPad(track.Title, titleWidth) +
		render.TruncateAndPad(track.Artist, artistWidth) +
		dur

	return m.trackStyle(idx).Render(line)
}

// trackStyle returns the style for a track based on its state.
func (m Model) trackStyle(idx int) lipgloss.Style {
	s := styles.T().S()
	isCursor := idx == m.cursor && m.IsFocused()
	isPlaying := idx == m.current
	isPlayed := m.dimPast && m.current >= 0 && idx < m.current

	switch {
	case isCursor && isPlaying:
		return s.Cursor.Inherit(s.Playing)
	case isCursor && isPlayed:
		return s.Cursor.Inherit(s.Subtle)
	case isCursor:
		return s.Cursor
	case isPlaying:
		return s.Playing
	case isPlayed:
		return s.Subtle
	default:
		return s.Base
	}
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

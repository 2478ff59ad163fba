// Package playerbar renders the now-playing bar.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tideline/internal/icons"
	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/ui"
	"github.com/llehouerou/tideline/internal/ui/render"
	"github.com/llehouerou/tideline/internal/ui/styles"
)

// Height is the rendered height: border, two content rows, border.
const Height = 2 + ui.BorderHeight

const minBarWidth = 5

// Model renders a playback.Status.
type Model struct {
	bar progress.Model
}

func New() Model {
	t := styles.T()
	return Model{
		bar: progress.New(
			progress.WithSolidFill(string(t.Primary)),
			progress.WithoutPercentage(),
			progress.WithFillCharacters('━', '─'),
		),
	}
}

// View renders st in width columns.
func (m Model) View(st playback.Status, width int) string {
	s := styles.T().S()
	innerWidth := max(width-ui.BorderHeight-2, 0) // border and padding

	return styles.T().PanelStyle(false).
		Padding(0, 1).
		Width(max(width-ui.BorderHeight, 0)).
		Render(m.trackLine(st, innerWidth) + "\n" + m.progressLine(st, innerWidth, s))
}

// trackLine shows "Title · Artist · Album" with the mode icons on the right.
func (m Model) trackLine(st playback.Status, width int) string {
	s := styles.T().S()
	modes := Modes(st)
	if modes != "" {
		modes = s.Mode.Render(modes)
	}

	t := st.CurrentTrack
	if t == nil {
		text := "Nothing playing"
		if st.IsLoaded {
			text = fmt.Sprintf("%d tracks queued", st.QueueLen)
		}
		left := render.Truncate(text, max(width-lipgloss.Width(modes)-1, 0))
		return render.Row(s.Muted.Render(left), modes, width)
	}

	title := t.Title
	if title == "" {
		title = "Unknown Track"
	}
	var info []string
	if t.Artist != "" {
		info = append(info, t.Artist)
	}
	if t.Album != "" {
		info = append(info, t.Album)
	}

	avail := max(width-lipgloss.Width(modes)-1, 0)
	title = render.Truncate(title, avail)
	left := s.Title.Render(title)
	if rest := avail - lipgloss.Width(title) - 3; len(info) > 0 && rest > 3 {
		left += s.Muted.Render(" · " + render.Truncate(strings.Join(info, " · "), rest))
	}
	return render.Row(left, modes, width)
}

// progressLine shows "▶ 1:23 ━━━━───── 3:58".
func (m Model) progressLine(st playback.Status, width int, s *styles.Styles) string {
	var pos, dur time.Duration
	if st.CurrentTrack != nil {
		dur = st.CurrentTrack.Duration
		pos = time.Duration(st.Progress * float64(dur))
	}

	status := StateIcon(st)
	left := status + " " + formatDuration(pos) + " "
	right := " " + formatDuration(dur)
	barWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if barWidth < minBarWidth {
		return s.Muted.Render(render.Truncate(status+" "+formatDuration(pos)+" / "+formatDuration(dur), width))
	}

	bar := m.bar
	bar.Width = barWidth
	return s.Base.Render(left) + bar.ViewAs(st.Progress) + s.Base.Render(right)
}

// StateIcon returns the symbol for the playback state.
func StateIcon(st playback.Status) string {
	switch st.State {
	case playback.StatePlaying:
		return icons.Play()
	case playback.StatePaused:
		return icons.Pause()
	default:
		return icons.Stop()
	}
}

// Modes returns the shuffle and repeat icons that apply, or "".
func Modes(st playback.Status) string {
	var parts []string
	if st.Shuffle {
		parts = append(parts, icons.Shuffle())
	}
	switch st.RepeatMode {
	case playback.RepeatOff:
	case playback.RepeatAll:
		parts = append(parts, icons.RepeatAll())
	case playback.RepeatOne:
		parts = append(parts, icons.RepeatOne())
	}
	return strings.Join(parts, " ")
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

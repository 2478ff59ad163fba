package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tideline/internal/ui/playerbar"
	"github.com/llehouerou/tideline/internal/ui/render"
	"github.com/llehouerou/tideline/internal/ui/styles"
)

// libraryShare is the fraction of the width given to the library panel.
const libraryShare = 0.4

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.help.Width = m.width
	panelHeight := max(m.height-playerbar.Height-m.footerHeight(), 0)
	libWidth := int(float64(m.width) * libraryShare)
	m.library.SetSize(libWidth, panelHeight)
	m.queue.SetSize(m.width-libWidth, panelHeight)
	m.search.SetSize(m.width, panelHeight)
}

func (m Model) footerHeight() int {
	return lipgloss.Height(m.help.View(m.keys))
}

// View renders the panels, the player bar and the footer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.library.View(), m.queue.View())
	if m.searching {
		panels = m.search.View()
	}
	bar := m.playerBar.View(m.status, m.width)
	return lipgloss.JoinVertical(lipgloss.Left, panels, bar, m.footer())
}

func (m Model) footer() string {
	s := styles.T().S()
	switch {
	case m.errText != "":
		return s.Error.Render(render.Truncate(m.errText, m.width))
	case m.scanning:
		return s.Muted.Render(render.Truncate("Scanning "+m.opts.LibraryFolder+"…", m.width))
	default:
		return m.help.View(m.keys)
	}
}

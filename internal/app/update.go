package app

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tideline/internal/errmsg"
	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
	"github.com/llehouerou/tideline/internal/search"
	"github.com/llehouerou/tideline/internal/ui/playerbar"
)

const seekStep = 0.05

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case LibraryLoadedMsg:
		m.scanning = false
		if msg.Err != nil {
			m.log.Error().Err(msg.Err).Str("folder", m.opts.LibraryFolder).Msg("library scan failed")
			m.errText = errmsg.Format(errmsg.OpLibraryScan, msg.Err)
			return m, nil
		}
		m.log.Info().Int("tracks", len(msg.Tracks)).Msg("library scanned")
		m.library.SetTracks(msg.Tracks, m.libraryIndex(m.status.CurrentTrack))
		return m, nil

	case StatusMsg:
		m.applyStatus(playback.Status(msg))
		return m, nil

	case statusTickMsg:
		m.applyStatus(msg.status)
		return m, waitStatus(m.opts.Statuses)

	case QueueMsg:
		m.queue.SetTracks(msg.Tracks, msg.Index)
		return m, waitEvent(m.opts.Events)

	case PlaybackErrorMsg:
		m.errText = errmsg.FormatWith(errmsg.OpPlaybackTrack, filepath.Base(msg.Path), msg.Err)
		return m, waitEvent(m.opts.Events)

	case NativeOutputMsg:
		m.errText = "Audio: " + msg.Line
		return m, waitNativeOutput(m.opts.NativeOutput)

	case CommandErrorMsg:
		m.log.Debug().Err(msg.Err).Str("op", string(msg.Op)).Msg("command failed")
		m.errText = errmsg.Format(msg.Op, msg.Err)
		return m, nil

	case search.ResultMsg:
		m.searching = false
		if msg.Track != nil {
			m.library.SetCursor(m.libraryIndex(msg.Track))
			m.setFocus(FocusLibrary)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyStatus(st playback.Status) {
	m.status = st
	m.queue.SetCurrent(st.CurrentIndex)
	m.queue.SetBadges(playerbar.Modes(st))
	m.library.SetCurrent(m.libraryIndex(st.CurrentTrack))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errText = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		if m.focus == FocusLibrary {
			m.setFocus(FocusQueue)
		} else {
			m.setFocus(FocusLibrary)
		}
		return m, nil
	case key.Matches(msg, m.keys.PlayPause):
		return m, m.run(errmsg.OpPlaybackPause, (*playback.Orchestrator).PlayPause)
	case key.Matches(msg, m.keys.Next):
		return m, m.run(errmsg.OpPlaybackSkip, (*playback.Orchestrator).Next)
	case key.Matches(msg, m.keys.Previous):
		return m, m.run(errmsg.OpPlaybackSkip, (*playback.Orchestrator).Previous)
	case key.Matches(msg, m.keys.Shuffle):
		return m, m.run(errmsg.OpShuffle, (*playback.Orchestrator).SwitchShuffle)
	case key.Matches(msg, m.keys.Repeat):
		return m, m.run(errmsg.OpRepeat, func(o *playback.Orchestrator) error {
			o.SwitchRepeatMode()
			return nil
		})
	case key.Matches(msg, m.keys.SeekBack):
		return m, m.seek(-seekStep)
	case key.Matches(msg, m.keys.SeekFwd):
		return m, m.seek(seekStep)
	case key.Matches(msg, m.keys.Clear):
		return m, m.run(errmsg.OpQueueLoad, func(o *playback.Orchestrator) error {
			return o.LoadQueue(nil, playback.LoadOptions{})
		})
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Open(m.library.Tracks())
	case key.Matches(msg, m.keys.Locate):
		m.queue.SyncCursor()
		m.library.SyncCursor()
		return m, nil
	}

	if m.focus == FocusQueue {
		return m.handleQueueKey(msg)
	}
	return m.handleLibraryKey(msg)
}

// seek moves the position of the current track by delta, as a fraction of
// its duration.
func (m Model) seek(delta float64) tea.Cmd {
	if m.status.CurrentTrack == nil {
		return nil
	}
	f := min(max(m.status.Progress+delta, 0), 1)
	return m.run(errmsg.OpPlaybackSeek, func(o *playback.Orchestrator) error {
		return o.SeekToFraction(f)
	})
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, ok := m.library.Selected()
	switch {
	case key.Matches(msg, m.keys.Play):
		if !ok {
			return m, nil
		}
		all := m.library.Tracks()
		shuffle := m.opts.ShuffleOnLoad || m.status.Shuffle
		return m, m.run(errmsg.OpPlaybackTrack, func(o *playback.Orchestrator) error {
			if err := o.LoadQueue(all, playback.LoadOptions{Shuffle: shuffle, StartWith: &t}); err != nil {
				return err
			}
			return o.Start(&t)
		})
	case key.Matches(msg, m.keys.Add):
		if !ok {
			return m, nil
		}
		return m, m.run(errmsg.OpQueueAdd, func(o *playback.Orchestrator) error {
			return o.AddToQueue(t)
		})
	case key.Matches(msg, m.keys.AddNext):
		if !ok {
			return m, nil
		}
		return m, m.run(errmsg.OpQueueAddNext, func(o *playback.Orchestrator) error {
			return o.AddNext(t)
		})
	}

	var cmd tea.Cmd
	m.library, cmd = m.library.Update(msg)
	return m, cmd
}

func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, ok := m.queue.Selected()
	i := m.queue.Cursor()
	switch {
	case key.Matches(msg, m.keys.Play):
		if !ok {
			return m, nil
		}
		return m, m.run(errmsg.OpPlaybackTrack, func(o *playback.Orchestrator) error {
			return o.Start(&t)
		})
	case key.Matches(msg, m.keys.Remove):
		if !ok {
			return m, nil
		}
		return m, m.run(errmsg.OpQueueRemove, func(o *playback.Orchestrator) error {
			return o.RemoveFromQueue(t)
		})
	case key.Matches(msg, m.keys.MoveUp):
		return m, m.move(t, ok, i, i-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m, m.move(t, ok, i, i+1)
	}

	var cmd tea.Cmd
	m.queue, cmd = m.queue.Update(msg)
	return m, cmd
}

func (m Model) move(t playlist.Track, ok bool, from, to int) tea.Cmd {
	if !ok || to < 0 || to >= m.queue.Len() {
		return nil
	}
	return m.run(errmsg.OpQueueMove, func(o *playback.Orchestrator) error {
		return o.MoveTrack(t, from, to)
	})
}

// Package app is the terminal front end: a library list, the play queue and
// a now-playing bar over a playback runner.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tideline/internal/errmsg"
	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
)

// StatusMsg carries the status after a command.
type StatusMsg playback.Status

// statusTickMsg carries a status from the listener channel; handling it
// re-arms the wait.
type statusTickMsg struct {
	status playback.Status
}

// QueueMsg carries the queue after a change.
type QueueMsg playback.QueueChange

// PlaybackErrorMsg carries an asynchronous session failure.
type PlaybackErrorMsg playback.ErrorEvent

// NativeOutputMsg carries a line written to stderr by native audio code.
type NativeOutputMsg struct {
	Line string
}

// LibraryLoadedMsg is sent when the library scan finishes.
type LibraryLoadedMsg struct {
	Tracks []playlist.Track
	Err    error
}

// CommandErrorMsg is sent when a playback command fails.
type CommandErrorMsg struct {
	Op  errmsg.Op
	Err error
}

// waitStatus delivers the next status from ch.
func waitStatus(ch <-chan playback.Status) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return statusTickMsg{status: st}
	}
}

// waitEvent delivers the next queue change or error from sub. It returns
// nil once the subscription ends.
func waitEvent(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case q := <-sub.QueueChanged:
			return QueueMsg(q)
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.Done:
			return nil
		}
	}
}

func waitNativeOutput(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return NativeOutputMsg{Line: line}
	}
}

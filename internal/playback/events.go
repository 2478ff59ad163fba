package playback

import (
	"time"

	"github.com/llehouerou/tideline/internal/playlist"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the current track changes, whatever the cause:
// a command, an automatic advance, or a queue edit that removed the current
// track.
//
// The app should handle track-related side effects (notifications, the
// status line, persistence of the current track) in response to this event.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the queue contents or order change.
type QueueChange struct {
	Tracks  []playlist.Track // play order
	Natural []playlist.Track // order restored when shuffle is switched off
	Index   int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode RepeatMode
	Shuffle    bool
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when the session reports an asynchronous failure.
type ErrorEvent struct {
	Operation string // e.g., "play"
	Path      string // track path if applicable
	Err       error
}

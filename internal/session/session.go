// Package session defines the audio rendering session the playback core drives.
//
// A Session executes commands asynchronously and reports what actually
// happened through Events. Callers must never assume a command has taken
// effect until the matching event has been observed.
package session

import "time"

// Item is the session-side representation of a queued track.
type Item struct {
	MediaID  string
	URI      string
	Title    string
	Artist   string
	Duration time.Duration
}

// RepeatMode is the repeat behaviour applied by the session when an item ends.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// Session is the contract of an external, asynchronous audio session.
//
// Index ranges are half-open: [from, to).
type Session interface {
	Prepare() error
	Play()
	Pause()
	Stop()

	// Item list
	AddItems(items ...Item)
	InsertItems(index int, items ...Item)
	RemoveItems(from, to int)
	ClearItems()
	ReplaceRange(from, to int, items []Item)
	MoveItem(from, to int)

	// Navigation
	SeekTo(index int, position time.Duration)
	SeekToNext()
	SeekToPrevious()

	// State queries. They report the live state, which events may lag.
	CurrentItemIndex() int
	CurrentPosition() time.Duration
	PlaybackState() State
	IsPlaying() bool

	// Modes
	RepeatMode() RepeatMode
	SetRepeatMode(mode RepeatMode)
	// SetShuffleModeEnabled exists so callers can force it off; shuffling is
	// owned by the queue, never by the session.
	SetShuffleModeEnabled(enabled bool)

	Events() <-chan Event
	Close() error
}

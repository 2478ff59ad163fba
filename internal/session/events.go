package session

import "time"

// Event is emitted by a Session on its event channel.
type Event interface {
	sessionEvent()
}

// State is the session's buffering/readiness state.
type State int

const (
	StateIdle State = iota
	StateBuffering
	StateReady
	StateEnded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateBuffering:
		return "Buffering"
	case StateReady:
		return "Ready"
	case StateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// TransitionReason explains why the current item changed.
type TransitionReason int

const (
	// ReasonAuto is a transition to the next item after the current one ended.
	ReasonAuto TransitionReason = iota
	// ReasonSeek is a transition caused by SeekTo, SeekToNext or SeekToPrevious.
	ReasonSeek
	// ReasonQueueReplaced is a transition caused by the current item being replaced.
	ReasonQueueReplaced
	// ReasonRepeat is the same item starting over under RepeatOne.
	ReasonRepeat
)

// String returns the reason name.
func (r TransitionReason) String() string {
	switch r {
	case ReasonAuto:
		return "Auto"
	case ReasonSeek:
		return "Seek"
	case ReasonQueueReplaced:
		return "QueueReplaced"
	case ReasonRepeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}

// PlaybackStateChanged is emitted when the session state changes.
type PlaybackStateChanged struct {
	State State
}

// IsPlayingChanged is emitted when audio starts or stops being rendered.
type IsPlayingChanged struct {
	Playing bool
}

// ItemTransition is emitted when the current item changes.
type ItemTransition struct {
	Index  int
	Reason TransitionReason
}

// PositionDiscontinuity is emitted when the position jumps (seek, restart).
type PositionDiscontinuity struct {
	Position time.Duration
}

// PlayerError is emitted when the session fails asynchronously.
type PlayerError struct {
	Index int
	Err   error
}

func (PlaybackStateChanged) sessionEvent()  {}
func (IsPlayingChanged) sessionEvent()      {}
func (ItemTransition) sessionEvent()        {}
func (PositionDiscontinuity) sessionEvent() {}
func (PlayerError) sessionEvent()           {}

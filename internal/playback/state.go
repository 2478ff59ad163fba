// internal/playback/state.go
package playback

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/llehouerou/tideline/internal/session"
)

// State represents the playback state.
type State int

const (
	StateIdle State = iota // no queue
	StateLoaded            // queue present, never started
	StatePlaying
	StatePaused
	StateEnded // reached the end of the queue; restarted by PlayPause
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoaded:
		return "Loaded"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// RepeatMode defines the repeat behavior.
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

// Next returns the mode after m in the Off, All, One cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

func (m RepeatMode) session() session.RepeatMode {
	switch m {
	case RepeatAll:
		return session.RepeatAll
	case RepeatOne:
		return session.RepeatOne
	default:
		return session.RepeatOff
	}
}

// ParseRepeatMode parses "off", "all" or "one", case-insensitively.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(s) {
	case "", "off":
		return RepeatOff, nil
	case "all":
		return RepeatAll, nil
	case "one":
		return RepeatOne, nil
	}
	return RepeatOff, errors.Newf("unknown repeat mode %q", s)
}

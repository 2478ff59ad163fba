// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryScan Op = "scan library"

	// Queue operations
	OpQueueLoad    Op = "load queue"
	OpQueueSave    Op = "save queue"
	OpQueueRestore Op = "restore queue"
	OpQueueAdd     Op = "add to queue"
	OpQueueAddNext Op = "play next"
	OpQueueRemove  Op = "remove from queue"
	OpQueueMove    Op = "move queue item"
	OpShuffle      Op = "toggle shuffle"
	OpRepeat       Op = "change repeat mode"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackPause Op = "toggle playback"
	OpPlaybackSkip  Op = "skip track"
	OpPlaybackSeek  Op = "seek"
	OpPlaybackTrack Op = "play track"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, describe(err))
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, context, describe(err))
}

// describe replaces the wrapped chain of the known playback errors with a
// short sentence; anything else is printed as is.
func describe(err error) string {
	switch {
	case errors.Is(err, playlist.ErrAlreadyQueued):
		return "track is already in the queue"
	case errors.Is(err, playlist.ErrNotFound):
		return "track is not in the queue"
	case errors.Is(err, playlist.ErrInvalidRange):
		return "out of range"
	case errors.Is(err, playback.ErrInvalidState):
		return "nothing is playing"
	default:
		return err.Error()
	}
}

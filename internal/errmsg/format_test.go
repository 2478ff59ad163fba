//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpQueueAdd,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpLibraryScan,
			err:      errors.New("permission denied"),
			expected: "Failed to scan library: permission denied",
		},
		{
			name:     "save operation",
			op:       OpQueueSave,
			err:      errors.New("disk full"),
			expected: "Failed to save queue: disk full",
		},
		{
			name:     "already queued",
			op:       OpQueueAdd,
			err:      fmt.Errorf("track x: %w", playlist.ErrAlreadyQueued),
			expected: "Failed to add to queue: track is already in the queue",
		},
		{
			name:     "not in queue",
			op:       OpQueueRemove,
			err:      fmt.Errorf("track x: %w", playlist.ErrNotFound),
			expected: "Failed to remove from queue: track is not in the queue",
		},
		{
			name:     "invalid range",
			op:       OpPlaybackSeek,
			err:      fmt.Errorf("seek fraction 2: %w", playlist.ErrInvalidRange),
			expected: "Failed to seek: out of range",
		},
		{
			name:     "idle",
			op:       OpPlaybackStart,
			err:      fmt.Errorf("start: %w", playback.ErrInvalidState),
			expected: "Failed to start playback: nothing is playing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpQueueLoad,
			context:  "album",
			err:      nil,
			expected: "",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpQueueLoad,
			context:  "",
			err:      errors.New("no tracks"),
			expected: "Failed to load queue: no tracks",
		},
		{
			name:     "includes context",
			op:       OpPlaybackTrack,
			context:  "Blue in Green",
			err:      fmt.Errorf("track x: %w", playlist.ErrNotFound),
			expected: "Failed to play track 'Blue in Green': track is not in the queue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

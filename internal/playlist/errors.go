package playlist

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound is returned when a track or index lookup fails.
	ErrNotFound = errors.New("track not found")
	// ErrAlreadyQueued is returned when inserting a track that is already queued.
	ErrAlreadyQueued = errors.New("track already queued")
	// ErrInvalidRange is returned for an empty range or an out of bounds index.
	ErrInvalidRange = errors.New("invalid range")
)

// NotFound is returned by Remove when the track is not queued.
const NotFound = -1

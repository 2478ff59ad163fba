// Package playlist holds the playback queue: an ordered list of tracks kept in
// lockstep with the items handed to the audio session.
package playlist

import (
	"time"

	"github.com/llehouerou/tideline/internal/session"
)

// Track represents a single playable track.
//
// Tracks are compared by ID only; two values with the same ID are the same
// track even if their metadata differs.
type Track struct {
	ID          string // stable identity
	Path        string // absolute path of the audio file
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Duration    time.Duration
}

// Same reports whether t and o are the same track.
func (t Track) Same(o Track) bool {
	return t.ID == o.ID
}

// URI returns the resource locator handed to the session.
func (t Track) URI() string {
	return "file://" + t.Path
}

// Item returns the session representation of t.
func (t Track) Item() session.Item {
	return session.Item{
		MediaID:  t.ID,
		URI:      t.URI(),
		Title:    t.Title,
		Artist:   t.Artist,
		Duration: t.Duration,
	}
}

// IDs returns the identities of tracks, in order.
func IDs(tracks []Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

package state

import (
	"os"

	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
)

// Restore loads a saved queue into o, positioned on the saved current track
// but not playing. Like every Orchestrator call it must run on o's goroutine,
// typically through Runner.Do. A nil or empty queue is ignored.
func Restore(o *playback.Orchestrator, q *QueueState) error {
	if q == nil || len(q.Tracks) == 0 {
		return nil
	}
	o.SetRepeatMode(q.RepeatMode)
	cur := q.Current()
	err := o.LoadQueue(q.Tracks, playback.LoadOptions{Shuffle: q.Shuffle, StartWith: cur})
	if err != nil {
		return err
	}
	if cur == nil {
		return nil
	}
	return o.SeekToTrack(*cur, 0)
}

// DropMissing removes the tracks whose file no longer exists. The saved
// current track is cleared if it was dropped. It returns how many tracks
// were removed.
func DropMissing(q *QueueState) int {
	if q == nil {
		return 0
	}
	kept := make([]playlist.Track, 0, len(q.Tracks))
	for _, t := range q.Tracks {
		if _, err := os.Stat(t.Path); err == nil {
			kept = append(kept, t)
		}
	}
	dropped := len(q.Tracks) - len(kept)
	q.Tracks = kept
	if q.Current() == nil {
		q.CurrentID = ""
	}
	return dropped
}

package playback

import (
	"github.com/cockroachdb/errors"

	"github.com/llehouerou/tideline/internal/playlist"
)

// AddToQueue appends t to the queue.
func (o *Orchestrator) AddToQueue(t playlist.Track) error {
	if err := o.requireLoaded("add to queue"); err != nil {
		return err
	}
	if err := o.store.Enqueue(t); err != nil {
		return err
	}
	o.session.AddItems(t.Item())
	o.queueDirty = true
	return nil
}

// AddNext inserts t right after the current track, or at the front when
// nothing has been started.
func (o *Orchestrator) AddNext(t playlist.Track) error {
	if err := o.requireLoaded("add next"); err != nil {
		return err
	}
	index := 0
	if o.currentTrack != nil {
		index = o.currentIndex + 1
	}
	if err := o.store.InsertAt(index, t); err != nil {
		return err
	}
	o.session.InsertItems(index, t.Item())
	o.queueDirty = true
	return nil
}

// MoveTrack moves t from oldIndex to newIndex.
func (o *Orchestrator) MoveTrack(t playlist.Track, oldIndex, newIndex int) error {
	if err := o.requireLoaded("move track"); err != nil {
		return err
	}
	if err := o.store.Move(t, oldIndex, newIndex); err != nil {
		return err
	}
	o.session.MoveItem(oldIndex, newIndex)
	if o.currentTrack != nil {
		o.currentIndex, _ = o.store.TrackIndex(*o.currentTrack)
	}
	o.queueDirty = true
	return nil
}

// RemoveFromQueue removes t.
//
// Removing the current track moves on to the track that slides into its
// place; past the end, that is the first track under RepeatAll and the new
// last track otherwise. Removing the only track unloads the queue.
func (o *Orchestrator) RemoveFromQueue(t playlist.Track) error {
	if err := o.requireLoaded("remove from queue"); err != nil {
		return err
	}
	i := o.store.Remove(t)
	if i == playlist.NotFound {
		return errors.Wrapf(playlist.ErrNotFound, "remove track %s", t.ID)
	}
	o.queueDirty = true
	if o.store.Len() == 0 {
		o.unload()
		return nil
	}
	o.session.RemoveItems(i, i+1)

	switch {
	case o.currentTrack == nil:
	case i < o.currentIndex:
		o.currentIndex--
	case i == o.currentIndex:
		o.replaceRemovedCurrent(i)
	}
	return nil
}

func (o *Orchestrator) replaceRemovedCurrent(removed int) {
	next := removed
	if next > o.store.LastIndex() {
		next = o.store.LastIndex()
		if o.repeat == RepeatAll {
			next = 0
			o.session.SeekTo(next, 0)
		}
	}
	o.setCurrent(next)
	o.progress = 0
	o.log.Debug().Int("removed", removed).Int("current", next).Msg("current track removed")
}

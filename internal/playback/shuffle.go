package playback

import "github.com/llehouerou/tideline/internal/playlist"

// SwitchShuffle toggles shuffle.
//
// The session is resynchronised with range replacements around the current
// track, which keeps its item, and so its playback, untouched. Without a
// current track the session list is rebuilt.
func (o *Orchestrator) SwitchShuffle() error {
	if err := o.requireLoaded("shuffle"); err != nil {
		return err
	}
	if o.store.Shuffled() {
		return o.shuffleOff()
	}
	return o.shuffleOn(nil)
}

// shuffleOn shuffles the queue around the current track. Without one, first
// is pinned instead when it is queued.
func (o *Orchestrator) shuffleOn(first *playlist.Track) error {
	n := o.store.Len()
	if o.currentTrack == nil || n <= 1 {
		pin := playlist.NoPin
		if first != nil {
			if i, err := o.store.TrackIndex(*first); err == nil {
				pin = i
			}
		}
		if err := o.store.Shuffle(pin); err != nil {
			return err
		}
		if n > 1 {
			o.rebuildSession()
		}
		o.queueDirty = true
		return nil
	}

	cur := o.currentIndex
	if err := o.store.Shuffle(cur); err != nil {
		return err
	}
	o.session.MoveItem(cur, 0)
	o.replaceSessionRange(1, o.store.LastIndex())
	o.currentIndex = 0
	o.queueDirty = true
	return nil
}

func (o *Orchestrator) shuffleOff() error {
	o.store.Unshuffle()
	o.queueDirty = true
	if o.store.Len() <= 1 {
		return nil
	}
	if o.currentTrack == nil {
		o.rebuildSession()
		return nil
	}

	k, err := o.store.TrackIndex(*o.currentTrack)
	if err != nil {
		o.log.Warn().Err(err).Msg("current track missing from queue, rebuilding session")
		o.currentIndex = playlist.NotFound
		o.currentTrack = nil
		o.rebuildSession()
		return nil
	}

	last := o.store.LastIndex()
	o.session.MoveItem(o.currentIndex, k)
	switch k {
	case 0:
		o.replaceSessionRange(1, last)
	case last:
		o.replaceSessionRange(0, last-1)
	default:
		o.replaceSessionRange(0, k-1)
		o.replaceSessionRange(k+1, last)
	}
	o.currentIndex = k
	return nil
}

// replaceSessionRange copies the queue's inclusive range [from, to] over the
// same range of the session.
func (o *Orchestrator) replaceSessionRange(from, to int) {
	items, err := o.store.Items(from, to)
	if err != nil {
		o.log.Warn().Err(err).Int("from", from).Int("to", to).Msg("skipping session range replacement")
		return
	}
	o.session.ReplaceRange(from, to+1, items)
}

func (o *Orchestrator) rebuildSession() {
	o.session.ClearItems()
	if o.store.Len() == 0 {
		return
	}
	items, _ := o.store.Items(0, o.store.LastIndex())
	o.session.AddItems(items...)
}

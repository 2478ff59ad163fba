package playback

import "github.com/llehouerou/tideline/internal/playlist"

// Status is a snapshot of the observable playback state.
type Status struct {
	State        State
	IsPlaying    bool
	IsEnded      bool
	IsLoaded     bool
	CurrentIndex int // playlist.NotFound before the first start
	CurrentTrack *playlist.Track
	Progress     float64 // 0..1 through the current track
	RepeatMode   RepeatMode
	Shuffle      bool
	HasNext      bool
	HasPrevious  bool
	QueueLen     int
}

// Status returns the current state.
func (o *Orchestrator) Status() Status {
	st := Status{
		State:        o.state,
		IsPlaying:    o.isPlaying,
		IsEnded:      o.isEnded,
		IsLoaded:     o.store != nil,
		CurrentIndex: o.currentIndex,
		Progress:     o.progress,
		RepeatMode:   o.repeat,
	}
	if o.currentTrack != nil {
		t := *o.currentTrack
		st.CurrentTrack = &t
	}
	if o.store != nil {
		st.Shuffle = o.store.Shuffled()
		st.QueueLen = o.store.Len()
		st.HasNext, st.HasPrevious = o.neighbours()
	}
	return st
}

// neighbours reports whether next and previous would reach another track.
// Only RepeatAll wraps around; RepeatOne still stops at either end.
func (o *Orchestrator) neighbours() (hasNext, hasPrevious bool) {
	if o.currentTrack == nil {
		return false, false
	}
	wraps := o.repeat == RepeatAll && o.store.Len() > 1
	return o.currentIndex < o.store.LastIndex() || wraps, o.currentIndex > 0 || wraps
}

// publish diffs the state against the last publication, notifies
// subscribers of what changed and hands the new Status to the listener.
func (o *Orchestrator) publish() Status {
	st := o.Status()
	prev := o.last
	o.last = st

	var (
		state *StateChange
		track *TrackChange
		mode  *ModeChange
		queue *QueueChange
		pos   *PositionChange
	)
	if st.State != prev.State {
		state = &StateChange{Previous: prev.State, Current: st.State}
	}
	if !sameTrack(prev.CurrentTrack, st.CurrentTrack) {
		track = &TrackChange{
			Previous:      prev.CurrentTrack,
			Current:       st.CurrentTrack,
			PreviousIndex: prev.CurrentIndex,
			Index:         st.CurrentIndex,
		}
	}
	if st.RepeatMode != prev.RepeatMode || st.Shuffle != prev.Shuffle {
		mode = &ModeChange{RepeatMode: st.RepeatMode, Shuffle: st.Shuffle}
	}
	if o.queueDirty {
		o.queueDirty = false
		queue = &QueueChange{Index: st.CurrentIndex}
		if o.store != nil {
			queue.Tracks = o.store.Tracks()
			queue.Natural = o.store.Natural()
		}
	}
	if o.seeked {
		o.seeked = false
		pos = &PositionChange{Position: o.seekedTo}
	}
	errs := o.pendingErrs
	o.pendingErrs = nil

	for _, sub := range o.subs {
		if state != nil {
			sub.sendState(*state)
		}
		if track != nil {
			sub.sendTrack(*track)
		}
		if mode != nil {
			sub.sendMode(*mode)
		}
		if queue != nil {
			sub.sendQueue(*queue)
		}
		if pos != nil {
			sub.sendPosition(*pos)
		}
		for _, e := range errs {
			sub.sendError(e)
		}
	}
	if o.listener != nil {
		o.listener(st)
	}
	return st
}

func sameTrack(a, b *playlist.Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Same(*b)
}

package playback

import (
	"time"

	"github.com/llehouerou/tideline/internal/session"
)

// HandleEvent reconciles one session event into the orchestrator state.
// Unknown events are ignored.
//
// Events are delivered after the fact, and commands issued since may have
// changed the session. Each event is therefore checked against the live
// session state; events the session has moved past are dropped or only used
// to resync.
func (o *Orchestrator) HandleEvent(ev session.Event) {
	switch e := ev.(type) {
	case session.PlaybackStateChanged:
		if e.State != session.StateEnded {
			return
		}
		if live := o.session.PlaybackState(); live != session.StateEnded {
			o.log.Debug().Stringer("live", live).Msg("stale end of queue, ignored")
			return
		}
		o.onEnded()
	case session.IsPlayingChanged:
		if live := o.session.IsPlaying(); live != e.Playing {
			o.log.Debug().Bool("event", e.Playing).Bool("live", live).Msg("stale playing change, ignored")
			return
		}
		o.onPlayingChanged(e.Playing)
	case session.ItemTransition:
		o.onTransition(e)
	case session.PositionDiscontinuity:
		o.onDiscontinuity(e.Position)
	case session.PlayerError:
		o.onPlayerError(e)
	}
}

func (o *Orchestrator) onEnded() {
	o.isEnded = true
	o.progress = 1
	if o.store != nil {
		o.state = StateEnded
	}
	o.stopRefresh()
}

func (o *Orchestrator) onPlayingChanged(playing bool) {
	o.isPlaying = playing
	if !playing {
		if o.state == StatePlaying {
			o.state = StatePaused
		}
		o.stopRefresh()
		return
	}
	o.isEnded = false
	if o.store != nil {
		o.state = StatePlaying
	}
	o.startRefresh()
}

func (o *Orchestrator) onTransition(e session.ItemTransition) {
	switch e.Reason {
	case session.ReasonSeek, session.ReasonAuto, session.ReasonQueueReplaced:
	default:
		// repeat-one loops need no reconciliation
		return
	}
	if o.store == nil {
		return
	}
	live := o.session.CurrentItemIndex()
	if live != e.Index {
		// A command moved the session after the event was emitted.
		o.resync(live)
		return
	}
	if !o.setCurrent(live) {
		o.log.Warn().Int("index", live).Int("queue", o.store.Len()).Stringer("reason", e.Reason).
			Msg("transition outside the queue, ignored")
		return
	}
	o.progress = 0
	// the session may pause on an item boundary
	o.session.Play()
}

// resync points the current track at the session's index without touching
// playback. It only acts when the current track was set and has drifted.
func (o *Orchestrator) resync(live int) {
	if o.currentTrack == nil || live == o.currentIndex {
		return
	}
	prev := o.currentIndex
	if !o.setCurrent(live) {
		return
	}
	o.log.Warn().Int("was", prev).Int("index", live).Msg("current track resynced with the session")
}

func (o *Orchestrator) onDiscontinuity(pos time.Duration) {
	o.progress = o.fraction(pos)
	o.seeked = true
	o.seekedTo = pos
}

func (o *Orchestrator) onPlayerError(e session.PlayerError) {
	o.log.Error().Err(e.Err).Int("index", e.Index).Msg("session error")
	ev := ErrorEvent{Operation: "play", Err: e.Err}
	if o.store != nil {
		if t, err := o.store.Track(e.Index); err == nil {
			ev.Path = t.Path
		}
	}
	o.pendingErrs = append(o.pendingErrs, ev)
}

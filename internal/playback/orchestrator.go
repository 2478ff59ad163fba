// Package playback drives an audio session from the playback queue.
//
// The Orchestrator owns the queue and translates commands into queue
// mutations plus the smallest matching edit of the session's item list.
// Session events are reconciled by HandleEvent. The Orchestrator does no
// locking: every call, and every event, must come from one goroutine, which
// is what Runner provides.
package playback

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tideline/internal/playlist"
	"github.com/llehouerou/tideline/internal/session"
)

// ErrInvalidState is returned when a command needs a loaded queue or a
// current track and there is none.
var ErrInvalidState = errors.New("invalid playback state")

const defaultRefreshInterval = 500 * time.Millisecond

// Listener receives every published Status.
type Listener func(Status)

// LoadOptions controls LoadQueue.
type LoadOptions struct {
	Shuffle bool
	// StartWith is kept at the front when Shuffle is set. It is not started;
	// pass it to Start for that.
	StartWith *playlist.Track
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithRepeatMode sets the initial repeat mode, pushed to the session by New.
func WithRepeatMode(m RepeatMode) Option {
	return func(o *Orchestrator) { o.repeat = m }
}

// WithRefreshInterval sets how often the position is polled while playing.
func WithRefreshInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.refreshInterval = d
		}
	}
}

// WithListener installs the listener called with every published Status.
func WithListener(l Listener) Option {
	return func(o *Orchestrator) { o.listener = l }
}

// WithRand sets the random source of every queue built by LoadQueue.
func WithRand(r *rand.Rand) Option {
	return func(o *Orchestrator) {
		o.storeOpts = append(o.storeOpts, playlist.WithRand(r))
	}
}

// Orchestrator is the playback façade shared by every front end.
type Orchestrator struct {
	session   session.Session
	store     *playlist.Store // nil while Idle
	storeOpts []playlist.StoreOption
	log       zerolog.Logger
	listener  Listener

	state        State
	currentIndex int
	currentTrack *playlist.Track
	isPlaying    bool
	isEnded      bool
	progress     float64
	repeat       RepeatMode

	refreshInterval time.Duration
	refreshing      bool
	refreshCancel   context.CancelFunc
	post            func(context.Context, func())

	subs        []*Subscription
	last        Status
	queueDirty  bool
	seeked      bool
	seekedTo    time.Duration
	pendingErrs []ErrorEvent
	closed      bool
}

// New creates an orchestrator driving s and prepares the session.
// Session-side shuffling is switched off for good: the queue owns the order.
func New(s session.Session, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		session:         s,
		log:             zerolog.Nop(),
		currentIndex:    playlist.NotFound,
		refreshInterval: defaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(o)
	}

	s.SetShuffleModeEnabled(false)
	s.SetRepeatMode(o.repeat.session())
	if err := s.Prepare(); err != nil {
		return nil, errors.Wrap(err, "prepare session")
	}
	o.last = o.Status()
	return o, nil
}

func (o *Orchestrator) requireLoaded(op string) error {
	if o.store == nil {
		return errors.Wrapf(ErrInvalidState, "%s: no queue loaded", op)
	}
	return nil
}

// LoadQueue replaces the queue with tracks.
//
// If tracks is, as a set, the queue that is already loaded, the queue and
// playback are kept as they are; only a requested shuffle is applied.
// An empty list unloads the queue.
func (o *Orchestrator) LoadQueue(tracks []playlist.Track, opts LoadOptions) error {
	if len(tracks) == 0 {
		o.unload()
		return nil
	}
	if o.store != nil && o.store.MatchesTrackSet(tracks) {
		o.log.Debug().Int("tracks", len(tracks)).Msg("queue already loaded")
		if opts.Shuffle && !o.store.Shuffled() {
			return o.shuffleOn(opts.StartWith)
		}
		return nil
	}

	store := playlist.NewStore(o.storeOpts...)
	store.Initialize(tracks)
	if opts.Shuffle {
		pin := playlist.NoPin
		if opts.StartWith != nil {
			if i, err := store.TrackIndex(*opts.StartWith); err == nil {
				pin = i
			}
		}
		if err := store.Shuffle(pin); err != nil {
			return err
		}
	}
	items, err := store.Items(0, store.LastIndex())
	if err != nil {
		return err
	}

	o.stopRefresh()
	o.store = store
	o.session.ClearItems()
	o.session.AddItems(items...)

	o.state = StateLoaded
	o.currentIndex = playlist.NotFound
	o.currentTrack = nil
	o.isPlaying = false
	o.isEnded = false
	o.progress = 0
	o.queueDirty = true
	o.log.Info().Int("tracks", store.Len()).Bool("shuffle", opts.Shuffle).Msg("queue loaded")
	return nil
}

func (o *Orchestrator) unload() {
	o.stopRefresh()
	o.session.Stop()
	o.session.ClearItems()
	o.store = nil
	o.state = StateIdle
	o.currentIndex = playlist.NotFound
	o.currentTrack = nil
	o.isPlaying = false
	o.isEnded = false
	o.progress = 0
	o.queueDirty = true
}

// Start plays t, or the first track when t is nil. Starting the track that is
// already current does nothing.
func (o *Orchestrator) Start(t *playlist.Track) error {
	if err := o.requireLoaded("start"); err != nil {
		return err
	}
	index := 0
	if t != nil {
		if o.currentTrack != nil && o.currentTrack.Same(*t) {
			return nil
		}
		i, err := o.store.TrackIndex(*t)
		if err != nil {
			return err
		}
		index = i
	}

	o.session.SeekTo(index, 0)
	o.session.Play()
	o.setCurrent(index)
	o.state = StatePlaying
	o.isEnded = false
	o.progress = 0
	return nil
}

// setCurrent makes the track at index current. It reports false, leaving the
// state untouched, if index is outside the queue.
func (o *Orchestrator) setCurrent(index int) bool {
	t, err := o.store.Track(index)
	if err != nil {
		return false
	}
	o.currentIndex = index
	o.currentTrack = &t
	return true
}

// PlayPause toggles between playing and paused. A queue that has ended, or
// that was never started, is started from its first track; a loaded queue
// already positioned by SeekToTrack plays that track.
func (o *Orchestrator) PlayPause() error {
	switch o.state {
	case StateIdle:
		return errors.Wrap(ErrInvalidState, "play/pause: no queue loaded")
	case StatePlaying:
		o.session.Pause()
		o.state = StatePaused
	case StatePaused:
		o.session.Play()
		o.state = StatePlaying
	case StateEnded:
		o.isEnded = false
		return o.Start(nil)
	case StateLoaded:
		if o.currentTrack == nil {
			return o.Start(nil)
		}
		o.session.Play()
		o.state = StatePlaying
	}
	return nil
}

// Next moves to the next track. The session decides what next means at the
// end of the queue, according to the repeat mode.
func (o *Orchestrator) Next() error {
	if err := o.requireLoaded("next"); err != nil {
		return err
	}
	if o.store.Len() > 1 {
		o.session.SeekToNext()
	}
	return nil
}

// Previous moves to the previous track, or restarts the current one,
// as the session decides.
func (o *Orchestrator) Previous() error {
	if err := o.requireLoaded("previous"); err != nil {
		return err
	}
	o.session.SeekToPrevious()
	return nil
}

// SeekToFraction seeks within the current track; f is in [0, 1].
func (o *Orchestrator) SeekToFraction(f float64) error {
	if o.currentTrack == nil {
		return errors.Wrap(ErrInvalidState, "seek: no current track")
	}
	if o.isEnded {
		return errors.Wrap(ErrInvalidState, "seek: playback ended")
	}
	if math.IsNaN(f) || f < 0 || f > 1 {
		return errors.Wrapf(playlist.ErrInvalidRange, "seek fraction %v", f)
	}
	offset := time.Duration(f * float64(o.currentTrack.Duration))
	o.session.SeekTo(o.currentIndex, offset)
	o.progress = f
	return nil
}

// SeekToTrack makes t current, positioned at offset.
func (o *Orchestrator) SeekToTrack(t playlist.Track, offset time.Duration) error {
	if err := o.requireLoaded("seek to track"); err != nil {
		return err
	}
	i, err := o.store.TrackIndex(t)
	if err != nil {
		return err
	}
	o.session.SeekTo(i, offset)
	o.setCurrent(i)
	o.progress = o.fraction(offset)
	if o.state == StateEnded {
		o.state = StatePaused
		o.isEnded = false
	}
	return nil
}

// SwitchRepeatMode cycles Off, All, One and returns the new mode.
func (o *Orchestrator) SwitchRepeatMode() RepeatMode {
	o.SetRepeatMode(o.repeat.Next())
	return o.repeat
}

// SetRepeatMode sets the repeat mode and pushes it to the session.
func (o *Orchestrator) SetRepeatMode(m RepeatMode) {
	o.repeat = m
	o.session.SetRepeatMode(m.session())
}

// Reinitialize installs a new listener without interrupting playback: the
// session is paused, re-prepared, and resumed if it was playing.
func (o *Orchestrator) Reinitialize(l Listener) error {
	wasPlaying := o.isPlaying
	if wasPlaying {
		o.session.Pause()
	}
	o.listener = l
	if err := o.session.Prepare(); err != nil {
		return errors.Wrap(err, "prepare session")
	}
	if wasPlaying {
		o.session.Play()
	}
	return nil
}

// QueueTracks returns the queued tracks in play order.
func (o *Orchestrator) QueueTracks() []playlist.Track {
	if o.store == nil {
		return nil
	}
	return o.store.Tracks()
}

// fraction converts a position in the current track to a progress value.
func (o *Orchestrator) fraction(pos time.Duration) float64 {
	if o.currentTrack == nil || o.currentTrack.Duration <= 0 {
		return 0
	}
	return min(max(float64(pos)/float64(o.currentTrack.Duration), 0), 1)
}

// Subscribe creates a new event subscription. Call it before Runner.Run, or
// from inside Runner.Do.
func (o *Orchestrator) Subscribe() *Subscription {
	sub := newSubscription()
	o.subs = append(o.subs, sub)
	return sub
}

// Close stops the position refresher and ends every subscription. The
// session belongs to the caller and is left open.
func (o *Orchestrator) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	o.stopRefresh()
	for _, sub := range o.subs {
		sub.close()
	}
	o.subs = nil
	return nil
}

package session

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const (
	defaultSampleRate  = beep.SampleRate(44100)
	defaultEventBuffer = 64
	resampleQuality    = 4
	// SeekToPrevious restarts the current item instead past this position.
	restartThreshold = 3 * time.Second
)

// Opener opens a URI for decoding.
type Opener func(uri string) (beep.StreamSeekCloser, beep.Format, error)

// Output is where decoded audio is rendered.
type Output interface {
	Init(rate beep.SampleRate) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// speakerOutput renders through the process-wide beep speaker.
type speakerOutput struct {
	once sync.Once
	err  error
}

func (o *speakerOutput) Init(rate beep.SampleRate) error {
	o.once.Do(func() {
		o.err = speaker.Init(rate, rate.N(time.Second/10))
	})
	return o.err
}

func (o *speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (o *speakerOutput) Clear()               { speaker.Clear() }
func (o *speakerOutput) Lock()                { speaker.Lock() }
func (o *speakerOutput) Unlock()              { speaker.Unlock() }

// Engine is a Session rendering local files with beep.
//
// Commands return immediately; their outcome is reported on Events. The end of
// an item is signalled from the audio goroutine and handled by the engine's
// own goroutine, started by Prepare.
type Engine struct {
	mu   sync.Mutex
	out  Output
	open Opener
	rate beep.SampleRate
	log  zerolog.Logger

	items   []Item
	index   int
	repeat  RepeatMode
	playing bool
	state   State

	stream beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
	loaded int
	gen    uint64

	started   bool
	finished  chan uint64
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

func WithOutput(o Output) Option { return func(e *Engine) { e.out = o } }

func WithOpener(fn Opener) Option { return func(e *Engine) { e.open = fn } }

func WithSampleRate(r beep.SampleRate) Option { return func(e *Engine) { e.rate = r } }

// WithEventBuffer sets the event channel capacity. Events are dropped, with a
// warning, when the consumer falls this far behind.
func WithEventBuffer(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.events = make(chan Event, n)
		}
	}
}

// NewEngine creates an engine with no items.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		out:      &speakerOutput{},
		open:     Decode,
		rate:     defaultSampleRate,
		log:      zerolog.Nop(),
		index:    -1,
		loaded:   -1,
		finished: make(chan uint64, 4),
		events:   make(chan Event, defaultEventBuffer),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Prepare initialises audio output and starts the end-of-item handler.
// Calling it again is allowed and re-announces the current state.
func (e *Engine) Prepare() error {
	if err := e.out.Init(e.rate); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		e.started = true
		go e.loop()
	}
	if len(e.items) > 0 && e.state == StateIdle {
		e.setState(StateReady)
	} else {
		e.emit(PlaybackStateChanged{State: e.state})
	}
	return nil
}

func (e *Engine) loop() {
	for {
		select {
		case g := <-e.finished:
			e.handleFinished(g)
		case <-e.done:
			return
		}
	}
}

func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.index < 0 {
		return
	}
	if e.state == StateEnded {
		e.setState(StateReady)
	}
	e.setPlaying(true)
	if e.stream == nil || e.loaded != e.index {
		e.load(e.index, 0)
		return
	}
	e.setPaused(false)
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setPaused(true)
	e.setPlaying(false)
}

func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unload()
	e.setPlaying(false)
	e.setState(StateIdle)
}

func (e *Engine) AddItems(items ...Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = append(e.items, items...)
	if e.index < 0 && len(e.items) > 0 {
		e.index = 0
	}
	if e.started && e.state == StateIdle && len(e.items) > 0 {
		e.setState(StateReady)
	}
}

func (e *Engine) InsertItems(index int, items ...Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out, ok := insertItems(e.items, index, items)
	if !ok {
		e.log.Warn().Int("index", index).Int("len", len(e.items)).Msg("insert out of range")
		return
	}
	e.items = out
	if e.index >= index {
		e.index += len(items)
	}
	if e.loaded >= index {
		e.loaded += len(items)
	}
	if e.index < 0 && len(e.items) > 0 {
		e.index = 0
	}
}

func (e *Engine) RemoveItems(from, to int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out, ok := removeItems(e.items, from, to)
	if !ok {
		e.log.Warn().Int("from", from).Int("to", to).Int("len", len(e.items)).Msg("remove out of range")
		return
	}
	e.items = out

	switch {
	case len(e.items) == 0:
		e.unload()
		e.index = -1
		e.setPlaying(false)
		e.setState(StateIdle)
	case e.index >= to:
		e.index -= to - from
		if e.loaded >= to {
			e.loaded -= to - from
		}
	case e.index >= from:
		// The current item is gone; its successor slides into place.
		e.index = min(from, len(e.items)-1)
		e.replaceCurrent()
	}
}

func (e *Engine) ClearItems() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unload()
	e.items = nil
	e.index = -1
	e.setPlaying(false)
	e.setState(StateIdle)
}

func (e *Engine) ReplaceRange(from, to int, items []Item) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var before Item
	if e.index >= 0 && e.index < len(e.items) {
		before = e.items[e.index]
	}
	out, ok := replaceRange(e.items, from, to, items)
	if !ok {
		e.log.Warn().Int("from", from).Int("to", to).Int("len", len(e.items)).Msg("replace out of range")
		return
	}
	e.items = out

	switch {
	case len(e.items) == 0:
		e.unload()
		e.index = -1
		e.setState(StateIdle)
	case e.index >= to:
		delta := len(items) - (to - from)
		e.index += delta
		if e.loaded >= to {
			e.loaded += delta
		}
	case e.index >= from:
		e.index = min(e.index, len(e.items)-1)
		if e.items[e.index].MediaID != before.MediaID {
			e.replaceCurrent()
		}
	}
}

func (e *Engine) MoveItem(from, to int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out, ok := moveItem(e.items, from, to)
	if !ok {
		e.log.Warn().Int("from", from).Int("to", to).Int("len", len(e.items)).Msg("move out of range")
		return
	}
	e.items = out
	e.index = followIndex(e.index, from, to)
	if e.loaded >= 0 {
		e.loaded = followIndex(e.loaded, from, to)
	}
}

func (e *Engine) SeekTo(index int, position time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seekTo(index, position)
}

func (e *Engine) seekTo(index int, position time.Duration) {
	if index < 0 || index >= len(e.items) {
		e.log.Warn().Int("index", index).Int("len", len(e.items)).Msg("seek out of range")
		return
	}
	if e.state == StateEnded || e.state == StateIdle {
		e.setState(StateReady)
	}
	if index != e.index || e.stream == nil || e.loaded != index {
		changed := index != e.index
		e.index = index
		e.load(index, position)
		if changed {
			e.emit(ItemTransition{Index: index, Reason: ReasonSeek})
		}
	} else {
		e.out.Lock()
		_ = e.stream.Seek(min(e.format.SampleRate.N(position), e.stream.Len()))
		e.out.Unlock()
	}
	e.emit(PositionDiscontinuity{Position: position})
}

func (e *Engine) SeekToNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.index + 1
	if next >= len(e.items) {
		if e.repeat != RepeatAll || len(e.items) == 0 {
			return
		}
		next = 0
	}
	e.seekTo(next, 0)
}

func (e *Engine) SeekToPrevious() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index < 0 {
		return
	}
	if e.positionLocked() > restartThreshold {
		e.seekTo(e.index, 0)
		return
	}
	prev := e.index - 1
	if prev < 0 {
		prev = 0
		if e.repeat == RepeatAll {
			prev = len(e.items) - 1
		}
	}
	e.seekTo(prev, 0)
}

func (e *Engine) CurrentItemIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

func (e *Engine) PlaybackState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

func (e *Engine) CurrentPosition() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

func (e *Engine) positionLocked() time.Duration {
	if e.stream == nil {
		return 0
	}
	e.out.Lock()
	defer e.out.Unlock()
	return e.format.SampleRate.D(e.stream.Position())
}

func (e *Engine) RepeatMode() RepeatMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repeat
}

func (e *Engine) SetRepeatMode(mode RepeatMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeat = mode
}

func (e *Engine) SetShuffleModeEnabled(enabled bool) {
	if enabled {
		e.log.Warn().Msg("session shuffle requested, keeping it disabled")
	}
}

func (e *Engine) Events() <-chan Event { return e.events }

// Close stops playback and the end-of-item handler.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.done)
		e.mu.Lock()
		e.unload()
		e.mu.Unlock()
	})
	return nil
}

func (e *Engine) handleFinished(g uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g != e.gen || e.index < 0 {
		return
	}

	if e.repeat == RepeatOne {
		e.load(e.index, 0)
		e.emit(ItemTransition{Index: e.index, Reason: ReasonRepeat})
		return
	}

	next := e.index + 1
	if next >= len(e.items) {
		if e.repeat != RepeatAll {
			e.unload()
			e.setPlaying(false)
			e.setState(StateEnded)
			return
		}
		next = 0
	}
	e.index = next
	e.load(next, 0)
	e.emit(ItemTransition{Index: next, Reason: ReasonAuto})
}

// replaceCurrent reloads after the current item was swapped underneath us.
func (e *Engine) replaceCurrent() {
	e.unload()
	e.load(e.index, 0)
	e.emit(ItemTransition{Index: e.index, Reason: ReasonQueueReplaced})
}

// load opens items[index] and hands it to the output, paused unless playing.
func (e *Engine) load(index int, position time.Duration) {
	e.unload()

	stream, format, err := e.open(e.items[index].URI)
	if err != nil {
		e.log.Error().Err(err).Str("uri", e.items[index].URI).Msg("failed to open item")
		e.emit(PlayerError{Index: index, Err: err})
		return
	}
	if position > 0 {
		_ = stream.Seek(min(format.SampleRate.N(position), stream.Len()))
	}

	var s beep.Streamer = stream
	if format.SampleRate != e.rate {
		s = beep.Resample(resampleQuality, format.SampleRate, e.rate, stream)
	}

	e.gen++
	g := e.gen
	e.stream = stream
	e.format = format
	e.loaded = index
	e.ctrl = &beep.Ctrl{Streamer: s, Paused: !e.playing}
	e.out.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		select {
		case e.finished <- g:
		default:
		}
	})))
}

func (e *Engine) unload() {
	if e.stream == nil {
		return
	}
	e.out.Clear()
	if err := e.stream.Close(); err != nil {
		e.log.Debug().Err(err).Msg("close stream")
	}
	e.stream = nil
	e.ctrl = nil
	e.loaded = -1
	e.gen++
}

func (e *Engine) setPaused(paused bool) {
	if e.ctrl == nil {
		return
	}
	e.out.Lock()
	e.ctrl.Paused = paused
	e.out.Unlock()
}

func (e *Engine) setPlaying(playing bool) {
	if e.playing == playing {
		return
	}
	e.playing = playing
	e.emit(IsPlayingChanged{Playing: playing})
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	e.state = s
	e.emit(PlaybackStateChanged{State: s})
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.log.Warn().Type("event", ev).Msg("session event dropped, consumer too slow")
	}
}

// Verify Engine implements Session at compile time.
var _ Session = (*Engine)(nil)

package session

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// Call is one recorded command issued to the Mock.
type Call struct {
	Name string
	Args []int
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Mock is a test double for Session.
//
// It applies item list commands to its own mirror so tests can compare the
// session-visible order with the queue, and records every call. It never
// emits events on its own; tests inject them with Emit. It is safe for
// concurrent use.
type Mock struct {
	mu         sync.Mutex
	items      []Item
	index      int
	position   time.Duration
	playing    bool
	state      State
	prepared   int
	repeat     RepeatMode
	shuffle    bool
	calls      []Call
	violations []string
	events     chan Event
}

// NewMock creates a new mock session for testing.
func NewMock() *Mock {
	return &Mock{
		index:  -1,
		events: make(chan Event, 64),
	}
}

func (m *Mock) record(name string, args ...int) {
	m.calls = append(m.calls, Call{Name: name, Args: args})
}

func (m *Mock) violate(format string, args ...any) {
	m.violations = append(m.violations, fmt.Sprintf(format, args...))
}

func (m *Mock) Prepare() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Prepare")
	m.prepared++
	return nil
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Play")
	m.playing = true
	if m.state == StateEnded {
		m.state = StateReady
	}
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Pause")
	m.playing = false
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Stop")
	m.playing = false
	m.position = 0
}

func (m *Mock) AddItems(items ...Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AddItems", len(items))
	m.items = append(m.items, items...)
	if m.index < 0 && len(m.items) > 0 {
		m.index = 0
	}
	if m.state == StateIdle && len(m.items) > 0 {
		m.state = StateReady
	}
}

func (m *Mock) InsertItems(index int, items ...Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("InsertItems", index, len(items))
	out, ok := insertItems(m.items, index, items)
	if !ok {
		m.violate("InsertItems(%d) out of range, len %d", index, len(m.items))
		return
	}
	m.items = out
	if m.index >= index {
		m.index += len(items)
	}
	if m.index < 0 && len(m.items) > 0 {
		m.index = 0
	}
}

func (m *Mock) RemoveItems(from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RemoveItems", from, to)
	out, ok := removeItems(m.items, from, to)
	if !ok {
		m.violate("RemoveItems(%d, %d) out of range, len %d", from, to, len(m.items))
		return
	}
	m.items = out
	switch {
	case len(m.items) == 0:
		m.index = -1
	case m.index >= to:
		m.index -= to - from
	case m.index >= from:
		m.index = min(from, len(m.items)-1)
	}
}

func (m *Mock) ClearItems() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ClearItems")
	m.items = nil
	m.index = -1
	m.playing = false
	m.state = StateIdle
}

func (m *Mock) ReplaceRange(from, to int, items []Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ReplaceRange", from, to, len(items))
	out, ok := replaceRange(m.items, from, to, items)
	if !ok {
		m.violate("ReplaceRange(%d, %d) out of range, len %d", from, to, len(m.items))
		return
	}
	m.items = out
}

func (m *Mock) MoveItem(from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MoveItem", from, to)
	out, ok := moveItem(m.items, from, to)
	if !ok {
		m.violate("MoveItem(%d, %d) out of range, len %d", from, to, len(m.items))
		return
	}
	m.items = out
	m.index = followIndex(m.index, from, to)
}

func (m *Mock) SeekTo(index int, position time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SeekTo", index, int(position.Milliseconds()))
	if index < 0 || index >= len(m.items) {
		m.violate("SeekTo(%d) out of range, len %d", index, len(m.items))
		return
	}
	m.index = index
	m.position = position
}

func (m *Mock) SeekToNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SeekToNext")
}

func (m *Mock) SeekToPrevious() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SeekToPrevious")
}

func (m *Mock) CurrentItemIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *Mock) PlaybackState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) CurrentPosition() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) RepeatMode() RepeatMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.repeat
}

func (m *Mock) SetRepeatMode(mode RepeatMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetRepeatMode", int(mode))
	m.repeat = mode
}

func (m *Mock) SetShuffleModeEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetShuffleModeEnabled", boolArg(enabled))
	m.shuffle = enabled
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Close")
	return nil
}

// Test helpers

// Emit applies e to the mock's live state and queues it, as the session
// does when something changes on its side.
func (m *Mock) Emit(e Event) {
	m.mu.Lock()
	switch e := e.(type) {
	case PlaybackStateChanged:
		m.state = e.State
	case IsPlayingChanged:
		m.playing = e.Playing
	case ItemTransition:
		m.index = e.Index
	}
	m.mu.Unlock()
	m.events <- e
}

func (m *Mock) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// CallNames returns the names of recorded calls, in order.
func (m *Mock) CallNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.calls))
	for i, c := range m.calls {
		names[i] = c.Name
	}
	return names
}

func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Violations lists commands that were issued with out-of-range indices.
func (m *Mock) Violations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.violations)
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) Prepared() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepared
}

func (m *Mock) ShuffleModeEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shuffle
}

func (m *Mock) SetIndex(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = i
}

func (m *Mock) SetPlaying(playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = playing
}

func (m *Mock) SetPlaybackState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func boolArg(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Verify Mock implements Session at compile time.
var _ Session = (*Mock)(nil)

package playlist

import (
	"math/rand/v2"

	"github.com/cockroachdb/errors"

	"github.com/llehouerou/tideline/internal/session"
)

// NoPin shuffles the whole queue without keeping any track in front.
const NoPin = -1

// entry keeps a track and its session item together so the two sequences
// can never be reordered independently.
type entry struct {
	track Track
	item  session.Item
}

// Store is the playback queue.
//
// It keeps the tracks in play order alongside their session items, plus the
// order captured at load time, which Unshuffle restores. Store is not safe
// for concurrent use.
type Store struct {
	entries  []entry
	original []entry
	loaded   map[string]struct{}
	shuffled bool
	rng      *rand.Rand
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRand sets the random source used by Shuffle.
func WithRand(r *rand.Rand) StoreOption {
	return func(s *Store) { s.rng = r }
}

// NewStore creates an empty queue.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		loaded: make(map[string]struct{}),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize replaces the queue with tracks, in order, and records that order
// as the natural order. Later duplicates of a track are dropped.
func (s *Store) Initialize(tracks []Track) {
	s.entries = make([]entry, 0, len(tracks))
	s.loaded = make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		if _, dup := s.loaded[t.ID]; dup {
			continue
		}
		s.loaded[t.ID] = struct{}{}
		s.entries = append(s.entries, entry{track: t, item: t.Item()})
	}
	s.original = make([]entry, len(s.entries))
	copy(s.original, s.entries)
	s.shuffled = false
}

// Shuffle randomly permutes the queue. With a pin, the track at that index is
// moved to the front and only the others are permuted.
func (s *Store) Shuffle(pin int) error {
	if pin != NoPin && (pin < 0 || pin >= len(s.entries)) {
		return errors.Wrapf(ErrInvalidRange, "shuffle pin %d, queue length %d", pin, len(s.entries))
	}

	if pin == NoPin {
		s.rng.Shuffle(len(s.entries), func(i, j int) {
			s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
		})
		s.shuffled = true
		return nil
	}

	pinned := s.entries[pin]
	rest := make([]entry, 0, len(s.entries)-1)
	rest = append(rest, s.entries[:pin]...)
	rest = append(rest, s.entries[pin+1:]...)
	s.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	s.entries = append([]entry{pinned}, rest...)
	s.shuffled = true
	return nil
}

// Unshuffle restores the natural order.
//
// Tracks removed since the load stay removed; tracks added since the load
// follow the restored ones, in their current relative order.
func (s *Store) Unshuffle() {
	s.entries = s.naturalOrder()
	s.shuffled = false
}

// Natural returns the tracks in the order Unshuffle would restore, without
// changing the queue.
func (s *Store) Natural() []Track {
	natural := s.naturalOrder()
	tracks := make([]Track, len(natural))
	for i, e := range natural {
		tracks[i] = e.track
	}
	return tracks
}

func (s *Store) naturalOrder() []entry {
	present := make(map[string]entry, len(s.entries))
	for _, e := range s.entries {
		present[e.track.ID] = e
	}

	out := make([]entry, 0, len(s.entries))
	for _, e := range s.original {
		if cur, ok := present[e.track.ID]; ok {
			out = append(out, cur)
			delete(present, e.track.ID)
		}
	}
	for _, e := range s.entries {
		if _, ok := present[e.track.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Shuffled reports whether the queue is currently in shuffled order.
func (s *Store) Shuffled() bool {
	return s.shuffled
}

// TrackIndex returns the position of t in the queue.
func (s *Store) TrackIndex(t Track) (int, error) {
	if i := s.indexOf(t); i >= 0 {
		return i, nil
	}
	return NotFound, errors.Wrapf(ErrNotFound, "track %s", t.ID)
}

func (s *Store) indexOf(t Track) int {
	for i, e := range s.entries {
		if e.track.Same(t) {
			return i
		}
	}
	return NotFound
}

// Track returns the track at index.
func (s *Store) Track(index int) (Track, error) {
	if index < 0 || index >= len(s.entries) {
		return Track{}, errors.Wrapf(ErrNotFound, "index %d, queue length %d", index, len(s.entries))
	}
	return s.entries[index].track, nil
}

// Len returns the number of queued tracks.
func (s *Store) Len() int {
	return len(s.entries)
}

// LastIndex returns the index of the last track, or -1 if the queue is empty.
func (s *Store) LastIndex() int {
	return len(s.entries) - 1
}

// Items returns the session items for the inclusive range [from, to], after
// clamping both ends to the queue.
func (s *Store) Items(from, to int) ([]session.Item, error) {
	to = min(to, s.LastIndex())
	from = max(from, 0)
	if from > to {
		return nil, errors.Wrapf(ErrInvalidRange, "items [%d, %d]", from, to)
	}
	items := make([]session.Item, 0, to-from+1)
	for _, e := range s.entries[from : to+1] {
		items = append(items, e.item)
	}
	return items, nil
}

// Tracks returns a copy of the queued tracks in play order.
func (s *Store) Tracks() []Track {
	tracks := make([]Track, len(s.entries))
	for i, e := range s.entries {
		tracks[i] = e.track
	}
	return tracks
}

// Enqueue appends t to the queue.
func (s *Store) Enqueue(t Track) error {
	if s.Contains(t) {
		return errors.Wrapf(ErrAlreadyQueued, "track %s", t.ID)
	}
	s.entries = append(s.entries, entry{track: t, item: t.Item()})
	return nil
}

// InsertAt inserts t so that it ends up at index.
func (s *Store) InsertAt(index int, t Track) error {
	if s.Contains(t) {
		return errors.Wrapf(ErrAlreadyQueued, "track %s", t.ID)
	}
	if index < 0 || index > len(s.entries) {
		return errors.Wrapf(ErrInvalidRange, "insert at %d, queue length %d", index, len(s.entries))
	}
	s.entries = append(s.entries, entry{})
	copy(s.entries[index+1:], s.entries[index:])
	s.entries[index] = entry{track: t, item: t.Item()}
	return nil
}

// Move moves t from oldIndex to newIndex.
func (s *Store) Move(t Track, oldIndex, newIndex int) error {
	n := len(s.entries)
	if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		return errors.Wrapf(ErrInvalidRange, "move %d -> %d, queue length %d", oldIndex, newIndex, n)
	}
	if !s.entries[oldIndex].track.Same(t) {
		return errors.Wrapf(ErrNotFound, "track %s at index %d", t.ID, oldIndex)
	}
	if oldIndex == newIndex {
		return nil
	}

	moved := s.entries[oldIndex]
	if oldIndex < newIndex {
		copy(s.entries[oldIndex:newIndex], s.entries[oldIndex+1:newIndex+1])
	} else {
		copy(s.entries[newIndex+1:oldIndex+1], s.entries[newIndex:oldIndex])
	}
	s.entries[newIndex] = moved
	return nil
}

// Remove removes t and returns the index it had, or NotFound.
// The natural order is not touched.
func (s *Store) Remove(t Track) int {
	i := s.indexOf(t)
	if i == NotFound {
		return NotFound
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return i
}

// Contains reports whether t is queued.
func (s *Store) Contains(t Track) bool {
	return s.indexOf(t) != NotFound
}

// MatchesTrackSet reports whether tracks, as a set, is exactly the set of
// tracks captured by the last Initialize.
func (s *Store) MatchesTrackSet(tracks []Track) bool {
	seen := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		if _, ok := s.loaded[t.ID]; !ok {
			return false
		}
		seen[t.ID] = struct{}{}
	}
	return len(seen) == len(s.loaded)
}

// internal/playlist/queue_test.go
//
//nolint:goconst // test file with repeated string literals
package playlist

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"
)

func tracks(ids ...string) []Track {
	out := make([]Track, len(ids))
	for i, id := range ids {
		out[i] = Track{ID: id, Path: "/music/" + id + ".mp3", Title: id, Duration: time.Minute}
	}
	return out
}

func newSeededStore(seed uint64) *Store {
	return NewStore(WithRand(rand.New(rand.NewPCG(seed, seed))))
}

func order(s *Store) []string {
	return IDs(s.Tracks())
}

// checkLockstep verifies every item is the counterpart of the track at the same index.
func checkLockstep(t *testing.T, s *Store) {
	t.Helper()
	for i, e := range s.entries {
		if e.item.MediaID != e.track.ID {
			t.Fatalf("entries[%d]: item %q does not match track %q", i, e.item.MediaID, e.track.ID)
		}
	}
	if s.Len() > 0 {
		items, err := s.Items(0, s.LastIndex())
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(items) != s.Len() {
			t.Fatalf("len(Items()) = %d, want %d", len(items), s.Len())
		}
	}
}

func TestNewStore(t *testing.T) {
	s := NewStore()

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.LastIndex() != -1 {
		t.Errorf("LastIndex() = %d, want -1", s.LastIndex())
	}
	if s.Shuffled() {
		t.Error("Shuffled() = true, want false")
	}
}

func TestStore_Initialize(t *testing.T) {
	s := NewStore()

	s.Initialize(tracks("a", "b", "c"))

	if got := order(s); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, want [a b c]", got)
	}
	if s.LastIndex() != 2 {
		t.Errorf("LastIndex() = %d, want 2", s.LastIndex())
	}
	checkLockstep(t, s)
}

func TestStore_Initialize_DropsDuplicates(t *testing.T) {
	s := NewStore()

	s.Initialize(tracks("a", "b", "a"))

	if got := order(s); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("order = %v, want [a b]", got)
	}
}

func TestStore_Shuffle_PinMovesTrackToFront(t *testing.T) {
	for seed := range uint64(50) {
		s := newSeededStore(seed)
		s.Initialize(tracks("a", "b", "c", "d", "e", "f"))
		pin := int(seed % 6)
		want := order(s)[pin]

		if err := s.Shuffle(pin); err != nil {
			t.Fatalf("Shuffle(%d) error = %v", pin, err)
		}

		if got := order(s)[0]; got != want {
			t.Fatalf("seed %d: order[0] = %s, want %s", seed, got, want)
		}
		if !s.Shuffled() {
			t.Fatal("Shuffled() = false after Shuffle")
		}
		checkLockstep(t, s)
	}
}

func TestStore_Shuffle_KeepsAllTracks(t *testing.T) {
	s := newSeededStore(7)
	s.Initialize(tracks("a", "b", "c", "d", "e"))

	if err := s.Shuffle(NoPin); err != nil {
		t.Fatalf("Shuffle() error = %v", err)
	}

	got := order(s)
	slices.Sort(got)
	if !slices.Equal(got, []string{"a", "b", "c", "d", "e"}) {
		t.Errorf("sorted order = %v, want all five tracks", got)
	}
	checkLockstep(t, s)
}

func TestStore_Shuffle_InvalidPin(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b"))

	for _, pin := range []int{-2, 2, 10} {
		if err := s.Shuffle(pin); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Shuffle(%d) error = %v, want ErrInvalidRange", pin, err)
		}
	}
	if s.Shuffled() {
		t.Error("failed Shuffle should not enable shuffle")
	}
}

func TestStore_Unshuffle_RestoresNaturalOrder(t *testing.T) {
	natural := []string{"a", "b", "c", "d", "e", "f", "g"}
	rng := rand.New(rand.NewPCG(1, 2))
	s := newSeededStore(3)
	s.Initialize(tracks(natural...))

	for range 20 {
		if rng.IntN(2) == 0 {
			_ = s.Shuffle(rng.IntN(len(natural)))
		} else {
			s.Unshuffle()
		}
		checkLockstep(t, s)
	}
	s.Unshuffle()

	if got := order(s); !slices.Equal(got, natural) {
		t.Errorf("order = %v, want %v", got, natural)
	}
	if s.Shuffled() {
		t.Error("Shuffled() = true after Unshuffle")
	}
}

func TestStore_Unshuffle_KeepsLaterEdits(t *testing.T) {
	s := newSeededStore(9)
	s.Initialize(tracks("a", "b", "c", "d"))
	_ = s.Shuffle(NoPin)
	s.Remove(Track{ID: "b"})
	_ = s.Enqueue(tracks("e")[0])

	s.Unshuffle()

	if got := order(s); !slices.Equal(got, []string{"a", "c", "d", "e"}) {
		t.Errorf("order = %v, want [a c d e]", got)
	}
	checkLockstep(t, s)
}

func TestStore_TrackIndex(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b", "c"))

	i, err := s.TrackIndex(Track{ID: "c"})
	if err != nil || i != 2 {
		t.Errorf("TrackIndex(c) = %d, %v; want 2, nil", i, err)
	}

	_, err = s.TrackIndex(Track{ID: "z"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("TrackIndex(z) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Track(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b"))

	tests := []struct {
		index   int
		want    string
		wantErr bool
	}{
		{0, "a", false},
		{1, "b", false},
		{2, "", true},
		{-1, "", true},
	}
	for _, tt := range tests {
		got, err := s.Track(tt.index)
		if tt.wantErr {
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Track(%d) error = %v, want ErrNotFound", tt.index, err)
			}
			continue
		}
		if err != nil || got.ID != tt.want {
			t.Errorf("Track(%d) = %s, %v; want %s", tt.index, got.ID, err, tt.want)
		}
	}
}

func TestStore_Items_Clamps(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b", "c", "d", "e"))

	items, err := s.Items(-2, 100)

	if err != nil {
		t.Fatalf("Items(-2, 100) error = %v", err)
	}
	if len(items) != 5 || items[0].MediaID != "a" || items[4].MediaID != "e" {
		t.Errorf("Items(-2, 100) = %v, want full range", items)
	}
}

func TestStore_Items_SubRange(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b", "c", "d"))

	items, err := s.Items(1, 2)

	if err != nil {
		t.Fatalf("Items(1, 2) error = %v", err)
	}
	if len(items) != 2 || items[0].MediaID != "b" || items[1].MediaID != "c" {
		t.Errorf("Items(1, 2) = %v, want [b c]", items)
	}
}

func TestStore_Items_InvalidRange(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b", "c"))

	if _, err := s.Items(2, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Items(2, 1) error = %v, want ErrInvalidRange", err)
	}
	if _, err := NewStore().Items(0, 0); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Items on empty store error = %v, want ErrInvalidRange", err)
	}
}

func TestStore_Enqueue(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b", "c"))
	e := tracks("e")[0]

	if err := s.Enqueue(e); err != nil {
		t.Fatalf("Enqueue(e) error = %v", err)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
	if last, _ := s.Track(s.LastIndex()); last.ID != "e" {
		t.Errorf("last track = %s, want e", last.ID)
	}

	if err := s.Enqueue(e); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("second Enqueue(e) error = %v, want ErrAlreadyQueued", err)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d after duplicate, want 4", s.Len())
	}
	checkLockstep(t, s)
}

func TestStore_InsertAt(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "c"))

	if err := s.InsertAt(1, tracks("b")[0]); err != nil {
		t.Fatalf("InsertAt(1, b) error = %v", err)
	}
	if got := order(s); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, want [a b c]", got)
	}
	if err := s.InsertAt(0, tracks("c")[0]); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("InsertAt(0, c) error = %v, want ErrAlreadyQueued", err)
	}
	if err := s.InsertAt(9, tracks("x")[0]); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("InsertAt(9, x) error = %v, want ErrInvalidRange", err)
	}
	checkLockstep(t, s)
}

func TestStore_Move(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		from, to int
		want     []string
		wantErr  error
	}{
		{"forward", "a", 0, 2, []string{"b", "c", "a", "d"}, nil},
		{"backward", "d", 3, 0, []string{"d", "a", "b", "c"}, nil},
		{"same index", "b", 1, 1, []string{"a", "b", "c", "d"}, nil},
		{"wrong track", "a", 1, 2, []string{"a", "b", "c", "d"}, ErrNotFound},
		{"out of range", "a", 0, 4, []string{"a", "b", "c", "d"}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Initialize(tracks("a", "b", "c", "d"))

			err := s.Move(Track{ID: tt.id}, tt.from, tt.to)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Move() error = %v, want %v", err, tt.wantErr)
			}
			if got := order(s); !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			checkLockstep(t, s)
		})
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b", "c"))

	if i := s.Remove(Track{ID: "b"}); i != 1 {
		t.Errorf("Remove(b) = %d, want 1", i)
	}
	if got := order(s); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("order = %v, want [a c]", got)
	}
	// Removal never patches the natural order.
	if !s.MatchesTrackSet(tracks("a", "b", "c")) {
		t.Error("MatchesTrackSet should still see the loaded set")
	}
	checkLockstep(t, s)
}

func TestStore_Remove_Absent(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a", "b", "c"))

	if i := s.Remove(Track{ID: "x"}); i != NotFound {
		t.Errorf("Remove(x) = %d, want NotFound", i)
	}
	if got := order(s); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, want unchanged", got)
	}
}

func TestStore_Contains(t *testing.T) {
	s := NewStore()
	s.Initialize(tracks("a"))

	if !s.Contains(Track{ID: "a", Title: "different metadata"}) {
		t.Error("Contains should compare by ID only")
	}
	if s.Contains(Track{ID: "b"}) {
		t.Error("Contains(b) = true, want false")
	}
}

func TestStore_MatchesTrackSet(t *testing.T) {
	s := NewStore()
	loaded := tracks("a", "b", "c")
	s.Initialize(loaded)

	tests := []struct {
		name  string
		input []Track
		want  bool
	}{
		{"same order", loaded, true},
		{"other order", tracks("c", "a", "b"), true},
		{"with duplicate", tracks("a", "b", "c", "a"), true},
		{"subset", tracks("a", "b"), false},
		{"superset", tracks("a", "b", "c", "d"), false},
		{"different", tracks("x", "y", "z"), false},
	}
	for _, tt := range tests {
		if got := s.MatchesTrackSet(tt.input); got != tt.want {
			t.Errorf("%s: MatchesTrackSet() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStore_EditsKeepLockstep(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	s := newSeededStore(42)
	s.Initialize(tracks("a", "b", "c", "d", "e"))
	pool := tracks("a", "b", "c", "d", "e", "f", "g", "h")

	for range 200 {
		tr := pool[rng.IntN(len(pool))]
		switch rng.IntN(6) {
		case 0:
			_ = s.Enqueue(tr)
		case 1:
			_ = s.InsertAt(rng.IntN(s.Len()+1), tr)
		case 2:
			s.Remove(tr)
		case 3:
			if s.Len() > 0 {
				from := rng.IntN(s.Len())
				cur, _ := s.Track(from)
				_ = s.Move(cur, from, rng.IntN(s.Len()))
			}
		case 4:
			if s.Len() > 0 {
				_ = s.Shuffle(rng.IntN(s.Len()))
			}
		case 5:
			s.Unshuffle()
		}
		checkLockstep(t, s)
	}
}

func TestStore_Natural(t *testing.T) {
	s := newSeededStore(5)
	s.Initialize(tracks("a", "b", "c", "d"))
	_ = s.Shuffle(2)
	shuffled := order(s)

	if got := IDs(s.Natural()); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("Natural() = %v, want [a b c d]", got)
	}
	if got := order(s); !slices.Equal(got, shuffled) {
		t.Errorf("Natural() changed the queue: %v, want %v", got, shuffled)
	}
}

package session

import "testing"

func ids(list []Item) string {
	s := ""
	for _, it := range list {
		s += it.MediaID
	}
	return s
}

func TestMoveItem(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     string
		ok       bool
	}{
		{"forward", 0, 2, "bcad", true},
		{"backward", 3, 1, "adbc", true},
		{"same", 2, 2, "abcd", true},
		{"from out of range", 4, 0, "abcd", false},
		{"to out of range", 0, -1, "abcd", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := moveItem(items("a", "b", "c", "d"), tt.from, tt.to)
			if ok != tt.ok {
				t.Fatalf("moveItem ok = %v, want %v", ok, tt.ok)
			}
			if ids(got) != tt.want {
				t.Errorf("moveItem(%d, %d) = %s, want %s", tt.from, tt.to, ids(got), tt.want)
			}
		})
	}
}

func TestReplaceRange(t *testing.T) {
	got, ok := replaceRange(items("a", "b", "c", "d"), 1, 3, items("x", "y", "z"))
	if !ok {
		t.Fatal("replaceRange returned !ok")
	}
	if ids(got) != "axyzd" {
		t.Errorf("replaceRange = %s, want axyzd", ids(got))
	}

	if _, ok := replaceRange(items("a"), 1, 0, nil); ok {
		t.Error("replaceRange with from > to should fail")
	}
}

func TestInsertAndRemoveItems(t *testing.T) {
	list, ok := insertItems(items("a", "c"), 1, items("b"))
	if !ok || ids(list) != "abc" {
		t.Fatalf("insertItems = %s, %v; want abc, true", ids(list), ok)
	}
	list, ok = removeItems(list, 0, 2)
	if !ok || ids(list) != "c" {
		t.Fatalf("removeItems = %s, %v; want c, true", ids(list), ok)
	}
	if _, ok := insertItems(list, 5, items("x")); ok {
		t.Error("insertItems past the end should fail")
	}
}

func TestFollowIndex(t *testing.T) {
	tests := []struct {
		cur, from, to, want int
	}{
		{cur: 2, from: 2, to: 0, want: 0},
		{cur: 1, from: 0, to: 3, want: 0},
		{cur: 1, from: 3, to: 0, want: 2},
		{cur: 1, from: 2, to: 3, want: 1},
		{cur: -1, from: 0, to: 1, want: -1},
	}
	for _, tt := range tests {
		if got := followIndex(tt.cur, tt.from, tt.to); got != tt.want {
			t.Errorf("followIndex(%d, %d, %d) = %d, want %d", tt.cur, tt.from, tt.to, got, tt.want)
		}
	}
}

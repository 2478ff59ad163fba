package session

// Item list primitives shared by session implementations. Each returns the
// updated list and false when the indices are out of range, in which case the
// input is returned untouched.

func insertItems(list []Item, index int, items []Item) ([]Item, bool) {
	if index < 0 || index > len(list) {
		return list, false
	}
	out := make([]Item, 0, len(list)+len(items))
	out = append(out, list[:index]...)
	out = append(out, items...)
	out = append(out, list[index:]...)
	return out, true
}

func removeItems(list []Item, from, to int) ([]Item, bool) {
	if from < 0 || to > len(list) || from > to {
		return list, false
	}
	out := make([]Item, 0, len(list)-(to-from))
	out = append(out, list[:from]...)
	out = append(out, list[to:]...)
	return out, true
}

func replaceRange(list []Item, from, to int, items []Item) ([]Item, bool) {
	if from < 0 || to > len(list) || from > to {
		return list, false
	}
	out := make([]Item, 0, len(list)-(to-from)+len(items))
	out = append(out, list[:from]...)
	out = append(out, items...)
	out = append(out, list[to:]...)
	return out, true
}

func moveItem(list []Item, from, to int) ([]Item, bool) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return list, false
	}
	if from == to {
		return list, true
	}
	out := make([]Item, len(list))
	copy(out, list)
	item := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = item
	return out, true
}

// followIndex returns where the item at cur ends up after moving from -> to.
func followIndex(cur, from, to int) int {
	switch {
	case cur == from:
		return to
	case from < cur && to >= cur:
		return cur - 1
	case from > cur && to <= cur:
		return cur + 1
	default:
		return cur
	}
}

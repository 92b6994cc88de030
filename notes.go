package pianoroll

import "slices"

// Notes is the ordered list of notes of a single track, sorted ascending by
// Ticks. All the editing methods are copy-on-write: they return a new slice
// and never modify the receiver, so a Notes value handed out earlier stays
// valid. Out of range indices are ignored and the receiver is returned as is.
type Notes []Note

// InsertIndex returns the index where a note starting at ticks should be
// inserted to keep the list sorted: the first index whose note starts later
// than ticks, or the length of the list if there is none.
func (s Notes) InsertIndex(ticks int) int {
	i := slices.IndexFunc(s, func(n Note) bool { return n.Ticks > ticks })
	if i < 0 {
		return len(s)
	}
	return i
}

// Insert returns a new list with the note inserted at InsertIndex, and the
// index where the note ended up.
func (s Notes) Insert(note Note) (Notes, int) {
	index := s.InsertIndex(note.Ticks)
	ret := make(Notes, 0, len(s)+1)
	ret = append(ret, s[:index]...)
	ret = append(ret, note)
	ret = append(ret, s[index:]...)
	return ret, index
}

// Update returns a new list where the note at index is replaced. The list is
// not re-sorted even if the start time changed.
func (s Notes) Update(index int, note Note) Notes {
	if index < 0 || index >= len(s) {
		return s
	}
	ret := s.Copy()
	ret[index] = note
	return ret
}

// Remove returns a new list without the note at index.
func (s Notes) Remove(index int) Notes {
	if index < 0 || index >= len(s) {
		return s
	}
	ret := make(Notes, 0, len(s)-1)
	ret = append(ret, s[:index]...)
	return append(ret, s[index+1:]...)
}

// Get returns the note at index; ok is false if the index is out of range.
func (s Notes) Get(index int) (note Note, ok bool) {
	if index < 0 || index >= len(s) {
		return Note{}, false
	}
	return s[index], true
}

func (s Notes) Copy() Notes {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Sorted reports if the notes are in ascending order of Ticks.
func (s Notes) Sorted() bool {
	return slices.IsSortedFunc(s, func(a, b Note) int { return a.Ticks - b.Ticks })
}

// Sort returns a sorted copy of the list. Notes starting at the same tick keep
// their relative order.
func (s Notes) Sort() Notes {
	ret := s.Copy()
	slices.SortStableFunc(ret, func(a, b Note) int { return a.Ticks - b.Ticks })
	return ret
}

// End returns the tick where the last sounding note ends, 0 for an empty list.
func (s Notes) End() int {
	ret := 0
	for _, n := range s {
		ret = max(ret, n.End())
	}
	return ret
}

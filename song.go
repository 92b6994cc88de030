package pianoroll

import (
	"errors"
	"fmt"
)

type (
	// Song is the set of tracks edited together. PPQ is the number of ticks
	// per quarter note, which every tick value in the song is relative to.
	// Track order is display order.
	Song struct {
		PPQ    int
		Tracks []Track
	}
)

// DefaultPPQ is the resolution of new songs.
const DefaultPPQ = 480

// DefaultColors are assigned round-robin to new tracks.
var DefaultColors = []string{
	"#5a9ee8", "#e8895a", "#6cc46c", "#d65ad6", "#e8d25a", "#5ad6c9", "#e85a6e", "#9a7be8",
}

func (s *Song) Copy() Song {
	tracks := make([]Track, len(s.Tracks))
	for i, t := range s.Tracks {
		tracks[i] = t.Copy()
	}
	return Song{PPQ: s.PPQ, Tracks: tracks}
}

// Track returns a pointer to the track at index, or nil if there is no such
// track.
func (s *Song) Track(index int) *Track {
	if index < 0 || index >= len(s.Tracks) {
		return nil
	}
	return &s.Tracks[index]
}

// End returns the tick where the last note of any track ends.
func (s Song) End() int {
	ret := 0
	for _, t := range s.Tracks {
		ret = max(ret, t.Notes.End())
	}
	return ret
}

// NumNotes returns the total number of notes in all tracks.
func (s Song) NumNotes() int {
	ret := 0
	for _, t := range s.Tracks {
		ret += len(t.Notes)
	}
	return ret
}

// NewTrackName returns a track name that is not used by any track yet.
func (s *Song) NewTrackName() string {
	for i := len(s.Tracks) + 1; ; i++ {
		name := fmt.Sprintf("Track %d", i)
		used := false
		for _, t := range s.Tracks {
			if t.Name == name {
				used = true
				break
			}
		}
		if !used {
			return name
		}
	}
}

// Validate checks that the song could be edited: PPQ is positive, and every
// note has a valid pitch and velocity and is not before the start.
func (s *Song) Validate() error {
	if s.PPQ < 1 {
		return errors.New("PPQ should be > 0")
	}
	for i, t := range s.Tracks {
		for j, n := range t.Notes {
			if n != n.Clamp() {
				return fmt.Errorf("track %d note %d is out of range: %+v", i, j, n)
			}
		}
		if !t.Notes.Sorted() {
			return fmt.Errorf("track %d notes are not sorted by ticks", i)
		}
	}
	return nil
}

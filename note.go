package pianoroll

type (
	// Note is a single note event. Notes are values: editing a note means
	// replacing it in its track.
	Note struct {
		Midi          int // pitch, 0..127
		Ticks         int // start time in ticks
		DurationTicks int
		Velocity      int // 0..127
	}
)

const (
	// NumKeys is the number of MIDI pitches a note can have.
	NumKeys = 128
	// MaxVelocity is the velocity of notes inserted by pointer interaction.
	MaxVelocity = 127
)

// End returns the tick where the note ends.
func (n Note) End() int {
	return n.Ticks + n.DurationTicks
}

// Clamp returns the note with all fields forced into their valid ranges.
func (n Note) Clamp() Note {
	n.Midi = max(min(n.Midi, NumKeys-1), 0)
	n.Ticks = max(n.Ticks, 0)
	n.DurationTicks = max(n.DurationTicks, 0)
	n.Velocity = max(min(n.Velocity, MaxVelocity), 0)
	return n
}

// Contains reports if the tick falls within the note, start inclusive and
// end exclusive.
func (n Note) Contains(ticks float64) bool {
	return ticks >= float64(n.Ticks) && ticks < float64(n.End())
}

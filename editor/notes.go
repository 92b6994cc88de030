package editor

import (
	"iter"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/viewport"
)

// VisibleNote is a note placed in host pixels.
type VisibleNote struct {
	TrackIndex, NoteIndex int
	Note                  pianoroll.Note
	X, Y, Width, Height   float64
	// Editable is false for the notes of other tracks shown in ModeKeys.
	Editable bool
}

// Contains reports if the pixel is inside the note.
func (n VisibleNote) Contains(x, y float64) bool {
	return x >= n.X && x < n.X+n.Width && y >= n.Y && y < n.Y+n.Height
}

// TrackEditable reports if the notes of a track react to the pointer: all
// tracks in ModeTracks, only the selected one in ModeKeys.
func (s *State) TrackEditable(trackIndex int) bool {
	return s.Mode == ModeTracks || trackIndex == s.SelectedTrackIndex
}

// VisibleNotes returns the notes inside the note area in the order of the
// tracks and, within a track, in the order of the notes.
func (p *PianoRoll) VisibleNotes() iter.Seq[VisibleNote] {
	return func(yield func(VisibleNote) bool) {
		h := p.Horizontal()
		for ti := range p.props.Tracks {
			if !p.props.TrackVisible(ti) {
				continue
			}
			if !p.trackNotes(h, ti, yield) {
				return
			}
		}
	}
}

func (p *PianoRoll) trackNotes(h viewport.Dimension, trackIndex int, yield func(VisibleNote) bool) bool {
	notes := p.props.Tracks[trackIndex].Notes
	if len(notes) == 0 {
		return true
	}
	v := p.Vertical()
	if p.props.Mode == ModeTracks {
		vt := p.VerticalTracks()
		if !vt.IsVisible(vt.PixelRect(float64(trackIndex), 1)) {
			return true
		}
		v = p.TrackScope(trackIndex).Dimension(viewport.Vertical)
	}
	setSliceLength(&p.starts, len(notes))
	setSliceLength(&p.lengths, len(notes))
	for i, n := range notes {
		p.starts[i] = float32(n.Ticks)
		p.lengths[i] = float32(n.DurationTicks)
	}
	offsets, sizes, visible := p.culler.Cull(h, p.starts, p.lengths)
	editable := p.props.TrackEditable(trackIndex)
	for _, i := range visible {
		n := notes[i]
		r := v.PixelRect(float64(pianoroll.NumKeys-1-n.Midi), 1)
		if !v.IsVisible(r) {
			continue
		}
		vn := VisibleNote{
			TrackIndex: trackIndex,
			NoteIndex:  i,
			Note:       n,
			X:          h.PixelOffset + float64(offsets[i]),
			Y:          v.PixelOffset + r.Offset,
			Width:      float64(sizes[i]),
			Height:     r.Size,
			Editable:   editable,
		}
		if !yield(vn) {
			return false
		}
	}
	return true
}

// NoteAt returns the editable note under the pixel. Notes drawn later win.
func (p *PianoRoll) NoteAt(x, y float64) (VisibleNote, bool) {
	var ret VisibleNote
	found := false
	for n := range p.VisibleNotes() {
		if n.Editable && n.Contains(x, y) {
			ret, found = n, true
		}
	}
	return ret, found
}

func setSliceLength[T any](slice *[]T, length int) {
	if len(*slice) < length {
		*slice = append(*slice, make([]T, length-len(*slice))...)
	}
	*slice = (*slice)[:length]
}

package editor

import (
	"iter"
	"math"
)

// VisibleTrack is a row of the track list in host pixels.
type VisibleTrack struct {
	Index     int
	Name      string
	Color     string
	NumNotes  int
	Y, Height float64
	Selected  bool
}

// VisibleTracks returns the rows of the track list inside its area.
func (p *PianoRoll) VisibleTracks() iter.Seq[VisibleTrack] {
	return func(yield func(VisibleTrack) bool) {
		vt := p.VerticalTracks()
		for i, t := range p.props.Tracks {
			r := vt.PixelRect(float64(i), 1)
			if !vt.IsVisible(r) {
				continue
			}
			row := VisibleTrack{
				Index:    i,
				Name:     t.Name,
				Color:    t.Color,
				NumNotes: len(t.Notes),
				Y:        vt.PixelOffset + r.Offset,
				Height:   r.Size,
				Selected: i == p.props.SelectedTrackIndex,
			}
			if !yield(row) {
				return
			}
		}
	}
}

// TrackAt returns the track of the track list row at y.
func (p *PianoRoll) TrackAt(y float64) (int, bool) {
	vt := p.VerticalTracks()
	if !(vt.PixelSize > 0) || y < vt.PixelOffset || y >= vt.PixelOffset+vt.PixelSize {
		return 0, false
	}
	i := int(math.Floor(vt.PositionAt(y)))
	if i < 0 || i >= len(p.props.Tracks) {
		return 0, false
	}
	return i, true
}

// ClickTrack selects the track at y, or deselects it if it was selected.
func (p *PianoRoll) ClickTrack(y float64) bool {
	p.Update()
	i, ok := p.TrackAt(y)
	if !ok {
		return false
	}
	if i == p.props.SelectedTrackIndex {
		i = -1
	}
	p.props.setSelectedTrackIndex(i)
	p.Update()
	return true
}

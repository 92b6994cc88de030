package editor_test

import (
	"fmt"
	"slices"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/editor"
)

// fakeHost owns the state like an application would and records the note
// edits it receives.
type fakeHost struct {
	state editor.State
	calls []string
}

// newFakeHost returns a host where, in a 500x500 note area, one pixel is one
// tick and a key is 500/128 pixels high.
func newFakeHost(mode editor.Mode, tracks ...pianoroll.Track) *fakeHost {
	s := editor.DefaultState()
	s.PPQ = 480
	s.Mode = mode
	s.Tracks = tracks
	s.SnapToGrid = false
	s.Duration = 1000
	s.Zoom = 2
	s.VerticalZoom = 1
	s.VerticalPosition = 0
	return &fakeHost{state: s}
}

func (h *fakeHost) Props() editor.Props {
	p := editor.Props{State: h.state}
	p.OnNoteChange = func(ti, ni int, n pianoroll.Note) {
		h.calls = append(h.calls, fmt.Sprintf("change %d %d", ti, ni))
		h.track(ti, func(notes pianoroll.Notes) pianoroll.Notes { return notes.Update(ni, n) })
	}
	p.OnInsertNote = func(ti int, n pianoroll.Note) int {
		h.calls = append(h.calls, fmt.Sprintf("insert %d", ti))
		index := -1
		h.track(ti, func(notes pianoroll.Notes) pianoroll.Notes {
			ret, i := notes.Insert(n)
			index = i
			return ret
		})
		return index
	}
	p.OnRemoveNote = func(ti, ni int) {
		h.calls = append(h.calls, fmt.Sprintf("remove %d %d", ti, ni))
		h.track(ti, func(notes pianoroll.Notes) pianoroll.Notes { return notes.Remove(ni) })
	}
	p.OnPressedKeysChange = func(keys []int) { h.state.PressedKeys = keys }
	p.OnPositionChange = func(v float64) { h.state.Position = v }
	p.OnZoomChange = func(v float64) { h.state.Zoom = v }
	p.OnVerticalPositionChange = func(v float64) { h.state.VerticalPosition = v }
	p.OnVerticalZoomChange = func(v float64) { h.state.VerticalZoom = v }
	p.OnSelectedTrackIndexChange = func(i int) { h.state.SelectedTrackIndex = i }
	p.OnModeChange = func(m editor.Mode) { h.state.Mode = m }
	p.OnPlayHeadChange = func(v float64) { h.state.PlayHead = v }
	return p
}

func (h *fakeHost) track(i int, f func(pianoroll.Notes) pianoroll.Notes) {
	if i < 0 || i >= len(h.state.Tracks) {
		return
	}
	tracks := slices.Clone(h.state.Tracks)
	tracks[i].Notes = f(tracks[i].Notes)
	h.state.Tracks = tracks
}

func (h *fakeHost) notes(track int) pianoroll.Notes {
	return h.state.Tracks[track].Notes
}

func newPianoRoll(source editor.PropsSource) *editor.PianoRoll {
	p := editor.NewPianoRoll(source)
	p.Layout(editor.Bounds{Width: 500, Height: 500}, editor.Bounds{})
	return p
}

// keyY returns the vertical pixel in the middle of the row of a key.
func keyY(p *editor.PianoRoll, midi int) float64 {
	return p.Vertical().PixelAt(float64(pianoroll.NumKeys-1-midi) + 0.5)
}

// noteCenter returns the middle of a visible note.
func noteCenter(p *editor.PianoRoll, track, index int) (x, y float64, ok bool) {
	for n := range p.VisibleNotes() {
		if n.TrackIndex == track && n.NoteIndex == index {
			return n.X + n.Width/2, n.Y + n.Height/2, true
		}
	}
	return 0, 0, false
}

type countingCapture struct {
	acquired, released int
}

func (c *countingCapture) Acquire() { c.acquired++ }
func (c *countingCapture) Release() { c.released++ }

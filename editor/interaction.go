package editor

import (
	"math"

	"github.com/pianoroll-go/pianoroll"
)

type (
	// PointerEvent is a pointer position in host pixels. Alt disables
	// snapping to the grid.
	PointerEvent struct {
		X, Y float64
		Alt  bool
	}

	// DragMode tells what dragging a note does.
	DragMode int

	// DragSession is the state of the drag in progress. TrackIndex and
	// NoteIndex always address the dragged note, also after it has been
	// moved to another track.
	DragSession struct {
		Mode       DragMode
		TrackIndex int
		NoteIndex  int
		// Initial is the note and InitialTrackIndex its track before the
		// drag, for cancelling.
		Initial           pianoroll.Note
		InitialTrackIndex int
		// PointerOffset is the distance in ticks from the start of the note to
		// the pointer when the drag started.
		PointerOffset float64
		// Inserted is true if the drag started by inserting the note.
		Inserted bool
	}

	// Capture routes all pointer events to the editor while a drag is in
	// progress, also the ones outside the note area. Release is called
	// exactly once for every Acquire.
	Capture interface {
		Acquire()
		Release()
	}
)

const (
	DragNone DragMode = iota
	DragTrimStart
	DragMove
	DragTrimEnd
)

func (m DragMode) String() string {
	switch m {
	case DragNone:
		return "none"
	case DragTrimStart:
		return "trimStart"
	case DragMove:
		return "move"
	case DragTrimEnd:
		return "trimEnd"
	}
	return "unknown"
}

// Session returns the drag in progress.
func (p *PianoRoll) Session() (DragSession, bool) {
	if p.drag == nil {
		return DragSession{}, false
	}
	return *p.drag, true
}

func (p *PianoRoll) Dragging() bool { return p.drag != nil }

// HoverMode returns the drag mode that pressing at the last hovered position
// would start, or the mode of the drag in progress.
func (p *PianoRoll) HoverMode() DragMode {
	if p.drag != nil {
		return p.drag.Mode
	}
	return p.hover
}

func (p *PianoRoll) inNotes(x, y float64) bool {
	b := p.Notes
	return x >= b.Left && x < b.Left+b.Width && y >= b.Top && y < b.Top+b.Height
}

// dragModeAt chooses the drag mode by the distance of the pointer from the
// ends of the note.
func (p *PianoRoll) dragModeAt(n VisibleNote, x float64) DragMode {
	switch {
	case x-n.X < p.EdgeThreshold:
		return DragTrimStart
	case n.X+n.Width-x < p.EdgeThreshold:
		return DragTrimEnd
	}
	return DragMove
}

// Hover updates the mode shown for the pointer position, e.g. as a cursor.
// While dragging it does the same as Move.
func (p *PianoRoll) Hover(e PointerEvent) DragMode {
	if p.drag != nil {
		p.Move(e)
		return p.drag.modeOrNone()
	}
	p.Update()
	p.hover = DragNone
	if n, ok := p.NoteAt(e.X, e.Y); ok {
		p.hover = p.dragModeAt(n, e.X)
	}
	return p.hover
}

func (s *DragSession) modeOrNone() DragMode {
	if s == nil {
		return DragNone
	}
	return s.Mode
}

// Press starts a drag: on a note it moves or trims the note, on empty space
// it inserts a note one grid cell long and trims its end. It reports if a
// drag was started.
func (p *PianoRoll) Press(e PointerEvent) bool {
	if p.drag != nil {
		return false
	}
	p.Update()
	if !p.inNotes(e.X, e.Y) {
		return false
	}
	if n, ok := p.NoteAt(e.X, e.Y); ok {
		p.begin(DragSession{
			Mode:              p.dragModeAt(n, e.X),
			TrackIndex:        n.TrackIndex,
			NoteIndex:         n.NoteIndex,
			Initial:           n.Note,
			InitialTrackIndex: n.TrackIndex,
			PointerOffset:     p.Horizontal().PositionAt(e.X) - float64(n.Note.Ticks),
		})
		return true
	}
	return p.insert(e)
}

func (p *PianoRoll) insert(e PointerEvent) bool {
	trackIndex := p.props.SelectedTrackIndex
	midi := 60
	if p.props.Mode == ModeTracks {
		trackIndex = p.trackAtNotes(e.Y)
	} else {
		midi = p.midiAt(e.Y)
	}
	if p.props.Track(trackIndex) == nil || p.props.OnInsertNote == nil {
		return false
	}
	grid := p.props.GridTicks()
	position := max(p.Horizontal().PositionAt(e.X), 0)
	ticks := position
	if p.props.SnapToGrid && !e.Alt && grid > 0 {
		ticks = math.Floor(position/grid) * grid
	}
	note := pianoroll.Note{
		Midi:          midi,
		Ticks:         int(math.Round(ticks)),
		DurationTicks: minDuration(grid),
		Velocity:      pianoroll.MaxVelocity,
	}.Clamp()
	p.begin(DragSession{
		Mode:              DragTrimEnd,
		TrackIndex:        trackIndex,
		NoteIndex:         -1,
		Initial:           note,
		InitialTrackIndex: trackIndex,
		PointerOffset:     position - float64(note.Ticks),
		Inserted:          true,
	})
	index := p.props.insertNote(trackIndex, note)
	if index < 0 {
		p.end()
		return false
	}
	p.drag.NoteIndex = index
	return true
}

// Move continues the drag in progress, or only hovers if there is none.
func (p *PianoRoll) Move(e PointerEvent) {
	if p.drag == nil {
		p.Hover(e)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.end()
			panic(r)
		}
	}()
	p.Update()
	s := p.drag
	cur, ok := p.props.Note(s.TrackIndex, s.NoteIndex)
	if !ok {
		return // the note was removed under the pointer
	}
	note := p.draggedNote(s, cur, e)
	target := s.TrackIndex
	if s.Mode == DragMove && p.props.Mode == ModeTracks {
		target = p.trackAtNotes(e.Y)
	}
	if target == s.TrackIndex || p.props.Track(target) == nil {
		if note != cur {
			p.props.changeNote(s.TrackIndex, s.NoteIndex, note)
		}
		return
	}
	if p.props.OnInsertNote == nil {
		return
	}
	p.props.removeNote(s.TrackIndex, s.NoteIndex)
	index := p.props.insertNote(target, note)
	if index < 0 {
		// put the note back where it was
		target = s.TrackIndex
		index = p.props.insertNote(target, cur)
	}
	s.TrackIndex, s.NoteIndex = target, index
}

func (p *PianoRoll) draggedNote(s *DragSession, cur pianoroll.Note, e PointerEvent) pianoroll.Note {
	grid := p.props.GridTicks()
	snap := func(v float64) int {
		if p.props.SnapToGrid && !e.Alt && grid > 0 {
			v = math.Round(v/grid) * grid
		}
		return int(math.Round(v))
	}
	position := p.Horizontal().PositionAt(e.X)
	minDur := minDuration(grid)
	ret := cur
	switch s.Mode {
	case DragMove:
		ret.Ticks = snap(max(position-s.PointerOffset, 0))
		if p.props.Mode == ModeKeys {
			ret.Midi = p.midiAt(e.Y)
		}
	case DragTrimStart:
		end := cur.End()
		ticks := max(min(snap(max(position-s.PointerOffset, 0)), end-minDur), 0)
		ret.Ticks = ticks
		ret.DurationTicks = end - ticks
	case DragTrimEnd:
		ret.DurationTicks = max(snap(position)-cur.Ticks, minDur)
	}
	return ret.Clamp()
}

// minDuration is the shortest note a trim leaves: one grid cell.
func minDuration(grid float64) int {
	return max(int(math.Round(grid)), 1)
}

func (p *PianoRoll) midiAt(y float64) int {
	key := pianoroll.NumKeys - 1 - int(math.Floor(p.Vertical().PositionAt(y)))
	return max(min(key, pianoroll.NumKeys-1), 0)
}

// trackAtNotes returns the track of a row of the note area in ModeTracks.
func (p *PianoRoll) trackAtNotes(y float64) int {
	n := len(p.props.Tracks)
	if n == 0 {
		return -1
	}
	return max(min(int(math.Floor(p.VerticalTracks().PositionAt(y))), n-1), 0)
}

// Release ends the drag in progress.
func (p *PianoRoll) Release(PointerEvent) {
	p.end()
}

// Cancel ends the drag in progress and puts the note back as it was before
// the drag: an inserted note is removed, a moved note is returned to its
// track. It reports if there was a drag to cancel.
func (p *PianoRoll) Cancel() bool {
	if p.drag == nil {
		return false
	}
	defer func() {
		p.end()
		p.lastDrag = nil
	}()
	p.Update()
	s := p.drag
	if _, ok := p.props.Note(s.TrackIndex, s.NoteIndex); !ok {
		return true
	}
	switch {
	case s.Inserted:
		p.props.removeNote(s.TrackIndex, s.NoteIndex)
	case s.TrackIndex != s.InitialTrackIndex:
		p.props.removeNote(s.TrackIndex, s.NoteIndex)
		p.props.insertNote(s.InitialTrackIndex, s.Initial)
	default:
		p.props.changeNote(s.TrackIndex, s.NoteIndex, s.Initial)
	}
	return true
}

// DoubleClick removes the note under the pointer. The note inserted by the
// first press of the double click is kept.
func (p *PianoRoll) DoubleClick(e PointerEvent) bool {
	if p.drag != nil {
		return false
	}
	p.Update()
	n, ok := p.NoteAt(e.X, e.Y)
	if !ok {
		return false
	}
	if l := p.lastDrag; l != nil && l.Inserted && l.TrackIndex == n.TrackIndex && l.NoteIndex == n.NoteIndex {
		return false
	}
	p.props.removeNote(n.TrackIndex, n.NoteIndex)
	return true
}

func (p *PianoRoll) begin(s DragSession) {
	p.drag = &s
	p.hover = DragNone
	if p.Capture != nil {
		p.Capture.Acquire()
	}
	p.props.gestureStart()
}

// end is the only way a drag ends.
func (p *PianoRoll) end() {
	if p.drag == nil {
		return
	}
	p.lastDrag, p.drag = p.drag, nil
	if p.Capture != nil {
		p.Capture.Release()
	}
	p.props.gestureEnd()
	p.Update()
}

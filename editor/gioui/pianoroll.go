package gioui

import (
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/pianoroll-go/pianoroll/editor"
	"github.com/pianoroll-go/pianoroll/viewport"
)

type (
	// PianoRollWidget draws the ruler, the keyboard or track list and the
	// note area, and feeds the pointer to the editor.
	PianoRollWidget struct {
		Roll     *editor.PianoRoll
		Scroller *viewport.Scroller
		Surface  *ScrollSurface

		target    pointerTarget
		lastPress time.Duration
		lastPos   f32.Point
	}

	pointerTarget int
)

const (
	pointerNone pointerTarget = iota
	pointerNotes
	pointerKeys
	pointerRuler
	pointerTrackList
)

const (
	doubleClickTime     = 400 * time.Millisecond
	doubleClickDistance = 4
)

func NewPianoRollWidget(roll *editor.PianoRoll) *PianoRollWidget {
	surface := new(ScrollSurface)
	return &PianoRollWidget{
		Roll:     roll,
		Surface:  surface,
		Scroller: viewport.NewScroller(roll.Registry(), surface),
	}
}

// areas measures the note area and the track list in the pixels of the
// widget.
func (w *PianoRollWidget) areas(gtx C, th *Theme) (notes, list editor.Bounds) {
	size := gtx.Constraints.Max
	props := w.Roll.Props()
	side := gtx.Dp(th.KeysWidth)
	tracks := props.Mode == editor.ModeTracks
	if tracks {
		side = 0
		if props.ShowTrackList {
			side = gtx.Dp(th.TrackListWidth)
		}
	}
	ruler, sb := gtx.Dp(th.RulerHeight), gtx.Dp(th.ScrollbarWidth)
	notes = editor.Bounds{
		Left:   float64(side),
		Top:    float64(ruler),
		Width:  float64(max(size.X-side-sb, 0)),
		Height: float64(max(size.Y-ruler-sb, 0)),
	}
	if tracks && side > 0 {
		list = editor.Bounds{Top: notes.Top, Width: float64(side), Height: notes.Height}
	}
	return notes, list
}

func (w *PianoRollWidget) layout(gtx C, th *Theme) editor.Bounds {
	w.Roll.Update()
	notes, list := w.areas(gtx, th)
	w.Roll.Layout(notes, list)
	w.Scroller.Vertical = w.Roll.NotesVertical().Name
	return notes
}

func (w *PianoRollWidget) Layout(gtx C, th *Theme) D {
	size := gtx.Constraints.Max
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	w.layout(gtx, th)
	w.update(gtx)
	notes := w.layout(gtx, th)
	w.Roll.FollowPlayHead()
	w.Scroller.Sync()

	paint.FillShape(gtx.Ops, th.Background, clip.Rect{Max: size}.Op())
	notesRect := image.Rect(int(notes.Left), int(notes.Top), int(notes.Left+notes.Width), int(notes.Top+notes.Height))
	{
		stack := clip.Rect(notesRect).Push(gtx.Ops)
		w.drawLanes(gtx, th, notesRect)
		w.drawGrid(gtx, th, notesRect)
		w.drawNotes(gtx, th)
		w.drawPlayHead(gtx, th, notesRect)
		stack.Pop()
	}
	w.drawRuler(gtx, th, notesRect)
	if w.Roll.Props().Mode == editor.ModeTracks {
		w.drawTrackList(gtx, th)
	} else {
		w.drawKeys(gtx, th, notesRect)
	}
	if e, ok := w.Surface.Layout(gtx, th, notesRect); ok {
		w.Scroller.HandleScroll(e)
	}

	// input area of the whole widget, below the scroll bars
	area := clip.Rect(image.Rect(0, 0, notesRect.Max.X, notesRect.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	w.cursor(gtx)
	area.Pop()
	return D{Size: size}
}

func (w *PianoRollWidget) cursor(gtx C) {
	mode := w.Roll.HoverMode()
	if s, ok := w.Roll.Session(); ok {
		mode = s.Mode
	}
	switch {
	case w.target == pointerRuler:
		pointer.CursorColResize.Add(gtx.Ops)
	case mode == editor.DragTrimStart || mode == editor.DragTrimEnd:
		pointer.CursorColResize.Add(gtx.Ops)
	case mode == editor.DragMove:
		pointer.CursorGrab.Add(gtx.Ops)
	default:
		pointer.CursorDefault.Add(gtx.Ops)
	}
}

func (w *PianoRollWidget) update(gtx C) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  w,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Move | pointer.Scroll,
			ScrollX: pointer.ScrollRange{Min: -1e6, Max: 1e6},
			ScrollY: pointer.ScrollRange{Min: -1e6, Max: 1e6},
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pe := editor.PointerEvent{X: float64(e.Position.X), Y: float64(e.Position.Y), Alt: e.Modifiers.Contain(key.ModAlt)}
		switch e.Kind {
		case pointer.Press:
			if e.Buttons != pointer.ButtonPrimary {
				continue
			}
			w.press(e, pe)
		case pointer.Drag:
			switch w.target {
			case pointerNotes:
				w.Roll.Move(pe)
			case pointerKeys:
				w.Roll.HoverKey(pe.Y)
			case pointerRuler:
				w.Roll.DragPlayHead(pe.X)
			}
		case pointer.Move:
			w.Roll.Hover(pe)
		case pointer.Release:
			w.release(pe)
		case pointer.Cancel:
			w.Roll.Cancel()
			w.release(pe)
		case pointer.Scroll:
			w.scroll(e)
		}
	}
}

func (w *PianoRollWidget) press(e pointer.Event, pe editor.PointerEvent) {
	double := e.Time-w.lastPress < doubleClickTime && dist(e.Position, w.lastPos) < doubleClickDistance
	w.lastPress, w.lastPos = e.Time, e.Position
	notes := w.Roll.Notes
	switch {
	case pe.Y < notes.Top && pe.X >= notes.Left:
		if !w.Roll.PressPlayHead(pe.X) {
			w.Roll.SeekPlayHead(pe.X)
		}
		w.target = pointerRuler
	case pe.X < notes.Left && w.Roll.Props().Mode == editor.ModeTracks:
		w.Roll.ClickTrack(pe.Y)
		w.target = pointerTrackList
	case pe.X < notes.Left:
		if w.Roll.PressKey(pe.Y) {
			w.target = pointerKeys
		}
	case double:
		w.Roll.Cancel()
		w.Roll.DoubleClick(pe)
		w.lastPress = 0
	default:
		if w.Roll.Press(pe) {
			w.target = pointerNotes
		}
	}
}

func (w *PianoRollWidget) release(pe editor.PointerEvent) {
	switch w.target {
	case pointerNotes:
		w.Roll.Release(pe)
	case pointerKeys:
		w.Roll.ReleaseKey()
	case pointerRuler:
		w.Roll.ReleasePlayHead()
	}
	w.target = pointerNone
}

func (w *PianoRollWidget) scroll(e pointer.Event) {
	dx, dy := float64(e.Scroll.X), float64(e.Scroll.Y)
	if e.Modifiers.Contain(key.ModShift) {
		dx, dy = dy, dx
	}
	if w.Scroller.HandleWheel(viewport.WheelEvent{DeltaX: dx, DeltaY: dy, Alt: e.Modifiers.Contain(key.ModAlt)}) {
		return
	}
	notes := w.Roll.Notes
	w.Scroller.HandleScroll(w.Surface.ScrollBy(dx, dy, notes.Width, notes.Height))
}

func dist(a, b f32.Point) float32 {
	d := a.Sub(b)
	return float32(math.Hypot(float64(d.X), float64(d.Y)))
}

func fill(gtx C, c color.NRGBA, r image.Rectangle) {
	paint.FillShape(gtx.Ops, c, clip.Rect(r).Op())
}

func span(start, length float64) (int, int) {
	a := int(math.Round(start))
	return a, max(int(math.Round(start+length)), a+1)
}

func (w *PianoRollWidget) drawLanes(gtx C, th *Theme, notes image.Rectangle) {
	h := w.Roll.Horizontal()
	for line := range w.Roll.GridLines() {
		if line.IsHighlighted {
			x0, x1 := span(h.PixelOffset+line.Rect.Offset, line.Rect.Size)
			fill(gtx, th.Highlighted, image.Rect(x0, notes.Min.Y, x1, notes.Max.Y))
		}
	}
	if w.Roll.Props().Mode == editor.ModeTracks {
		for row := range w.Roll.VisibleTracks() {
			y0, y1 := span(row.Y, row.Height)
			if row.Selected {
				fill(gtx, th.Selected, image.Rect(notes.Min.X, y0, notes.Max.X, y1))
			}
			fill(gtx, th.Line, image.Rect(notes.Min.X, y1-1, notes.Max.X, y1))
		}
		return
	}
	for key := range w.Roll.VisibleKeys() {
		if key.IsBlack {
			y0, y1 := span(key.Y, key.Height)
			fill(gtx, th.BlackKeyLane, image.Rect(notes.Min.X, y0, notes.Max.X, y1))
		}
	}
}

func (w *PianoRollWidget) drawGrid(gtx C, th *Theme, notes image.Rectangle) {
	h := w.Roll.Horizontal()
	for line := range w.Roll.GridLines() {
		x := int(math.Round(h.PixelOffset + line.Rect.Offset))
		switch {
		case line.IsMeasure:
			fill(gtx, th.Measure, image.Rect(x, notes.Min.Y, x+1, notes.Max.Y))
		case line.HasHighlightedBorder:
			fill(gtx, th.Line, image.Rect(x, notes.Min.Y, x+1, notes.Max.Y))
		}
	}
}

func (w *PianoRollWidget) drawNotes(gtx C, th *Theme) {
	props := w.Roll.Props()
	for n := range w.Roll.VisibleNotes() {
		x0, x1 := span(n.X, n.Width)
		y0, y1 := span(n.Y, n.Height)
		r := image.Rect(x0, y0, x1, y1)
		c := th.LockedNote
		if n.Editable {
			c = th.Primary
			if t := props.Track(n.TrackIndex); t != nil {
				c = th.trackColor(t.Color)
			}
		}
		fill(gtx, th.NoteOutline, r)
		if r.Dx() > 2 && r.Dy() > 2 {
			r = image.Rect(r.Min.X+1, r.Min.Y+1, r.Max.X-1, r.Max.Y-1)
		}
		fill(gtx, c, r)
	}
}

func (w *PianoRollWidget) drawPlayHead(gtx C, th *Theme, notes image.Rectangle) {
	x, ok := w.Roll.PlayHeadX()
	if !ok {
		return
	}
	px := int(math.Round(x))
	fill(gtx, th.PlayHead, image.Rect(px-1, notes.Min.Y, px+1, notes.Max.Y))
}

func (w *PianoRollWidget) drawRuler(gtx C, th *Theme, notes image.Rectangle) {
	ruler := image.Rect(notes.Min.X, 0, notes.Max.X, notes.Min.Y)
	stack := clip.Rect(ruler).Push(gtx.Ops)
	defer stack.Pop()
	fill(gtx, th.Toolbar, ruler)
	h := w.Roll.Horizontal()
	for line := range w.Roll.GridLines() {
		if !line.ShowLabel {
			continue
		}
		x := int(math.Round(h.PixelOffset + line.Rect.Offset))
		fill(gtx, th.Measure, image.Rect(x, ruler.Max.Y/2, x+1, ruler.Max.Y))
		c := th.Muted
		if line.IsMeasure {
			c = th.Text
		}
		w.label(gtx, th, line.Label, c, image.Pt(x+3, 0))
	}
	if x, ok := w.Roll.PlayHeadX(); ok {
		px := float32(math.Round(x))
		var path clip.Path
		path.Begin(gtx.Ops)
		path.MoveTo(f32.Pt(px-6, float32(ruler.Max.Y)-8))
		path.LineTo(f32.Pt(px+6, float32(ruler.Max.Y)-8))
		path.LineTo(f32.Pt(px, float32(ruler.Max.Y)))
		path.Close()
		paint.FillShape(gtx.Ops, th.PlayHead, clip.Outline{Path: path.End()}.Op())
	}
}

func (w *PianoRollWidget) drawKeys(gtx C, th *Theme, notes image.Rectangle) {
	stack := clip.Rect(image.Rect(0, notes.Min.Y, notes.Min.X, notes.Max.Y)).Push(gtx.Ops)
	defer stack.Pop()
	for key := range w.Roll.VisibleKeys() {
		y0, y1 := span(key.Y, key.Height)
		c, width := th.WhiteKey, notes.Min.X
		if key.IsBlack {
			c, width = th.BlackKey, notes.Min.X*2/3
		}
		if key.Down {
			c = th.KeyDown
		}
		fill(gtx, th.NoteOutline, image.Rect(0, y0, width, y1))
		fill(gtx, c, image.Rect(0, y0, width-1, y1-1))
		if key.Number%12 == 0 {
			w.label(gtx, th, key.Name, th.BlackKey, image.Pt(notes.Min.X/2, y0))
		}
	}
}

func (w *PianoRollWidget) drawTrackList(gtx C, th *Theme) {
	list := w.Roll.TrackList
	if list.Width <= 0 {
		return
	}
	stack := clip.Rect(image.Rect(0, int(list.Top), int(list.Width), int(list.Top+list.Height))).Push(gtx.Ops)
	defer stack.Pop()
	for row := range w.Roll.VisibleTracks() {
		y0, y1 := span(row.Y, row.Height)
		if row.Selected {
			fill(gtx, th.Selected, image.Rect(0, y0, int(list.Width), y1))
		}
		fill(gtx, th.trackColor(row.Color), image.Rect(0, y0, 4, y1))
		fill(gtx, th.Line, image.Rect(0, y1-1, int(list.Width), y1))
		w.label(gtx, th, row.Name, th.Text, image.Pt(8, y0))
	}
}

func (w *PianoRollWidget) label(gtx C, th *Theme, text string, c color.NRGBA, at image.Point) {
	defer op.Offset(at).Push(gtx.Ops).Pop()
	l := material.Label(th.Material, th.TextSize, text)
	l.Color = c
	l.MaxLines = 1
	gtx.Constraints.Min = image.Point{}
	l.Layout(gtx)
}

package editor

import (
	"math"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/viewport"
)

type (
	// PropsSource is where a PianoRoll reads its Props from. *Model is one;
	// hosts owning the state can use a PropsFunc.
	PropsSource interface {
		Props() Props
	}

	PropsFunc func() Props

	// Bounds is a measured rectangle in host pixels.
	Bounds struct {
		Left, Top, Width, Height float64
	}

	// PianoRoll is one editor instance: it maps the Props to viewport
	// dimensions over the measured areas of the host, and turns pointer
	// events in those areas into note edits. The dimensions reflect the
	// Props read by the last call to Update or to any of the event methods.
	PianoRoll struct {
		Source PropsSource
		// Notes is the note area, TrackList the track list next to it. An
		// unmeasured TrackList shares the vertical extent of Notes.
		Notes     Bounds
		TrackList Bounds
		// EdgeThreshold is the distance in pixels from the ends of a note
		// within which pressing trims the note instead of moving it.
		EdgeThreshold float64
		// Capture, if set, is acquired for the duration of every drag.
		Capture Capture

		props    Props
		registry *viewport.Registry

		culler          viewport.Culler
		starts, lengths []float32

		drag         *DragSession
		hover        DragMode
		keys         keyboardState
		playHeadDrag bool
		playHeadGrab float64

		// lastDrag is the last drag that ended, nil after a cancel
		lastDrag *DragSession
	}
)

// ZoomFactor relates the zoom of the Props to the zoom of the dimensions:
// the zoom of the Props is independent of the size of the area, so that
// resizing the window does not change how many ticks fit in a pixel.
const ZoomFactor = 500

// DefaultEdgeThreshold is the default EdgeThreshold in pixels.
const DefaultEdgeThreshold = 3

// Zoom ranges of the dimensions, in the units of the Props.
const (
	MinZoom              = 1
	MaxZoom              = 500
	MinVerticalZoom      = 1
	MaxVerticalZoom      = 10
	MinVerticalTrackZoom = 0.8
	MaxVerticalTrackZoom = 3
)

// laneKeys is the minimum number of keys shown in a track lane.
const laneKeys = 12

func (f PropsFunc) Props() Props { return f() }

func NewPianoRoll(source PropsSource) *PianoRoll {
	p := &PianoRoll{Source: source, EdgeThreshold: DefaultEdgeThreshold}
	p.registry = viewport.NewRegistry(map[string]viewport.Provider{
		viewport.Horizontal:       p.horizontal,
		viewport.Vertical:         p.vertical,
		viewport.HorizontalTracks: p.horizontalTracks,
		viewport.VerticalTracks:   p.verticalTracks,
	})
	p.Update()
	return p
}

// Update reads the Props from the Source.
func (p *PianoRoll) Update() {
	if p.Source != nil {
		p.props = p.Source.Props()
	}
}

// Layout updates the Props and the measured areas.
func (p *PianoRoll) Layout(notes, trackList Bounds) {
	p.Notes = notes
	p.TrackList = trackList
	p.Update()
}

// Props returns the Props read by the last Update.
func (p *PianoRoll) Props() *Props { return &p.props }

// Registry returns the dimensions of the editor.
func (p *PianoRoll) Registry() *viewport.Registry { return p.registry }

func (p *PianoRoll) Horizontal() viewport.Dimension {
	return p.registry.Dimension(viewport.Horizontal)
}

func (p *PianoRoll) Vertical() viewport.Dimension {
	return p.registry.Dimension(viewport.Vertical)
}

func (p *PianoRoll) VerticalTracks() viewport.Dimension {
	return p.registry.Dimension(viewport.VerticalTracks)
}

func (p *PianoRoll) HorizontalTracks() viewport.Dimension {
	return p.registry.Dimension(viewport.HorizontalTracks)
}

// NotesVertical returns the vertical dimension of the note area: keys in
// ModeKeys, tracks in ModeTracks.
func (p *PianoRoll) NotesVertical() viewport.Dimension {
	if p.props.Mode == ModeTracks {
		return p.VerticalTracks()
	}
	return p.Vertical()
}

// TrackScope returns a registry for drawing the lane of one track in
// ModeTracks: its vertical dimension maps the pitches of the track to the
// lane, the other dimensions are shared with the editor.
func (p *PianoRoll) TrackScope(trackIndex int) *viewport.Registry {
	return p.registry.Scope(map[string]viewport.Provider{
		viewport.Vertical: func() viewport.State { return p.lane(trackIndex) },
	})
}

// SetMode switches the mode. Switching to tracks scrolls the keys back to
// the top.
func (p *PianoRoll) SetMode(mode Mode) {
	if mode == p.props.Mode {
		return
	}
	if mode == ModeTracks {
		p.props.setVerticalPosition(0)
	}
	p.props.setMode(mode)
	p.Update()
}

func zoomFactor(size float64) float64 {
	if !(size > 0) || math.IsInf(size, 0) {
		return 0
	}
	return ZoomFactor / size
}

// scaledZoom converts zoom changes of a dimension back to the units of the
// Props.
func scaledZoom(f, lo, hi float64, set func(float64)) func(float64) {
	if set == nil {
		return nil
	}
	return func(zoom float64) {
		if f > 0 {
			set(max(min(zoom/f, hi), lo))
		}
	}
}

// refreshing makes a dimension see its own change on the next lookup.
func (p *PianoRoll) refreshing(set func(float64)) func(float64) {
	if set == nil {
		return nil
	}
	return func(v float64) {
		set(v)
		p.Update()
	}
}

func (p *PianoRoll) horizontal() viewport.State {
	f := zoomFactor(p.Notes.Width)
	return viewport.State{
		Name:             viewport.Horizontal,
		Position:         p.props.Position,
		Range:            p.props.Duration,
		Zoom:             p.props.Zoom * f,
		PixelOffset:      p.Notes.Left,
		PixelSize:        p.Notes.Width,
		MinZoom:          MinZoom * f,
		MaxZoom:          MaxZoom * f,
		OnPositionChange: p.refreshing(p.props.OnPositionChange),
		OnZoomChange:     p.refreshing(scaledZoom(f, MinZoom, MaxZoom, p.props.OnZoomChange)),
	}
}

func (p *PianoRoll) vertical() viewport.State {
	f := zoomFactor(p.Notes.Height)
	return viewport.State{
		Name:             viewport.Vertical,
		Position:         p.props.VerticalPosition,
		Range:            pianoroll.NumKeys,
		Zoom:             p.props.VerticalZoom * f,
		PixelOffset:      p.Notes.Top,
		PixelSize:        p.Notes.Height,
		MinZoom:          MinVerticalZoom * f,
		MaxZoom:          MaxVerticalZoom * f,
		OnPositionChange: p.refreshing(p.props.OnVerticalPositionChange),
		OnZoomChange:     p.refreshing(scaledZoom(f, MinVerticalZoom, MaxVerticalZoom, p.props.OnVerticalZoomChange)),
	}
}

func (p *PianoRoll) trackListBounds() Bounds {
	if p.TrackList.Height > 0 {
		return p.TrackList
	}
	return p.Notes
}

func (p *PianoRoll) horizontalTracks() viewport.State {
	b := p.trackListBounds()
	return viewport.State{
		Name:        viewport.HorizontalTracks,
		Range:       1,
		Zoom:        1,
		PixelOffset: b.Left,
		PixelSize:   b.Width,
	}
}

func (p *PianoRoll) verticalTracks() viewport.State {
	b := p.trackListBounds()
	f := zoomFactor(b.Height)
	return viewport.State{
		Name:             viewport.VerticalTracks,
		Position:         p.props.VerticalTrackPosition,
		Range:            float64(len(p.props.Tracks)),
		Zoom:             p.props.VerticalTrackZoom * f,
		PixelOffset:      b.Top,
		PixelSize:        b.Height,
		MinZoom:          MinVerticalTrackZoom * f,
		MaxZoom:          MaxVerticalTrackZoom * f,
		OnPositionChange: p.refreshing(p.props.OnVerticalTrackPositionChange),
		OnZoomChange:     p.refreshing(scaledZoom(f, MinVerticalTrackZoom, MaxVerticalTrackZoom, p.props.OnVerticalTrackZoomChange)),
	}
}

// lane fits the pitches used by a track into its row of the track
// dimension, showing at least laneKeys keys.
func (p *PianoRoll) lane(trackIndex int) viewport.State {
	vt := p.VerticalTracks()
	r := vt.PixelRect(float64(trackIndex), 1)
	lo, hi := 60, 60
	if t := p.props.Track(trackIndex); t != nil && len(t.Notes) > 0 {
		lo, hi = pianoroll.NumKeys, -1
		for _, n := range t.Notes {
			lo, hi = min(lo, n.Midi), max(hi, n.Midi)
		}
	}
	used := hi - lo + 1
	span := max(used, laneKeys)
	top := pianoroll.NumKeys - 1 - hi - (span-used)/2
	return viewport.State{
		Name:        viewport.Vertical,
		Position:    float64(max(min(top, pianoroll.NumKeys-span), 0)),
		Range:       pianoroll.NumKeys,
		Zoom:        float64(pianoroll.NumKeys) / float64(span),
		PixelOffset: vt.PixelOffset + r.Offset,
		PixelSize:   r.Size,
	}
}

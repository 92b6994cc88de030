// Package viewport maps between domain units (ticks, pitches, track indices)
// and pixels along named, independently scrolled and zoomed axes.
package viewport

import "math"

type (
	// State is everything a Dimension is computed from. Position and Range
	// are in domain units, PixelOffset and PixelSize in pixels. Zoom 1 shows
	// the whole Range in PixelSize pixels.
	State struct {
		Name        string
		Position    float64
		Range       float64
		Zoom        float64
		PixelOffset float64
		PixelSize   float64
		MinZoom     float64
		MaxZoom     float64

		OnPositionChange func(position float64)
		OnZoomChange     func(zoom float64)
	}

	// Dimension is one scrollable and zoomable axis. It is a pure function of
	// its State: nothing is cached and the methods never modify it. The
	// position is not clamped by the Dimension itself; consumers clamp it
	// with ClampPosition.
	Dimension struct {
		State
	}

	// Rect is the pixel placement of an element along one axis, relative to
	// the start of the viewport.
	Rect struct {
		Offset, Size float64
	}
)

// MinimumZoom is used in place of a zoom that is zero, negative or not a
// number.
const MinimumZoom = 1e-6

func New(s State) Dimension {
	return Dimension{State: s}
}

// EffectiveZoom returns the zoom used in the computations.
func (d Dimension) EffectiveZoom() float64 {
	z := d.Zoom
	if math.IsNaN(z) || math.IsInf(z, 0) || z < MinimumZoom {
		return MinimumZoom
	}
	return z
}

func (d Dimension) degenerate() bool {
	return !(d.Range > 0) || !(d.PixelSize > 0) || math.IsInf(d.Range, 0) || math.IsInf(d.PixelSize, 0)
}

// PixelValue converts a length in domain units to a length in pixels.
func (d Dimension) PixelValue(value float64) float64 {
	if d.degenerate() {
		return 0
	}
	return value / d.Range * (d.PixelSize * d.EffectiveZoom())
}

// OffsetOf returns the pixel offset of a domain position from the start
// of the viewport, taking the scroll position into account.
func (d Dimension) OffsetOf(position float64) float64 {
	return d.PixelValue(position) - d.PixelValue(d.Position)
}

// PixelAt returns the pixel coordinate of a domain position, in the
// coordinate space of PixelOffset.
func (d Dimension) PixelAt(position float64) float64 {
	return d.PixelOffset + d.OffsetOf(position)
}

// PositionAt is the inverse of PixelAt: it converts a pixel coordinate, e.g.
// of the pointer, back to a domain position. An unmeasured viewport maps
// every pixel to the current position.
func (d Dimension) PositionAt(pixel float64) float64 {
	if d.degenerate() || math.IsNaN(pixel) {
		return d.Position
	}
	return d.Position + ((pixel-d.PixelOffset)/d.PixelSize)*d.VisibleRange()
}

// VisibleRange returns the length of the domain visible in the viewport.
func (d Dimension) VisibleRange() float64 {
	if !(d.Range > 0) {
		return 0
	}
	return d.Range / d.EffectiveZoom()
}

// MaxPosition returns the largest position that does not scroll past the
// end of the range. It is negative when the whole range fits with room to
// spare.
func (d Dimension) MaxPosition() float64 {
	return d.Range - d.VisibleRange()
}

// ClampPosition forces a position into [0, MaxPosition].
func (d Dimension) ClampPosition(position float64) float64 {
	if math.IsNaN(position) {
		return 0
	}
	return max(min(position, d.MaxPosition()), 0)
}

// PixelRect returns where an element starting at start and lasting length
// domain units is drawn.
func (d Dimension) PixelRect(start, length float64) Rect {
	return Rect{Offset: d.OffsetOf(start), Size: d.PixelValue(length)}
}

// IsVisible reports if any part of the rect falls inside the viewport.
func (d Dimension) IsVisible(r Rect) bool {
	return d.PixelSize > 0 && r.Offset+r.Size > 0 && r.Offset < d.PixelSize
}

// SetPosition reports a new position through OnPositionChange.
func (d Dimension) SetPosition(position float64) {
	if d.OnPositionChange != nil && !math.IsNaN(position) {
		d.OnPositionChange(position)
	}
}

// ClampZoom forces zoom into [MinZoom, MaxZoom]. A zero MaxZoom means no
// upper bound.
func (d Dimension) ClampZoom(zoom float64) float64 {
	if d.MaxZoom > 0 {
		zoom = min(zoom, d.MaxZoom)
	}
	return max(zoom, d.MinZoom, MinimumZoom)
}

// SetZoom reports a new zoom through OnZoomChange, clamped with ClampZoom.
func (d Dimension) SetZoom(zoom float64) {
	if d.OnZoomChange != nil && !math.IsNaN(zoom) {
		d.OnZoomChange(d.ClampZoom(zoom))
	}
}

// ClipRect trims the rect to the part that lies inside the viewport. Rects
// that are entirely outside end up with zero size.
func (d Dimension) ClipRect(r Rect) Rect {
	size := max(d.PixelSize, 0)
	offset := max(min(r.Offset, size), 0)
	return Rect{Offset: offset, Size: max(min(r.Size-(offset-r.Offset), size-offset), 0)}
}

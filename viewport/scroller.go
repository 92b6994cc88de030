package viewport

import "math"

type (
	// Surface is a native scrollable area: something with a scroll content
	// size and a physical scroll offset, e.g. a pair of scroll bars.
	Surface interface {
		SetContentSize(width, height float64)
		ScrollTo(left, top float64)
	}

	// ScrollEvent is a physical scroll reported by the Surface: the offsets
	// and the current scroll content size.
	ScrollEvent struct {
		Left, Top                 float64
		ScrollWidth, ScrollHeight float64
	}

	// WheelEvent is a mouse wheel or touchpad gesture in pixels. Alt zooms
	// instead of scrolling.
	WheelEvent struct {
		DeltaX, DeltaY float64
		Alt            bool
	}

	// Scroller keeps a Surface in sync with two dimensions of a Registry.
	// Sync pushes the logical position and zoom to the Surface, HandleScroll
	// feeds physical scrolling back to the dimensions. The scroll caused by
	// Sync itself is swallowed with a one-shot guard so that it is not
	// converted back to positions. A guarded event that lands somewhere else
	// than where Sync scrolled to was made by the user and is not swallowed,
	// so Surfaces that never echo ScrollTo do not lose the next user scroll.
	Scroller struct {
		Registry   *Registry
		Surface    Surface
		Horizontal string
		Vertical   string
		// ShowScrollbar false means the Surface has no scroll bars and plain
		// wheel events pan the view.
		ShowScrollbar bool

		guard  bool
		expect [2]float64
		synced bool
		last   [4]float64
	}
)

// MaxContentSize limits the scroll content size reported to the Surface.
const MaxContentSize = 100000

// echoTolerance is how far, in pixels, a native scroll may round the offset
// set by ScrollTo.
const echoTolerance = 1

func NewScroller(r *Registry, s Surface) *Scroller {
	return &Scroller{
		Registry:      r,
		Surface:       s,
		Horizontal:    Horizontal,
		Vertical:      Vertical,
		ShowScrollbar: true,
	}
}

func (s *Scroller) dimensions() (h, v Dimension) {
	return s.Registry.Dimension(s.Horizontal), s.Registry.Dimension(s.Vertical)
}

// ContentSize returns the scroll content size for a dimension: zoom times the
// viewport size, limited to [PixelSize, MaxContentSize].
func ContentSize(d Dimension) float64 {
	size := max(d.PixelSize, 0)
	return max(min(d.EffectiveZoom()*size, MaxContentSize), size)
}

// ScrollOffset returns the physical scroll offset matching the position of a
// dimension.
func ScrollOffset(d Dimension) float64 {
	amount := 0.0
	if m := d.MaxPosition(); m > 0 {
		amount = max(min(d.Position/m, 1), 0)
	}
	return amount * (ContentSize(d) - max(d.PixelSize, 0))
}

// Sync pushes the current position and zoom of the dimensions to the
// Surface. Nothing is pushed if the result would be the same as last time.
func (s *Scroller) Sync() {
	if s.Surface == nil {
		return
	}
	h, v := s.dimensions()
	cur := [4]float64{ContentSize(h), ContentSize(v), ScrollOffset(h), ScrollOffset(v)}
	if s.synced && cur == s.last {
		return
	}
	s.synced = true
	s.last = cur
	s.guard = true
	s.expect = [2]float64{cur[2], cur[3]}
	s.Surface.SetContentSize(cur[0], cur[1])
	s.Surface.ScrollTo(cur[2], cur[3])
}

// HandleScroll converts a physical scroll into positions of the dimensions.
// The first scroll after a Sync is consumed by the guard and ignored if it
// lands where Sync scrolled to.
func (s *Scroller) HandleScroll(e ScrollEvent) {
	if s.guard {
		s.guard = false
		if math.Abs(e.Left-s.expect[0]) < echoTolerance && math.Abs(e.Top-s.expect[1]) < echoTolerance {
			return
		}
	}
	h, v := s.dimensions()
	v.SetPosition(max(v.MaxPosition(), 0) * scrollAmount(e.Top, e.ScrollHeight, v.PixelSize))
	h.SetPosition(max(h.MaxPosition(), 0) * scrollAmount(e.Left, e.ScrollWidth, h.PixelSize))
}

// Pending reports if the guard is still waiting for a self-caused scroll.
func (s *Scroller) Pending() bool {
	return s.guard
}

func scrollAmount(offset, content, size float64) float64 {
	r := content - size
	if !(r > 0) || math.IsNaN(offset) {
		return 0
	}
	return max(min(offset/r, 1), 0)
}

// HandleWheel reacts to a wheel gesture and reports if it was consumed. With
// Alt held, the axis with the larger delta is zoomed and its position
// clamped to the new maximum. Without scroll bars, the view is panned by the
// delta.
func (s *Scroller) HandleWheel(e WheelEvent) bool {
	if e.Alt {
		if math.Abs(e.DeltaX) > math.Abs(e.DeltaY) {
			s.zoom(s.Horizontal, e.DeltaX)
		} else {
			s.zoom(s.Vertical, e.DeltaY)
		}
		return true
	}
	if s.ShowScrollbar {
		return false
	}
	h, v := s.dimensions()
	pan(h, e.DeltaX)
	pan(v, e.DeltaY)
	return true
}

func (s *Scroller) zoom(name string, delta float64) {
	d := s.Registry.Dimension(name)
	if !(d.PixelSize > 0) || delta == 0 {
		return
	}
	factor := 1 + delta/d.PixelSize
	if !(factor > 0) {
		return
	}
	d.SetZoom(d.EffectiveZoom() / factor)
	// the provider sees the new zoom only if the host applied it already
	d = s.Registry.Dimension(name)
	d.SetPosition(d.ClampPosition(d.Position))
}

func pan(d Dimension, delta float64) {
	if delta == 0 || !(d.PixelSize > 0) {
		return
	}
	d.SetPosition(d.ClampPosition(d.Position + delta/d.PixelSize*d.VisibleRange()))
}

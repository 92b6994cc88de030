package viewport_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pianoroll-go/pianoroll/viewport"
)

const epsilon = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= epsilon*max(1, math.Abs(a), math.Abs(b))
}

func TestPixelMath(t *testing.T) {
	d := viewport.New(viewport.State{Position: 100, Range: 1000, Zoom: 2, PixelOffset: 50, PixelSize: 500})
	if got := d.VisibleRange(); !near(got, 500) {
		t.Errorf("VisibleRange, got: %v expected: 500", got)
	}
	if got := d.MaxPosition(); !near(got, 500) {
		t.Errorf("MaxPosition, got: %v expected: 500", got)
	}
	if got := d.PixelValue(100); !near(got, 100) {
		t.Errorf("PixelValue(100), got: %v expected: 100", got)
	}
	if got := d.OffsetOf(300); !near(got, 200) {
		t.Errorf("OffsetOf(300), got: %v expected: 200", got)
	}
	if got := d.PositionAt(250); !near(got, 300) {
		t.Errorf("PositionAt(250), got: %v expected: 300", got)
	}
	if got := d.PixelRect(200, 50); !near(got.Offset, 100) || !near(got.Size, 50) {
		t.Errorf("PixelRect(200, 50), got: %+v expected: {100 50}", got)
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		rng := 1 + r.Float64()*100000
		zoom := 1 + r.Float64()*100
		d := viewport.New(viewport.State{
			Range:       rng,
			Zoom:        zoom,
			Position:    r.Float64() * (rng - rng/zoom),
			PixelOffset: r.Float64()*1000 - 500,
			PixelSize:   1 + r.Float64()*4000,
		})
		p := d.Position + r.Float64()*d.VisibleRange()
		if got := d.PositionAt(d.OffsetOf(p) + d.PixelOffset); !near(got, p) {
			t.Fatalf("round trip failed for %+v: got: %v expected: %v", d.State, got, p)
		}
	}
}

func TestVisibility(t *testing.T) {
	d := viewport.New(viewport.State{Position: 1000, Range: 10000, Zoom: 10, PixelSize: 800})
	start, end := d.Position, d.Position+d.VisibleRange()
	cases := []struct {
		start, length float64
		expected      bool
	}{
		{start - 500, 100, false},
		{start - 100.5, 100, false},
		{end + 0.5, 100, false},
		{end + 10, 10, false},
		{start, 10, true},
		{start + 10, 100, true},
		{start - 50, 100, true},
		{end - 1, 100, true},
		{start - 10, d.VisibleRange() + 20, true},
	}
	for _, c := range cases {
		if got := d.IsVisible(d.PixelRect(c.start, c.length)); got != c.expected {
			t.Errorf("IsVisible for [%v, %v), got: %v expected: %v", c.start, c.start+c.length, got, c.expected)
		}
	}
}

func TestDegenerate(t *testing.T) {
	states := []viewport.State{
		{Position: 10, Range: 100, Zoom: 1, PixelSize: 0},
		{Position: 10, Range: 0, Zoom: 1, PixelSize: 100},
		{Position: 10, Range: 100, Zoom: 0, PixelSize: 100},
		{Position: 10, Range: 100, Zoom: math.NaN(), PixelSize: 100},
		{Position: 10, Range: -5, Zoom: -1, PixelSize: -3},
	}
	for _, s := range states {
		d := viewport.New(s)
		for _, v := range []float64{d.PositionAt(50), d.PixelValue(30), d.OffsetOf(30), d.VisibleRange(), d.MaxPosition()} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("degenerate state %+v produced %v", s, v)
			}
		}
		if s.PixelSize <= 0 || s.Range <= 0 {
			if d.IsVisible(d.PixelRect(0, 100)) {
				t.Errorf("degenerate state %+v should show nothing", s)
			}
		}
	}
	if got := viewport.New(viewport.State{Position: 10, Range: 100, Zoom: 1}).PositionAt(50); got != 10 {
		t.Errorf("PositionAt on unmeasured viewport, got: %v expected: 10", got)
	}
}

func TestClampAndCallbacks(t *testing.T) {
	var pos, zoom float64
	d := viewport.New(viewport.State{
		Range: 100, Zoom: 4, PixelSize: 100, MinZoom: 1, MaxZoom: 8,
		OnPositionChange: func(p float64) { pos = p },
		OnZoomChange:     func(z float64) { zoom = z },
	})
	if got := d.ClampPosition(90); got != 75 {
		t.Errorf("ClampPosition(90), got: %v expected: 75", got)
	}
	if got := d.ClampPosition(-3); got != 0 {
		t.Errorf("ClampPosition(-3), got: %v expected: 0", got)
	}
	d.SetZoom(100)
	if zoom != 8 {
		t.Errorf("SetZoom(100) should clamp to MaxZoom, got: %v", zoom)
	}
	d.SetZoom(0.1)
	if zoom != 1 {
		t.Errorf("SetZoom(0.1) should clamp to MinZoom, got: %v", zoom)
	}
	d.SetPosition(12)
	if pos != 12 {
		t.Errorf("SetPosition(12), got: %v", pos)
	}
	viewport.New(viewport.State{}).SetPosition(1) // no callbacks, no panic
}

func TestClipRect(t *testing.T) {
	d := viewport.New(viewport.State{Range: 100, Zoom: 1, PixelSize: 100})
	cases := []struct{ in, expected viewport.Rect }{
		{viewport.Rect{Offset: -10, Size: 30}, viewport.Rect{Offset: 0, Size: 20}},
		{viewport.Rect{Offset: 90, Size: 30}, viewport.Rect{Offset: 90, Size: 10}},
		{viewport.Rect{Offset: 200, Size: 30}, viewport.Rect{Offset: 100, Size: 0}},
		{viewport.Rect{Offset: -50, Size: 10}, viewport.Rect{Offset: 0, Size: 0}},
	}
	for _, c := range cases {
		if got := d.ClipRect(c.in); got != c.expected {
			t.Errorf("ClipRect(%+v), got: %+v expected: %+v", c.in, got, c.expected)
		}
	}
}

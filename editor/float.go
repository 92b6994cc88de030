package editor

import (
	"math"

	"github.com/pianoroll-go/pianoroll/viewport"
)

type (
	// Float is a continuous value for sliders. Fractions map the range
	// logarithmically, so that every step of a slider zooms by the same
	// ratio.
	Float struct {
		FloatData
	}

	FloatData interface {
		Value() float64
		Range() FloatRange
		setValue(float64)
	}

	FloatRange struct {
		Min, Max float64
	}

	zoomSlider struct {
		p    *PianoRoll
		name string
	}
)

func (v Float) Set(value float64) bool {
	r := v.Range()
	if !r.valid() || math.IsNaN(value) {
		return false
	}
	value = r.Clamp(value)
	if value == v.Value() {
		return false
	}
	v.setValue(value)
	return true
}

// Fraction returns the value as a fraction of the range, from 0 to 1.
func (v Float) Fraction() float64 {
	r := v.Range()
	if !r.valid() || r.Max == r.Min {
		return 0
	}
	return max(min(math.Log(v.Value()/r.Min)/math.Log(r.Max/r.Min), 1), 0)
}

func (v Float) SetFraction(f float64) bool {
	r := v.Range()
	if !r.valid() || math.IsNaN(f) {
		return false
	}
	f = max(min(f, 1), 0)
	return v.Set(r.Min * math.Pow(r.Max/r.Min, f))
}

func (r FloatRange) Clamp(value float64) float64 {
	return max(min(value, r.Max), r.Min)
}

func (r FloatRange) valid() bool {
	return r.Min > 0 && r.Max >= r.Min && !math.IsInf(r.Max, 0)
}

// PianoRoll methods

func (p *PianoRoll) HorizontalZoom() Float {
	return Float{&zoomSlider{p: p, name: viewport.Horizontal}}
}

func (p *PianoRoll) VerticalZoom() Float {
	return Float{&zoomSlider{p: p, name: viewport.Vertical}}
}

func (p *PianoRoll) VerticalTrackZoom() Float {
	return Float{&zoomSlider{p: p, name: viewport.VerticalTracks}}
}

// zoomSlider works in the units of the dimension, so that the slider shows
// what is on the screen.

func (z *zoomSlider) dimension() viewport.Dimension { return z.p.registry.Dimension(z.name) }
func (z *zoomSlider) Value() float64                { return z.dimension().EffectiveZoom() }
func (z *zoomSlider) setValue(value float64)        { z.dimension().SetZoom(value) }
func (z *zoomSlider) Range() FloatRange {
	d := z.dimension()
	return FloatRange{Min: d.MinZoom, Max: d.MaxZoom}
}

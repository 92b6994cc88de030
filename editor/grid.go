package editor

import (
	"fmt"
	"iter"
	"math"

	"github.com/pianoroll-go/pianoroll/viewport"
)

// GridLine is one cell of the time grid, starting at Ticks and lasting one
// visible grid interval.
type GridLine struct {
	Index int
	Ticks float64
	Rect  viewport.Rect
	// IsMeasure tells the line starts a measure.
	IsMeasure bool
	// IsHighlighted is true for every second measure, for shading.
	IsHighlighted bool
	// HasHighlightedBorder tells the line falls on the grid division
	// selected by the user, which may be finer than the visible one.
	HasHighlightedBorder bool
	ShowLabel            bool
	Label                string
}

// The visible grid interval is adjusted until the number of visible lines is
// between minGridLines and maxGridLines.
const (
	minGridLines  = 30
	maxGridLines  = 100
	maxGridLabels = 16
)

// VisibleGridTicks returns the grid interval to show for the visible range,
// doubling or halving ticks until the number of visible lines is in the
// target band. The result is always ticks times a power of two, so the lines
// stay anchored to the selected grid. It is 0 if nothing is visible.
func VisibleGridTicks(visibleRange, ticks float64) float64 {
	if !(visibleRange > 0) || math.IsInf(visibleRange, 0) || !(ticks > 0) || math.IsInf(ticks, 0) {
		return 0
	}
	for visibleRange/ticks > maxGridLines {
		ticks *= 2
	}
	for visibleRange/ticks < minGridLines {
		ticks /= 2
	}
	return ticks
}

// GridLabel formats ticks as "bar" or "bar.beat", counting from 1.
func GridLabel(ticks float64, ppq int) string {
	if ppq <= 0 {
		return ""
	}
	measurePosition := ticks/float64(ppq)/4 + 1
	bars := math.Floor(measurePosition)
	beats := int(math.Floor((measurePosition - bars) * 4))
	if beats == 0 {
		return fmt.Sprintf("%d", int(bars))
	}
	return fmt.Sprintf("%d.%d", int(bars), beats)
}

// GridInterval returns the visible grid interval in ticks, 0 if the note
// area is not measured yet.
func (p *PianoRoll) GridInterval() float64 {
	return p.gridInterval(p.Horizontal())
}

func (p *PianoRoll) gridInterval(h viewport.Dimension) float64 {
	if !(h.PixelSize > 0) {
		return 0
	}
	return VisibleGridTicks(h.VisibleRange(), p.props.GridTicks())
}

// GridLines returns the grid lines covering the visible time range.
func (p *PianoRoll) GridLines() iter.Seq[GridLine] {
	h := p.Horizontal()
	selected := p.props.GridTicks()
	interval := p.gridInterval(h)
	measure := float64(p.props.PPQ * 4)
	ppq := p.props.PPQ
	return func(yield func(GridLine) bool) {
		if interval <= 0 || measure <= 0 {
			return
		}
		count := int(math.Ceil(h.VisibleRange()/interval + 1))
		start := int(math.Floor(h.Position / interval))
		stride := 1
		for count/stride > maxGridLabels {
			stride *= 2
		}
		for i := range count {
			index := start + i
			ticks := float64(index) * interval
			line := GridLine{
				Index:                index,
				Ticks:                ticks,
				Rect:                 h.PixelRect(ticks, interval),
				IsMeasure:            math.Mod(ticks, measure) == 0,
				IsHighlighted:        int(math.Floor(ticks/measure))%2 != 0,
				HasHighlightedBorder: math.Mod(ticks, selected) == 0,
				ShowLabel:            index%stride == 0,
				Label:                GridLabel(ticks, ppq),
			}
			if !yield(line) {
				return
			}
		}
	}
}

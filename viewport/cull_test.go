package viewport_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/pianoroll-go/pianoroll/viewport"
)

func TestCullerMatchesPixelRect(t *testing.T) {
	d := viewport.New(viewport.State{Position: 960, Range: 9600, Zoom: 4, PixelOffset: 30, PixelSize: 400})
	starts := []float32{0, 700, 900, 960, 1500, 3000, 3400, 4000}
	lengths := []float32{240, 400, 100, 60, 480, 480, 10, 10}
	var c viewport.Culler
	offsets, sizes, visible := c.Cull(d, starts, lengths)
	var expected []int
	for i := range starts {
		r := d.PixelRect(float64(starts[i]), float64(lengths[i]))
		if math.Abs(float64(offsets[i])-r.Offset) > 1e-2 || math.Abs(float64(sizes[i])-r.Size) > 1e-2 {
			t.Errorf("element %v, got: %v %v expected: %+v", i, offsets[i], sizes[i], r)
		}
		if d.IsVisible(r) {
			expected = append(expected, i)
		}
	}
	if !reflect.DeepEqual(visible, expected) {
		t.Fatalf("visible, got: %v expected: %v", visible, expected)
	}
	if !reflect.DeepEqual(visible, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("visible, got: %v expected: [1 2 3 4 5]", visible)
	}
}

func TestCullerUnmeasured(t *testing.T) {
	var c viewport.Culler
	_, _, visible := c.Cull(viewport.New(viewport.State{Range: 100, Zoom: 1}), []float32{0, 10}, []float32{10, 10})
	if len(visible) != 0 {
		t.Fatalf("nothing should be visible in an unmeasured viewport, got: %v", visible)
	}
}

package viewport

import "github.com/viterin/vek/vek32"

// Culler places a whole batch of elements along one Dimension at once and
// tells which of them are visible. The buffers are reused between calls, so
// a Culler should be kept alive by the owner (e.g. one per rendered track)
// and the returned slices are only valid until the next call.
type Culler struct {
	offsets, sizes, ends []float32
	after, before        []bool
	visible              []int
}

// Cull computes the pixel rects of elements starting at starts and lasting
// lengths domain units, as PixelRect would, and returns them together with
// the indices of the visible ones in ascending order. starts and lengths
// must be of the same length.
func (c *Culler) Cull(d Dimension, starts, lengths []float32) (offsets, sizes []float32, visible []int) {
	n := min(len(starts), len(lengths))
	setSliceLength(&c.offsets, n)
	setSliceLength(&c.sizes, n)
	setSliceLength(&c.ends, n)
	setSliceLength(&c.after, n)
	setSliceLength(&c.before, n)
	c.visible = c.visible[:0]
	scale := float32(d.PixelValue(1))
	base := float32(d.PixelValue(d.Position))
	offsets = vek32.MulNumber_Into(c.offsets, starts[:n], scale)
	vek32.SubNumber_Inplace(offsets, base)
	sizes = vek32.MulNumber_Into(c.sizes, lengths[:n], scale)
	ends := vek32.Add_Into(c.ends, offsets, sizes)
	after := vek32.GtNumber_Into(c.after, ends, 0)
	before := vek32.LtNumber_Into(c.before, offsets, float32(d.PixelSize))
	for i := range n {
		if after[i] && before[i] {
			c.visible = append(c.visible, i)
		}
	}
	return offsets, sizes, c.visible
}

func setSliceLength[T any](slice *[]T, length int) {
	if len(*slice) < length {
		*slice = append(*slice, make([]T, length-len(*slice))...)
	}
	*slice = (*slice)[:length]
}

package editor

import (
	"iter"
	"math"
	"slices"

	"github.com/pianoroll-go/pianoroll"
)

type (
	// VisibleKey is a piano key placed in host pixels. White keys next to
	// black keys reach half a key under their black neighbours.
	VisibleKey struct {
		pianoroll.Key
		Y, Height float64
		Down      bool
	}

	// keyboardState tracks a glissando: while the pointer is held, the key
	// under it is pressed and the key it left is released.
	keyboardState struct {
		held bool
		key  int
	}
)

// VisibleKeys returns the keys inside the vertical extent of the note area:
// first the white keys, then the black keys, which are drawn over them.
func (p *PianoRoll) VisibleKeys() iter.Seq[VisibleKey] {
	return func(yield func(VisibleKey) bool) {
		v := p.Vertical()
		for _, black := range []bool{false, true} {
			for i := pianoroll.NumKeys - 1; i >= 0; i-- {
				k := pianoroll.Keys[i]
				if k.IsBlack != black {
					continue
				}
				r := v.PixelRect(float64(pianoroll.NumKeys-1-k.Number), 1)
				if !v.IsVisible(r) {
					continue
				}
				vk := VisibleKey{Key: k, Y: v.PixelOffset + r.Offset, Height: r.Size, Down: p.props.IsKeyDown(-1, k.Number)}
				if !k.IsBlack && pianoroll.IsBlackKey(k.Number+1) {
					vk.Y -= r.Size / 2
					vk.Height += r.Size / 2
				}
				if !k.IsBlack && pianoroll.IsBlackKey(k.Number-1) {
					vk.Height += r.Size / 2
				}
				if !yield(vk) {
					return
				}
			}
		}
	}
}

// KeyAt returns the key at the vertical pixel coordinate.
func (p *PianoRoll) KeyAt(y float64) (int, bool) {
	v := p.Vertical()
	if !(v.PixelSize > 0) || y < v.PixelOffset || y >= v.PixelOffset+v.PixelSize {
		return 0, false
	}
	key := pianoroll.NumKeys - 1 - int(math.Floor(v.PositionAt(y)))
	if key < 0 || key >= pianoroll.NumKeys {
		return 0, false
	}
	return key, true
}

// PressKey presses the key under the pointer and starts a glissando.
func (p *PianoRoll) PressKey(y float64) bool {
	p.Update()
	key, ok := p.KeyAt(y)
	if !ok {
		return false
	}
	p.keys = keyboardState{held: true, key: key}
	p.setKeys(-1, key)
	return true
}

// HoverKey follows the pointer during a glissando: leaving a key releases
// it and entering another one presses it.
func (p *PianoRoll) HoverKey(y float64) {
	if !p.keys.held {
		return
	}
	p.Update()
	key, ok := p.KeyAt(y)
	if !ok {
		key = -1
	}
	if key == p.keys.key {
		return
	}
	p.setKeys(p.keys.key, key)
	p.keys.key = key
}

// ReleaseKey ends the glissando, releasing the key under the pointer.
// It is safe to call for every pointer release, wherever it happens.
func (p *PianoRoll) ReleaseKey() {
	if !p.keys.held {
		return
	}
	p.Update()
	p.setKeys(p.keys.key, -1)
	p.keys = keyboardState{}
}

// setKeys releases one key and presses another; -1 means none.
func (p *PianoRoll) setKeys(release, press int) {
	keys := slices.DeleteFunc(slices.Clone(p.props.PressedKeys), func(k int) bool { return k == release })
	if press >= 0 && !slices.Contains(keys, press) {
		keys = append(keys, press)
	}
	if !slices.Equal(keys, p.props.PressedKeys) {
		p.props.setPressedKeys(keys)
		p.Update()
	}
}

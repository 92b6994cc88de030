package editor

import "github.com/pianoroll-go/pianoroll"

type (
	Int struct {
		IntData
	}

	IntData interface {
		Value() int
		Range() IntRange

		setValue(int)
		change(kind string) func()
	}

	IntRange struct {
		Min, Max int
	}

	PPQ           Model
	GridDivision  Model
	SelectedTrack Model
)

func (v Int) Add(delta int) (ok bool) {
	r := v.Range()
	value := r.Clamp(v.Value() + delta)
	if value == v.Value() || value < r.Min || value > r.Max {
		return false
	}
	defer v.change("Add")()
	v.setValue(value)
	return true
}

func (v Int) Set(value int) (ok bool) {
	r := v.Range()
	value = v.Range().Clamp(value)
	if value == v.Value() || value < r.Min || value > r.Max {
		return false
	}
	defer v.change("Set")()
	v.setValue(value)
	return true
}

func (r IntRange) Clamp(value int) int {
	return max(min(value, r.Max), r.Min)
}

// Model methods

func (m *Model) PPQ() *PPQ                     { return (*PPQ)(m) }
func (m *Model) GridDivision() *GridDivision   { return (*GridDivision)(m) }
func (m *Model) SelectedTrack() *SelectedTrack { return (*SelectedTrack)(m) }

func noChange() {}

// PPQInt

func (v *PPQ) Int() Int           { return Int{v} }
func (v *PPQ) Value() int         { return v.d.Song.PPQ }
func (v *PPQ) setValue(value int) { v.d.Song.PPQ = value }
func (v *PPQ) Range() IntRange    { return IntRange{1, 9600} }
func (v *PPQ) change(kind string) func() {
	return (*Model)(v).change("PPQInt." + kind)
}

// GridDivisionInt is the index of the division in pianoroll.GridDivisions, so
// that Add steps to the next finer or coarser one.

func (v *GridDivision) Int() Int { return Int{v} }
func (v *GridDivision) Value() int {
	for i, d := range pianoroll.GridDivisions {
		if d == v.d.GridDivision {
			return i
		}
	}
	return 0
}

func (v *GridDivision) setValue(value int)   { v.d.GridDivision = pianoroll.GridDivisions[value] }
func (v *GridDivision) Range() IntRange      { return IntRange{0, len(pianoroll.GridDivisions) - 1} }
func (v *GridDivision) change(string) func() { return noChange }

// SelectedTrackInt, -1 meaning no track is selected.

func (v *SelectedTrack) Int() Int             { return Int{v} }
func (v *SelectedTrack) Value() int           { return v.d.SelectedTrackIndex }
func (v *SelectedTrack) setValue(value int)   { v.d.SelectedTrackIndex = value }
func (v *SelectedTrack) Range() IntRange      { return IntRange{-1, len(v.d.Song.Tracks) - 1} }
func (v *SelectedTrack) change(string) func() { return noChange }

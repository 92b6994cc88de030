package pianoroll

import (
	"fmt"
	"slices"
)

// GridDivision tells how many grid cells a 4/4 measure is divided into, e.g.
// 16 for sixteenth notes.
type GridDivision int

// GridDivisions are the valid divisions, from coarsest to finest.
var GridDivisions = []GridDivision{1, 2, 4, 8, 16, 32, 64}

// DefaultGridDivision is quarter notes.
const DefaultGridDivision GridDivision = 4

// Valid reports if g is one of GridDivisions.
func (g GridDivision) Valid() bool {
	return slices.Contains(GridDivisions, g)
}

// Ticks returns the length of one grid cell in ticks: ppq*4/g.
func (g GridDivision) Ticks(ppq int) float64 {
	if g <= 0 {
		return 0
	}
	return float64(ppq) * 4 / float64(g)
}

// Finer returns the next finer division, or g if it is the finest.
func (g GridDivision) Finer() GridDivision {
	i := slices.Index(GridDivisions, g)
	if i < 0 {
		return DefaultGridDivision
	}
	return GridDivisions[min(i+1, len(GridDivisions)-1)]
}

// Coarser returns the next coarser division, or g if it is the coarsest.
func (g GridDivision) Coarser() GridDivision {
	i := slices.Index(GridDivisions, g)
	if i < 0 {
		return DefaultGridDivision
	}
	return GridDivisions[max(i-1, 0)]
}

func (g GridDivision) String() string {
	return fmt.Sprintf("1/%d", int(g))
}

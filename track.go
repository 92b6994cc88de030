package pianoroll

// Track is a named list of notes drawn with its own color. Tracks are
// addressed by their index in the Song; there is no other identity.
type Track struct {
	Name  string
	Color string `yaml:",omitempty"`
	Notes Notes  `yaml:",flow"`
}

func (t *Track) Copy() Track {
	return Track{
		Name:  t.Name,
		Color: t.Color,
		Notes: t.Notes.Copy(),
	}
}

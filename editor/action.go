package editor

import "github.com/pianoroll-go/pianoroll"

type (
	// Action is a command of the editor a host can bind to a button or a
	// key. Do runs it only if it is enabled, so a host can call Do without
	// checking, and gray out the button by Enabled.
	Action struct {
		doer Doer
	}

	Doer interface {
		Do()
	}

	// Enabler is implemented by the Doers that are not always allowed.
	Enabler interface {
		Enabled() bool
	}

	// DoFunc adapts a plain function to a Doer.
	DoFunc func()
)

// Action methods

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

func (f DoFunc) Do() { f() }

func (a Action) Do() {
	if a.Enabled() {
		a.doer.Do()
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false
	}
	if e, ok := a.doer.(Enabler); ok {
		return e.Enabled()
	}
	return true
}

// addTrack
type addTrack Model

func (m *Model) AddTrack() Action { return MakeAction((*addTrack)(m)) }
func (m *addTrack) Enabled() bool { return len(m.d.Song.Tracks) < MaxTracks }
func (m *addTrack) Do() {
	defer (*Model)(m).change("AddTrack")()
	index := len(m.d.Song.Tracks)
	t := pianoroll.Track{
		Name:  m.d.Song.NewTrackName(),
		Color: pianoroll.DefaultColors[index%len(pianoroll.DefaultColors)],
	}
	m.d.Song.Tracks = append(m.d.Song.Tracks, t)
	m.d.SelectedTrackIndex = index
}

// deleteTrack
type deleteTrack Model

func (m *Model) DeleteTrack() Action { return MakeAction((*deleteTrack)(m)) }
func (m *deleteTrack) Enabled() bool { return m.d.Song.Track(m.d.SelectedTrackIndex) != nil }
func (m *deleteTrack) Do() {
	defer (*Model)(m).change("DeleteTrack")()
	i := m.d.SelectedTrackIndex
	m.d.Song.Tracks = append(m.d.Song.Tracks[:i:i], m.d.Song.Tracks[i+1:]...)
	m.d.SelectedTrackIndex = min(i, len(m.d.Song.Tracks)-1)
	m.d.PressedKeys = nil
}

// clearTrack
type clearTrack Model

func (m *Model) ClearTrack() Action { return MakeAction((*clearTrack)(m)) }
func (m *clearTrack) Enabled() bool {
	t := m.d.Song.Track(m.d.SelectedTrackIndex)
	return t != nil && len(t.Notes) > 0
}
func (m *clearTrack) Do() {
	defer (*Model)(m).change("ClearTrack")()
	(*Model)(m).updateTrack(m.d.SelectedTrackIndex, func(pianoroll.Notes) pianoroll.Notes { return nil })
}

// toggleMode
type toggleMode Model

func (m *Model) ToggleMode() Action { return MakeAction((*toggleMode)(m)) }
func (m *toggleMode) Do() {
	if m.d.Mode == ModeKeys {
		(*Model)(m).SetMode(ModeTracks)
	} else {
		(*Model)(m).SetMode(ModeKeys)
	}
}

// finerGrid & coarserGrid
type (
	finerGrid   Model
	coarserGrid Model
)

func (m *Model) FinerGrid() Action   { return MakeAction((*finerGrid)(m)) }
func (m *Model) CoarserGrid() Action { return MakeAction((*coarserGrid)(m)) }

func (m *finerGrid) Enabled() bool   { return m.d.GridDivision.Finer() != m.d.GridDivision }
func (m *finerGrid) Do()             { (*Model)(m).SetGridDivision(m.d.GridDivision.Finer()) }
func (m *coarserGrid) Enabled() bool { return m.d.GridDivision.Coarser() != m.d.GridDivision }
func (m *coarserGrid) Do()           { (*Model)(m).SetGridDivision(m.d.GridDivision.Coarser()) }

// releaseKeys
type releaseKeys Model

func (m *Model) ReleaseKeys() Action { return MakeAction((*releaseKeys)(m)) }
func (m *releaseKeys) Enabled() bool { return len(m.d.PressedKeys) > 0 }
func (m *releaseKeys) Do()           { (*Model)(m).SetPressedKeys(nil) }

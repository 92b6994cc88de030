package editor

type (
	Bool struct {
		BoolData
	}

	BoolData interface {
		Value() bool
		Enabled() bool
		setValue(bool)
	}

	SnapToGrid     Model
	ShowAllTracks  Model
	ShowTrackList  Model
	FollowPlayHead Model
	TracksMode     Model
)

func (v Bool) Toggle() {
	v.Set(!v.Value())
}

func (v Bool) Set(value bool) {
	if v.Enabled() && v.Value() != value {
		v.setValue(value)
	}
}

// Model methods

func (m *Model) SnapToGrid() *SnapToGrid         { return (*SnapToGrid)(m) }
func (m *Model) ShowAllTracks() *ShowAllTracks   { return (*ShowAllTracks)(m) }
func (m *Model) ShowTrackList() *ShowTrackList   { return (*ShowTrackList)(m) }
func (m *Model) FollowPlayHead() *FollowPlayHead { return (*FollowPlayHead)(m) }
func (m *Model) TracksMode() *TracksMode         { return (*TracksMode)(m) }

// SnapToGrid methods

func (m *SnapToGrid) Bool() Bool        { return Bool{m} }
func (m *SnapToGrid) Value() bool       { return m.d.SnapToGrid }
func (m *SnapToGrid) setValue(val bool) { m.d.SnapToGrid = val }
func (m *SnapToGrid) Enabled() bool     { return true }

// ShowAllTracks methods

func (m *ShowAllTracks) Bool() Bool        { return Bool{m} }
func (m *ShowAllTracks) Value() bool       { return m.d.ShowAllTracks }
func (m *ShowAllTracks) setValue(val bool) { m.d.ShowAllTracks = val }
func (m *ShowAllTracks) Enabled() bool     { return m.d.Mode == ModeKeys }

// ShowTrackList methods

func (m *ShowTrackList) Bool() Bool        { return Bool{m} }
func (m *ShowTrackList) Value() bool       { return m.d.ShowTrackList }
func (m *ShowTrackList) setValue(val bool) { m.d.ShowTrackList = val }
func (m *ShowTrackList) Enabled() bool     { return true }

// FollowPlayHead methods

func (m *FollowPlayHead) Bool() Bool        { return Bool{m} }
func (m *FollowPlayHead) Value() bool       { return m.d.FollowPlayHead }
func (m *FollowPlayHead) setValue(val bool) { m.d.FollowPlayHead = val }
func (m *FollowPlayHead) Enabled() bool     { return true }

// TracksMode methods

func (m *TracksMode) Bool() Bool    { return Bool{m} }
func (m *TracksMode) Value() bool   { return m.d.Mode == ModeTracks }
func (m *TracksMode) Enabled() bool { return len(m.d.Song.Tracks) > 0 }
func (m *TracksMode) setValue(val bool) {
	if val {
		(*Model)(m).SetMode(ModeTracks)
	} else {
		(*Model)(m).SetMode(ModeKeys)
	}
}

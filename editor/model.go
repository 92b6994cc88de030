package editor

import (
	"encoding/json"
	"math"
	"os"
	"slices"

	"github.com/pianoroll-go/pianoroll"
)

// Model is the default state container of the editor, for hosts that do not
// want to own the editor state themselves. Props returns the state together
// with handlers that write back to the Model. Note and track edits are
// recorded in an undo history.
//
// Go does not have immutable slices, so the Tracks handed out in Props share
// memory with the Model. The Model itself never modifies a track slice or a
// note slice in place after handing it out, but the receivers must not
// modify them either.
type (
	// modelData is the part of the model that gets saved to the recovery file
	modelData struct {
		Song                  pianoroll.Song
		GridDivision          pianoroll.GridDivision
		SnapToGrid            bool
		SelectedTrackIndex    int
		Mode                  Mode
		Position              float64
		Zoom                  float64
		VerticalPosition      float64
		VerticalZoom          float64
		VerticalTrackPosition float64
		VerticalTrackZoom     float64
		Duration              float64
		PressedKeys           []int `json:"-"`
		ShowAllTracks         bool
		ShowTrackList         bool
		PlayHead              float64
		FollowPlayHead        bool
		FilePath              string
		ChangedSinceSave      bool
		RecoveryFilePath      string
		ChangedSinceRecovery  bool
	}

	Model struct {
		d modelData

		undoStack  []pianoroll.Song
		redoStack  []pianoroll.Song
		lastChange string

		changeLevel  int
		changeCancel bool
		changeOld    pianoroll.Song

		// gestureOld is the song before the running gesture, nil if none
		gestureOld *pianoroll.Song
	}
)

const maxUndo = 64

// RecoveryFile is the name of the recovery file in the user config dir.
const RecoveryFile = "pianoroll-recovery.json"

// DefaultSong is the song of a new Model: one empty track.
var DefaultSong = pianoroll.Song{
	PPQ:    pianoroll.DefaultPPQ,
	Tracks: []pianoroll.Track{{Name: "Track 1", Color: pianoroll.DefaultColors[0]}},
}

// NewModel returns a Model with the default state and song. If a recovery
// file exists at recoveryFilePath, the state is restored from it.
func NewModel(recoveryFilePath string) *Model {
	ret := new(Model)
	ret.setState(DefaultState())
	ret.setSongNoUndo(DefaultSong.Copy())
	ret.d.RecoveryFilePath = recoveryFilePath
	if recoveryFilePath != "" {
		if bytes2, err := os.ReadFile(ret.d.RecoveryFilePath); err == nil {
			var data modelData
			if json.Unmarshal(bytes2, &data) == nil {
				ret.d = data
				ret.d.RecoveryFilePath = recoveryFilePath
				ret.updateDuration()
			}
		}
	}
	return ret
}

func (m *Model) setState(s State) {
	m.d.Song.PPQ = s.PPQ
	m.d.GridDivision = s.GridDivision
	m.d.SnapToGrid = s.SnapToGrid
	m.d.SelectedTrackIndex = s.SelectedTrackIndex
	m.d.Mode = s.Mode
	m.d.Position = s.Position
	m.d.Zoom = s.Zoom
	m.d.VerticalPosition = s.VerticalPosition
	m.d.VerticalZoom = s.VerticalZoom
	m.d.VerticalTrackPosition = s.VerticalTrackPosition
	m.d.VerticalTrackZoom = s.VerticalTrackZoom
	m.d.Duration = s.Duration
	m.d.PressedKeys = slices.Clone(s.PressedKeys)
	m.d.ShowAllTracks = s.ShowAllTracks
	m.d.ShowTrackList = s.ShowTrackList
	m.d.PlayHead = s.PlayHead
	m.d.FollowPlayHead = s.FollowPlayHead
}

// State returns the current state. The Tracks are shared with the Model.
func (m *Model) State() State {
	return State{
		PPQ:                   m.d.Song.PPQ,
		GridDivision:          m.d.GridDivision,
		SnapToGrid:            m.d.SnapToGrid,
		Tracks:                m.d.Song.Tracks,
		SelectedTrackIndex:    m.d.SelectedTrackIndex,
		Mode:                  m.d.Mode,
		Position:              m.d.Position,
		Zoom:                  m.d.Zoom,
		VerticalPosition:      m.d.VerticalPosition,
		VerticalZoom:          m.d.VerticalZoom,
		VerticalTrackPosition: m.d.VerticalTrackPosition,
		VerticalTrackZoom:     m.d.VerticalTrackZoom,
		Duration:              m.d.Duration,
		PressedKeys:           m.d.PressedKeys,
		ShowAllTracks:         m.d.ShowAllTracks,
		ShowTrackList:         m.d.ShowTrackList,
		PlayHead:              m.d.PlayHead,
		FollowPlayHead:        m.d.FollowPlayHead,
	}
}

// Handlers returns handlers that write to the Model.
func (m *Model) Handlers() Handlers {
	return Handlers{
		OnPPQChange:                   m.SetPPQ,
		OnGridDivisionChange:          m.SetGridDivision,
		OnSnapToGridChange:            m.SetSnapToGrid,
		OnTracksChange:                m.SetTracks,
		OnSelectedTrackIndexChange:    m.SetSelectedTrackIndex,
		OnModeChange:                  m.SetMode,
		OnPositionChange:              m.SetPosition,
		OnZoomChange:                  m.SetZoom,
		OnVerticalPositionChange:      m.SetVerticalPosition,
		OnVerticalZoomChange:          m.SetVerticalZoom,
		OnVerticalTrackPositionChange: m.SetVerticalTrackPosition,
		OnVerticalTrackZoomChange:     m.SetVerticalTrackZoom,
		OnDurationChange:              m.SetDuration,
		OnPressedKeysChange:           m.SetPressedKeys,
		OnPlayHeadChange:              m.SetPlayHead,
		OnNoteChange:                  m.ChangeNote,
		OnInsertNote:                  m.InsertNote,
		OnRemoveNote:                  m.RemoveNote,
		OnGestureStart:                m.StartGesture,
		OnGestureEnd:                  m.EndGesture,
	}
}

// Props returns the current state with handlers bound to the Model.
func (m *Model) Props() Props {
	return Props{State: m.State(), Handlers: m.Handlers()}
}

// Song returns a copy of the song being edited.
func (m *Model) Song() pianoroll.Song { return m.d.Song.Copy() }

// SetSong replaces the song, as an undoable change. An equal song is not a
// change.
func (m *Model) SetSong(song pianoroll.Song) {
	if songsEqual(m.d.Song, song) {
		return
	}
	defer m.change("SetSong")()
	m.d.Song = song.Copy()
	m.d.SelectedTrackIndex = max(min(m.d.SelectedTrackIndex, len(song.Tracks)-1), 0)
}

// ReloadSong replaces the song with the one read from its file, e.g. after
// the file changed on disk. The reload can be undone, but the song stays
// saved. It reports false if the song was equal, as after saving it.
func (m *Model) ReloadSong(song pianoroll.Song) bool {
	if songsEqual(m.d.Song, song) {
		return false
	}
	m.SetSong(song)
	m.d.ChangedSinceSave = false
	return true
}

// SetDefaultPPQ sets the PPQ of a saved song without notes, without recording
// an edit. Songs with notes or unsaved changes keep their PPQ.
func (m *Model) SetDefaultPPQ(ppq int) {
	if ppq < 1 || m.d.ChangedSinceSave || m.d.Song.NumNotes() > 0 || m.d.Song.PPQ == ppq {
		return
	}
	m.d.Song.PPQ = ppq
	m.d.ChangedSinceRecovery = true
	m.updateDuration()
}

// LoadSong replaces the song and clears the undo history, e.g. after opening
// a file.
func (m *Model) LoadSong(song pianoroll.Song, filePath string) {
	m.setSongNoUndo(song.Copy())
	m.d.FilePath = filePath
	m.d.ChangedSinceSave = false
	m.d.Position = 0
	m.d.PlayHead = 0
	m.d.SelectedTrackIndex = 0
}

func (m *Model) setSongNoUndo(song pianoroll.Song) {
	m.d.Song = song
	m.undoStack = nil
	m.redoStack = nil
	m.gestureOld = nil
	m.d.PressedKeys = nil
	m.d.ChangedSinceRecovery = true
	m.updateDuration()
}

func (m *Model) FilePath() string           { return m.d.FilePath }
func (m *Model) SetFilePath(value string)   { m.d.FilePath = value }
func (m *Model) ChangedSinceSave() bool     { return m.d.ChangedSinceSave }
func (m *Model) SetChangedSinceSave(v bool) { m.d.ChangedSinceSave = v }

// LastChange names the last edit of the song, e.g. "InsertNote".
func (m *Model) LastChange() string { return m.lastChange }

// IsKeyDown reports if the key is pressed while the track exists.
func (m *Model) IsKeyDown(trackIndex, key int) bool {
	s := m.State()
	return s.IsKeyDown(trackIndex, key)
}

// change wraps an edit of the song: the returned function must be deferred
// and records the song before the edit in the undo history, unless the edit
// is cancelled by setting changeCancel. Nested changes are recorded once.
// Within a gesture, the whole gesture is one undo step.
func (m *Model) change(kind string) func() {
	if m.changeLevel == 0 && m.gestureOld == nil {
		m.changeOld = m.d.Song.Copy()
	}
	m.changeLevel++
	return func() {
		m.changeLevel--
		if m.changeLevel > 0 {
			return
		}
		if m.changeCancel {
			m.changeCancel = false
			if m.gestureOld == nil {
				m.d.Song = m.changeOld
			}
			return
		}
		m.d.ChangedSinceSave = true
		m.d.ChangedSinceRecovery = true
		m.lastChange = kind
		m.updateDuration()
		if m.gestureOld != nil {
			return
		}
		m.pushUndo(m.changeOld)
	}
}

func (m *Model) pushUndo(song pianoroll.Song) {
	m.undoStack = append(m.undoStack, song)
	if len(m.undoStack) > maxUndo {
		copy(m.undoStack, m.undoStack[len(m.undoStack)-maxUndo:])
		m.undoStack = m.undoStack[:maxUndo]
	}
	m.redoStack = m.redoStack[:0]
}

// StartGesture begins coalescing all following edits into one undo step.
func (m *Model) StartGesture() {
	if m.gestureOld != nil {
		return
	}
	old := m.d.Song.Copy()
	m.gestureOld = &old
}

// EndGesture records the gesture in the undo history if it changed the
// song. Tracks left out of order by moving notes are sorted again; during
// the gesture the notes keep their indices.
func (m *Model) EndGesture() {
	if m.gestureOld == nil {
		return
	}
	old := *m.gestureOld
	m.gestureOld = nil
	for i, t := range m.d.Song.Tracks {
		if !t.Notes.Sorted() {
			m.updateTrack(i, pianoroll.Notes.Sort)
		}
	}
	if !songsEqual(old, m.d.Song) {
		m.pushUndo(old)
	}
	m.updateDuration()
}

func songsEqual(a, b pianoroll.Song) bool {
	return a.PPQ == b.PPQ && slices.EqualFunc(a.Tracks, b.Tracks, func(x, y pianoroll.Track) bool {
		return x.Name == y.Name && x.Color == y.Color && slices.Equal(x.Notes, y.Notes)
	})
}

// updateDuration sets the duration to whole measures covering the song plus
// one empty measure, at least DefaultMeasures. It never shrinks during a
// gesture, so that the time axis does not move under the pointer.
func (m *Model) updateDuration() {
	measure := float64(m.d.Song.PPQ * 4)
	if measure <= 0 {
		m.d.Duration = 0
		return
	}
	d := max(math.Ceil(float64(m.d.Song.End())/measure)+1, DefaultMeasures) * measure
	if m.gestureOld != nil {
		d = max(d, m.d.Duration)
	}
	m.d.Duration = d
}

// DefaultMeasures is the minimum length of the song in the editor.
const DefaultMeasures = 16

// Note edits

func (m *Model) updateTrack(trackIndex int, f func(pianoroll.Notes) pianoroll.Notes) bool {
	t := m.d.Song.Track(trackIndex)
	if t == nil {
		return false
	}
	tracks := slices.Clone(m.d.Song.Tracks)
	tracks[trackIndex].Notes = f(t.Notes)
	m.d.Song.Tracks = tracks
	return true
}

// ChangeNote replaces the note at noteIndex of the track.
func (m *Model) ChangeNote(trackIndex, noteIndex int, note pianoroll.Note) {
	t := m.d.Song.Track(trackIndex)
	if t == nil {
		return
	}
	if _, ok := t.Notes.Get(noteIndex); !ok {
		return
	}
	defer m.change("ChangeNote")()
	m.updateTrack(trackIndex, func(n pianoroll.Notes) pianoroll.Notes { return n.Update(noteIndex, note.Clamp()) })
}

// InsertNote inserts the note in order and returns its index, or -1 if the
// track does not exist.
func (m *Model) InsertNote(trackIndex int, note pianoroll.Note) int {
	if m.d.Song.Track(trackIndex) == nil {
		return -1
	}
	defer m.change("InsertNote")()
	index := -1
	m.updateTrack(trackIndex, func(n pianoroll.Notes) pianoroll.Notes {
		ret, i := n.Insert(note.Clamp())
		index = i
		return ret
	})
	return index
}

// RemoveNote removes the note at noteIndex of the track.
func (m *Model) RemoveNote(trackIndex, noteIndex int) {
	t := m.d.Song.Track(trackIndex)
	if t == nil {
		return
	}
	if _, ok := t.Notes.Get(noteIndex); !ok {
		return
	}
	defer m.change("RemoveNote")()
	m.updateTrack(trackIndex, func(n pianoroll.Notes) pianoroll.Notes { return n.Remove(noteIndex) })
}

// SetTracks replaces all tracks.
func (m *Model) SetTracks(tracks []pianoroll.Track) {
	defer m.change("SetTracks")()
	m.d.Song.Tracks = slices.Clone(tracks)
	m.d.SelectedTrackIndex = min(m.d.SelectedTrackIndex, len(tracks)-1)
}

// View state setters

func (m *Model) SetPPQ(ppq int) {
	if ppq < 1 || ppq == m.d.Song.PPQ {
		return
	}
	defer m.change("SetPPQ")()
	m.d.Song.PPQ = ppq
}

func (m *Model) SetGridDivision(d pianoroll.GridDivision) {
	if d.Valid() {
		m.d.GridDivision = d
	}
}

func (m *Model) SetSnapToGrid(v bool) { m.d.SnapToGrid = v }

// SetSelectedTrackIndex selects a track; -1 selects none.
func (m *Model) SetSelectedTrackIndex(i int) {
	m.d.SelectedTrackIndex = max(min(i, len(m.d.Song.Tracks)-1), -1)
}

// SetMode switches the vertical axis. Switching to tracks resets the vertical
// key position.
func (m *Model) SetMode(mode Mode) {
	if mode != ModeKeys && mode != ModeTracks {
		return
	}
	if mode == ModeTracks && m.d.Mode != ModeTracks {
		m.d.VerticalPosition = 0
	}
	m.d.Mode = mode
}

func (m *Model) SetPosition(p float64)              { m.d.Position = finiteNonNegative(p) }
func (m *Model) SetVerticalPosition(p float64)      { m.d.VerticalPosition = finiteNonNegative(p) }
func (m *Model) SetVerticalTrackPosition(p float64) { m.d.VerticalTrackPosition = finiteNonNegative(p) }
func (m *Model) SetZoom(z float64)                  { m.d.Zoom = positiveOr(z, m.d.Zoom) }
func (m *Model) SetVerticalZoom(z float64)          { m.d.VerticalZoom = positiveOr(z, m.d.VerticalZoom) }
func (m *Model) SetVerticalTrackZoom(z float64)     { m.d.VerticalTrackZoom = positiveOr(z, m.d.VerticalTrackZoom) }
func (m *Model) SetDuration(d float64)              { m.d.Duration = finiteNonNegative(d) }
func (m *Model) SetPlayHead(p float64)              { m.d.PlayHead = finiteNonNegative(p) }
func (m *Model) SetShowAllTracks(v bool)            { m.d.ShowAllTracks = v }
func (m *Model) SetShowTrackList(v bool)            { m.d.ShowTrackList = v }
func (m *Model) SetFollowPlayHead(v bool)           { m.d.FollowPlayHead = v }

// SetPressedKeys replaces the pressed keys, dropping invalid and duplicate
// ones.
func (m *Model) SetPressedKeys(keys []int) {
	ret := make([]int, 0, len(keys))
	for _, k := range keys {
		if k >= 0 && k < pianoroll.NumKeys && !slices.Contains(ret, k) {
			ret = append(ret, k)
		}
	}
	m.d.PressedKeys = ret
}

func finiteNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return max(v, 0)
}

func positiveOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

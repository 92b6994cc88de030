package editor

import (
	"fmt"
	"slices"

	"github.com/pianoroll-go/pianoroll"
)

type (
	// Mode is the meaning of the vertical axis of the note area.
	Mode int

	// State is the editor state owned by the host.
	State struct {
		PPQ                int
		GridDivision       pianoroll.GridDivision
		SnapToGrid         bool
		Tracks             []pianoroll.Track
		SelectedTrackIndex int // -1 for none
		Mode               Mode
		Position           float64 // ticks
		Zoom               float64
		VerticalPosition   float64 // keys, counted down from key 127
		VerticalZoom       float64
		// VerticalTrackPosition and VerticalTrackZoom scroll the track list.
		VerticalTrackPosition float64
		VerticalTrackZoom     float64
		Duration              float64 // ticks
		PressedKeys           []int
		ShowAllTracks         bool
		ShowTrackList         bool
		PlayHead              float64 // ticks
		FollowPlayHead        bool
	}

	// Handlers receive the changes the editor proposes. Every handler is
	// optional; a nil handler means the change is ignored.
	Handlers struct {
		OnPPQChange                   func(ppq int)
		OnGridDivisionChange          func(d pianoroll.GridDivision)
		OnSnapToGridChange            func(snap bool)
		OnTracksChange                func(tracks []pianoroll.Track)
		OnSelectedTrackIndexChange    func(index int)
		OnModeChange                  func(mode Mode)
		OnPositionChange              func(position float64)
		OnZoomChange                  func(zoom float64)
		OnVerticalPositionChange      func(position float64)
		OnVerticalZoomChange          func(zoom float64)
		OnVerticalTrackPositionChange func(position float64)
		OnVerticalTrackZoomChange     func(zoom float64)
		OnDurationChange              func(duration float64)
		OnPressedKeysChange           func(keys []int)
		OnPlayHeadChange              func(ticks float64)

		// OnNoteChange replaces a note in place.
		OnNoteChange func(trackIndex, noteIndex int, note pianoroll.Note)
		// OnInsertNote inserts a note and must return the index where the
		// note was stored, or -1 if it was not.
		OnInsertNote func(trackIndex int, note pianoroll.Note) int
		OnRemoveNote func(trackIndex, noteIndex int)

		// OnGestureStart and OnGestureEnd bracket a drag, so that a state
		// container can treat all the edits of one drag as one change.
		OnGestureStart func()
		OnGestureEnd   func()
	}

	// Props is the State together with the Handlers.
	Props struct {
		State
		Handlers
	}

	// NoteListHandlers are the handlers for editing a single list of notes
	// without tracks.
	NoteListHandlers struct {
		OnNoteChange func(index int, note pianoroll.Note)
		OnInsertNote func(note pianoroll.Note) int
		OnRemoveNote func(index int)
	}
)

const (
	ModeKeys Mode = iota
	ModeTracks
)

// MaxTracks limits the number of tracks the Model allows.
const MaxTracks = 256

func (m Mode) String() string {
	switch m {
	case ModeKeys:
		return "keys"
	case ModeTracks:
		return "tracks"
	}
	return "unknown"
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "keys":
		return ModeKeys, nil
	case "tracks":
		return ModeTracks, nil
	}
	return ModeKeys, fmt.Errorf("unknown mode %q", s)
}

// DefaultState returns the initial state of a new editor.
func DefaultState() State {
	return State{
		GridDivision:       pianoroll.DefaultGridDivision,
		SnapToGrid:         true,
		Mode:               ModeKeys,
		Zoom:               10,
		VerticalZoom:       5,
		VerticalPosition:   44,
		VerticalTrackZoom:  1,
		SelectedTrackIndex: 0,
	}
}

// SetNotes turns Props into a single track editor over notes: the notes
// become track 0 and the track handlers are routed to h, ignoring the track
// index.
func (p *Props) SetNotes(notes pianoroll.Notes, h NoteListHandlers) {
	p.Tracks = []pianoroll.Track{{Notes: notes}}
	p.SelectedTrackIndex = 0
	p.Mode = ModeKeys
	p.OnNoteChange = nil
	p.OnInsertNote = nil
	p.OnRemoveNote = nil
	if h.OnNoteChange != nil {
		p.OnNoteChange = func(_, i int, n pianoroll.Note) { h.OnNoteChange(i, n) }
	}
	if h.OnInsertNote != nil {
		p.OnInsertNote = func(_ int, n pianoroll.Note) int { return h.OnInsertNote(n) }
	}
	if h.OnRemoveNote != nil {
		p.OnRemoveNote = func(_, i int) { h.OnRemoveNote(i) }
	}
}

// Track returns the track at index, or nil.
func (s *State) Track(index int) *pianoroll.Track {
	if index < 0 || index >= len(s.Tracks) {
		return nil
	}
	return &s.Tracks[index]
}

// Note returns the note at the given track and index.
func (s *State) Note(trackIndex, noteIndex int) (pianoroll.Note, bool) {
	t := s.Track(trackIndex)
	if t == nil {
		return pianoroll.Note{}, false
	}
	return t.Notes.Get(noteIndex)
}

// GridTicks returns the length of a cell of the selected grid in ticks.
func (s *State) GridTicks() float64 {
	return s.GridDivision.Ticks(s.PPQ)
}

// IsKeyDown reports if the key is pressed. Pressed keys are shared by all
// tracks, so the track index only needs to exist.
func (s *State) IsKeyDown(trackIndex, key int) bool {
	if trackIndex >= 0 && s.Track(trackIndex) == nil {
		return false
	}
	return slices.Contains(s.PressedKeys, key)
}

// TrackVisible reports if the notes of a track are drawn and editable.
func (s *State) TrackVisible(trackIndex int) bool {
	return trackIndex == s.SelectedTrackIndex || s.ShowAllTracks || s.Mode == ModeTracks
}

// Nil-safe handler calls

func (h *Handlers) changeNote(trackIndex, noteIndex int, note pianoroll.Note) {
	if h.OnNoteChange != nil {
		h.OnNoteChange(trackIndex, noteIndex, note)
	}
}

func (h *Handlers) insertNote(trackIndex int, note pianoroll.Note) int {
	if h.OnInsertNote == nil {
		return -1
	}
	return h.OnInsertNote(trackIndex, note)
}

func (h *Handlers) removeNote(trackIndex, noteIndex int) {
	if h.OnRemoveNote != nil {
		h.OnRemoveNote(trackIndex, noteIndex)
	}
}

func (h *Handlers) gestureStart() {
	if h.OnGestureStart != nil {
		h.OnGestureStart()
	}
}

func (h *Handlers) gestureEnd() {
	if h.OnGestureEnd != nil {
		h.OnGestureEnd()
	}
}

func (h *Handlers) setPressedKeys(keys []int) {
	if h.OnPressedKeysChange != nil {
		h.OnPressedKeysChange(keys)
	}
}

func (h *Handlers) setMode(mode Mode) {
	if h.OnModeChange != nil {
		h.OnModeChange(mode)
	}
}

func (h *Handlers) setVerticalPosition(p float64) {
	if h.OnVerticalPositionChange != nil {
		h.OnVerticalPositionChange(p)
	}
}

func (h *Handlers) setSelectedTrackIndex(i int) {
	if h.OnSelectedTrackIndexChange != nil {
		h.OnSelectedTrackIndexChange(i)
	}
}

func (h *Handlers) setPosition(p float64) {
	if h.OnPositionChange != nil {
		h.OnPositionChange(p)
	}
}

func (h *Handlers) setPlayHead(p float64) {
	if h.OnPlayHeadChange != nil {
		h.OnPlayHeadChange(p)
	}
}

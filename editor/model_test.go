package editor_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/editor"
)

type modelFuzzState struct {
	model *editor.Model
	roll  *editor.PianoRoll
}

func (s *modelFuzzState) Iterate(yield func(string, func(p string, t *testing.T)) bool, seed int) {
	// Ints
	s.IterateInt("PPQ", s.model.PPQ().Int(), yield, seed)
	s.IterateInt("GridDivision", s.model.GridDivision().Int(), yield, seed)
	s.IterateInt("SelectedTrack", s.model.SelectedTrack().Int(), yield, seed)
	// Bools
	s.IterateBool("SnapToGrid", s.model.SnapToGrid().Bool(), yield, seed)
	s.IterateBool("ShowAllTracks", s.model.ShowAllTracks().Bool(), yield, seed)
	s.IterateBool("ShowTrackList", s.model.ShowTrackList().Bool(), yield, seed)
	s.IterateBool("FollowPlayHead", s.model.FollowPlayHead().Bool(), yield, seed)
	s.IterateBool("TracksMode", s.model.TracksMode().Bool(), yield, seed)
	// Actions
	s.IterateAction("AddTrack", s.model.AddTrack(), yield, seed)
	s.IterateAction("DeleteTrack", s.model.DeleteTrack(), yield, seed)
	s.IterateAction("ClearTrack", s.model.ClearTrack(), yield, seed)
	s.IterateAction("ToggleMode", s.model.ToggleMode(), yield, seed)
	s.IterateAction("FinerGrid", s.model.FinerGrid(), yield, seed)
	s.IterateAction("CoarserGrid", s.model.CoarserGrid(), yield, seed)
	s.IterateAction("ReleaseKeys", s.model.ReleaseKeys(), yield, seed)
	s.IterateAction("Undo", s.model.History().Undo(), yield, seed)
	s.IterateAction("Redo", s.model.History().Redo(), yield, seed)
	// Notes
	note := pianoroll.Note{Midi: seed % 140, Ticks: seed * 37 % 4000, DurationTicks: seed % 500, Velocity: seed % 130}
	yield("InsertNote", func(p string, t *testing.T) {
		s.model.InsertNote(seed%5-1, note)
	})
	yield("ChangeNote", func(p string, t *testing.T) {
		s.model.ChangeNote(seed%5-1, seed%7-1, note)
	})
	yield("RemoveNote", func(p string, t *testing.T) {
		s.model.RemoveNote(seed%5-1, seed%7-1)
	})
	yield("SetPressedKeys", func(p string, t *testing.T) {
		s.model.SetPressedKeys([]int{seed % 140, seed % 140, -seed})
	})
	// Pointer
	x, y := float64(seed*13%600)-50, float64(seed*7%600)-50
	yield("Press", func(p string, t *testing.T) {
		s.roll.Press(editor.PointerEvent{X: x, Y: y, Alt: seed%3 == 0})
	})
	yield("Move", func(p string, t *testing.T) {
		s.roll.Move(editor.PointerEvent{X: x, Y: y, Alt: seed%3 == 0})
	})
	yield("Release", func(p string, t *testing.T) {
		s.roll.Release(editor.PointerEvent{X: x, Y: y})
	})
	yield("Cancel", func(p string, t *testing.T) {
		s.roll.Cancel()
	})
	yield("DoubleClick", func(p string, t *testing.T) {
		s.roll.DoubleClick(editor.PointerEvent{X: x, Y: y})
	})
	yield("PressKey", func(p string, t *testing.T) {
		s.roll.PressKey(y)
	})
	yield("ReleaseKey", func(p string, t *testing.T) {
		s.roll.ReleaseKey()
	})
	yield("Wheel", func(p string, t *testing.T) {
		s.roll.HorizontalZoom().SetFraction(float64(seed%11) / 10)
	})
}

func (s *modelFuzzState) IterateInt(name string, i editor.Int, yield func(string, func(p string, t *testing.T)) bool, seed int) {
	r := i.Range()
	yield(name+".Set", func(p string, t *testing.T) {
		i.Set(seed%(r.Max-r.Min+10) - 5 + r.Min)
	})
	yield(name+".Value", func(p string, t *testing.T) {
		if v := i.Value(); v < r.Min || v > r.Max {
			t.Errorf("Path: %s %s value out of range [%d,%d]: %d", p, name, r.Min, r.Max, v)
		}
	})
}

func (s *modelFuzzState) IterateAction(name string, a editor.Action, yield func(string, func(p string, t *testing.T)) bool, seed int) {
	yield(name+".Do", func(p string, t *testing.T) {
		a.Do()
	})
}

func (s *modelFuzzState) IterateBool(name string, b editor.Bool, yield func(string, func(p string, t *testing.T)) bool, seed int) {
	yield(name+".Set", func(p string, t *testing.T) {
		b.Set(seed%2 == 0)
	})
	yield(name+".Toggle", func(p string, t *testing.T) {
		b.Toggle()
	})
}

func (s *modelFuzzState) check(path string, t *testing.T) {
	st := s.model.State()
	if st.SelectedTrackIndex < -1 || st.SelectedTrackIndex >= len(st.Tracks) {
		t.Errorf("Path: %s selected track out of range: %d", path, st.SelectedTrackIndex)
	}
	if !st.GridDivision.Valid() {
		t.Errorf("Path: %s invalid grid division: %d", path, st.GridDivision)
	}
	if st.PPQ < 1 {
		t.Errorf("Path: %s invalid ppq: %d", path, st.PPQ)
	}
	end := 0
	for i, track := range st.Tracks {
		for j, n := range track.Notes {
			if n != n.Clamp() {
				t.Errorf("Path: %s track %d note %d out of range: %v", path, i, j, n)
			}
			end = max(end, n.End())
		}
	}
	if st.Duration < float64(end) {
		t.Errorf("Path: %s duration %v shorter than the song %v", path, st.Duration, end)
	}
	for _, k := range st.PressedKeys {
		if k < 0 || k >= pianoroll.NumKeys {
			t.Errorf("Path: %s invalid pressed key: %d", path, k)
		}
	}
}

func FuzzModel(f *testing.F) {
	seed := make([]byte, 1)
	for i := range seed {
		seed[i] = byte(i)
	}
	f.Add(seed)
	f.Add([]byte{2, 30, 62, 64, 100, 101, 102, 103, 8, 10, 12})
	f.Fuzz(func(t *testing.T, slice []byte) {
		reader := bytes.NewReader(slice)
		model := editor.NewModel("")
		roll := editor.NewPianoRoll(model)
		roll.Layout(editor.Bounds{Width: 500, Height: 500}, editor.Bounds{})
		state := modelFuzzState{model: model, roll: roll}
		count := 0
		state.Iterate(func(n string, f func(p string, t *testing.T)) bool {
			count++
			return true
		}, 0)
		totalPath := ""
		for m, err := binary.ReadVarint(reader); err == nil; m, err = binary.ReadVarint(reader) {
			seed := max(int(m), -int(m))
			index := seed % count
			state.Iterate(func(n string, f func(p string, t *testing.T)) bool {
				if index == 0 {
					totalPath += n + ". "
					f(totalPath, t)
				}
				index--
				return index > 0
			}, seed)
			state.check(totalPath, t)
		}
		roll.Cancel()
		if roll.Dragging() {
			t.Errorf("Path: %s drag survived cancel", totalPath)
		}
		state.check(totalPath+"Cancel. ", t)
	})
}

func TestUndoRedo(t *testing.T) {
	m := editor.NewModel("")
	undo, redo := m.History().Undo(), m.History().Redo()
	if undo.Enabled() || redo.Enabled() {
		t.Fatal("history of a new model is not empty")
	}
	n := pianoroll.Note{Midi: 60, Ticks: 0, DurationTicks: 480, Velocity: 100}
	if i := m.InsertNote(0, n); i != 0 {
		t.Fatalf("index of the first note, got: %v expected: 0", i)
	}
	m.ChangeNote(0, 0, pianoroll.Note{Midi: 62, Ticks: 480, DurationTicks: 480, Velocity: 100})
	if m.LastChange() != "ChangeNote" {
		t.Fatalf("last change, got: %q expected: ChangeNote", m.LastChange())
	}
	undo.Do()
	if got := m.Song().Tracks[0].Notes; !slices.Equal(got, pianoroll.Notes{n}) {
		t.Fatalf("notes after undo, got: %v expected: %v", got, pianoroll.Notes{n})
	}
	undo.Do()
	if got := len(m.Song().Tracks[0].Notes); got != 0 {
		t.Fatalf("notes after second undo, got: %v expected: 0", got)
	}
	redo.Do()
	redo.Do()
	if got := m.Song().Tracks[0].Notes[0].Midi; got != 62 {
		t.Fatalf("midi after redo, got: %v expected: 62", got)
	}
	if !m.ChangedSinceSave() {
		t.Fatal("model is not changed after edits")
	}
}

func TestReloadSong(t *testing.T) {
	m := editor.NewModel(filepath.Join(t.TempDir(), editor.RecoveryFile))
	m.InsertNote(0, pianoroll.Note{Midi: 60, Ticks: 0, DurationTicks: 480, Velocity: 100})
	m.SetChangedSinceSave(false)
	if m.ReloadSong(m.Song()) {
		t.Fatal("reloading the saved song was reported as a change")
	}
	if m.ChangedSinceSave() {
		t.Fatal("reloading the saved song marked it as changed")
	}
	m.History().Undo().Do()
	if got := m.Song().NumNotes(); got != 0 {
		t.Fatalf("notes after undo, got: %v expected: 0", got)
	}
	m.History().Redo().Do()
	m.SetChangedSinceSave(false)
	changed := m.Song()
	changed.Tracks[0].Notes, _ = changed.Tracks[0].Notes.Insert(pianoroll.Note{Midi: 62, Ticks: 480, DurationTicks: 480, Velocity: 100})
	if !m.ReloadSong(changed) {
		t.Fatal("reloading a changed song was not reported")
	}
	if m.ChangedSinceSave() {
		t.Fatal("song read from its file was marked as changed")
	}
	if got := m.Song().NumNotes(); got != 2 {
		t.Fatalf("notes after reload, got: %v expected: 2", got)
	}
	if err := m.History().Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	m.History().Undo().Do()
	if got := m.Song().NumNotes(); got != 1 {
		t.Fatalf("notes after undoing the reload, got: %v expected: 1", got)
	}
}

func TestSetDefaultPPQ(t *testing.T) {
	m := editor.NewModel("")
	m.SetDefaultPPQ(96)
	if got := m.State().PPQ; got != 96 {
		t.Fatalf("PPQ of an empty song, got: %v expected: 96", got)
	}
	if m.History().Undo().Enabled() || m.ChangedSinceSave() {
		t.Fatal("default PPQ was recorded as an edit")
	}
	m.InsertNote(0, pianoroll.Note{Midi: 60, Ticks: 0, DurationTicks: 96, Velocity: 100})
	m.RemoveNote(0, 0)
	m.SetDefaultPPQ(480)
	if got := m.State().PPQ; got != 96 {
		t.Fatalf("PPQ of a song with unsaved changes, got: %v expected: 96", got)
	}
	if !m.History().Undo().Enabled() || !m.ChangedSinceSave() {
		t.Fatal("default PPQ dropped the undo history")
	}
}

func TestInvalidIndices(t *testing.T) {
	m := editor.NewModel("")
	if i := m.InsertNote(3, pianoroll.Note{}); i != -1 {
		t.Fatalf("insert to a missing track, got: %v expected: -1", i)
	}
	m.ChangeNote(0, 5, pianoroll.Note{Midi: 1})
	m.RemoveNote(-1, 0)
	if m.History().Undo().Enabled() {
		t.Fatal("invalid edits were recorded")
	}
}

func TestGesture(t *testing.T) {
	m := editor.NewModel("")
	m.StartGesture()
	i := m.InsertNote(0, pianoroll.Note{Midi: 60, DurationTicks: 120, Velocity: 127})
	for d := 240; d <= 960; d += 240 {
		m.ChangeNote(0, i, pianoroll.Note{Midi: 60, DurationTicks: d, Velocity: 127})
	}
	if m.History().Undo().Enabled() {
		t.Fatal("undo enabled during a gesture")
	}
	m.EndGesture()
	m.History().Undo().Do()
	if got := len(m.Song().Tracks[0].Notes); got != 0 {
		t.Fatalf("notes after undoing the gesture, got: %v expected: 0", got)
	}
	m.StartGesture()
	m.EndGesture()
	if m.History().Undo().Enabled() {
		t.Fatal("empty gesture was recorded")
	}
}

func TestGestureSortsMovedNotes(t *testing.T) {
	m := editor.NewModel("")
	m.InsertNote(0, pianoroll.Note{Midi: 60, Ticks: 0, DurationTicks: 120, Velocity: 100})
	m.InsertNote(0, pianoroll.Note{Midi: 62, Ticks: 480, DurationTicks: 120, Velocity: 100})
	m.StartGesture()
	m.ChangeNote(0, 0, pianoroll.Note{Midi: 60, Ticks: 960, DurationTicks: 120, Velocity: 100})
	if got := m.Song().Tracks[0].Notes; got[0].Ticks != 960 {
		t.Fatalf("moved note changed its index during the gesture: %v", got)
	}
	m.EndGesture()
	got := m.Song().Tracks[0].Notes
	if !got.Sorted() || got[0].Midi != 62 || got[1].Midi != 60 {
		t.Fatalf("notes after the gesture, got: %v expected: sorted with 62 first", got)
	}
}

func TestDuration(t *testing.T) {
	m := editor.NewModel("")
	if got := m.State().Duration; got != 16*1920 {
		t.Fatalf("duration of an empty song, got: %v expected: %v", got, 16*1920)
	}
	m.InsertNote(0, pianoroll.Note{Midi: 60, Ticks: 39000, DurationTicks: 1000, Velocity: 100})
	if got := m.State().Duration; got != 22*1920 {
		t.Fatalf("duration, got: %v expected: %v", got, 22*1920)
	}
}

func TestModelSetMode(t *testing.T) {
	m := editor.NewModel("")
	m.SetVerticalPosition(44)
	m.ToggleMode().Do()
	if s := m.State(); s.Mode != editor.ModeTracks || s.VerticalPosition != 0 {
		t.Fatalf("after toggling the mode, got: %v %v expected: tracks 0", s.Mode, s.VerticalPosition)
	}
	m.SetZoom(-1)
	m.SetPosition(-10)
	if s := m.State(); s.Zoom != 10 || s.Position != 0 {
		t.Fatalf("invalid zoom and position, got: %v %v expected: 10 0", s.Zoom, s.Position)
	}
}

func TestTracks(t *testing.T) {
	m := editor.NewModel("")
	m.AddTrack().Do()
	s := m.State()
	if len(s.Tracks) != 2 || s.SelectedTrackIndex != 1 || s.Tracks[1].Name != "Track 2" {
		t.Fatalf("after adding a track, got: %+v", s.Tracks)
	}
	if m.ClearTrack().Enabled() {
		t.Fatal("clearing an empty track is enabled")
	}
	m.InsertNote(1, pianoroll.Note{Midi: 60, DurationTicks: 1, Velocity: 1})
	old := m.State().Tracks
	m.ClearTrack().Do()
	if len(old[1].Notes) != 1 {
		t.Fatal("clearing a track modified the tracks handed out before")
	}
	m.DeleteTrack().Do()
	if s := m.State(); len(s.Tracks) != 1 || s.SelectedTrackIndex != 0 {
		t.Fatalf("after deleting a track, got: %d tracks, selected %d", len(s.Tracks), s.SelectedTrackIndex)
	}
}

func TestRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recovery", editor.RecoveryFile)
	m := editor.NewModel(path)
	m.InsertNote(0, pianoroll.Note{Midi: 64, Ticks: 480, DurationTicks: 480, Velocity: 90})
	if err := m.History().SaveRecovery(); err != nil {
		t.Fatalf("SaveRecovery failed: %v", err)
	}
	restored := editor.NewModel(path)
	if got := restored.Song().Tracks[0].Notes; len(got) != 1 || got[0].Midi != 64 {
		t.Fatalf("restored notes, got: %v", got)
	}
	if err := restored.History().ClearRecovery(); err != nil {
		t.Fatalf("ClearRecovery failed: %v", err)
	}
	song := editor.NewModel(path).Song()
	if got := song.NumNotes(); got != 0 {
		t.Fatalf("notes after clearing the recovery, got: %v expected: 0", got)
	}
	m.SetChangedSinceSave(false)
	if err := m.History().Close(); err != nil {
		t.Fatalf("Close of a saved song failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("recovery file of a saved song was kept: %v", err)
	}
	m.InsertNote(0, pianoroll.Note{Midi: 65, Ticks: 0, DurationTicks: 480, Velocity: 90})
	if err := m.History().Close(); err != nil {
		t.Fatalf("Close of an unsaved song failed: %v", err)
	}
	recovered := editor.NewModel(path).Song()
	if got := recovered.NumNotes(); got != 2 {
		t.Fatalf("notes recovered after Close, got: %v expected: 2", got)
	}
	if err := editor.NewModel("").History().Close(); err != nil {
		t.Fatalf("Close of a new model failed: %v", err)
	}
}

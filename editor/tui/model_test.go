package tui_test

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/editor"
	"github.com/pianoroll-go/pianoroll/editor/tui"
)

type recordingOutput struct {
	events []string
}

func (r *recordingOutput) NoteOn(channel, key, velocity uint8) error {
	r.events = append(r.events, fmt.Sprintf("on %d", key))
	return nil
}

func (r *recordingOutput) NoteOff(channel, key uint8) error {
	r.events = append(r.events, fmt.Sprintf("off %d", key))
	return nil
}

func update(m tui.Model, msgs ...tea.Msg) (tui.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var ret tea.Model
		ret, cmd = m.Update(msg)
		m = ret.(tui.Model)
	}
	return m, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

// newModel returns an editor of 86x20 cells. With the default zoom, one cell
// of the note area is 49.152 ticks and a quarter note is 480 ticks.
func newModel(preview *editor.KeyPreview) tui.Model {
	m, _ := update(tui.New(editor.NewModel(""), preview), tea.WindowSizeMsg{Width: 86, Height: 20})
	return m
}

func notes(m tui.Model) pianoroll.Notes {
	return m.Editor.State().Tracks[0].Notes
}

func TestInsertAndDrag(t *testing.T) {
	m := newModel(nil)
	m, _ = update(m, press(26, 5), release(26, 5))
	if n := notes(m); len(n) != 1 || n[0].Ticks != 960 || n[0].DurationTicks != 480 {
		t.Fatalf("inserted note got: %v expected: one note at 960 lasting 480", n)
	}
	midi := notes(m)[0].Midi
	m, _ = update(m, press(30, 5), motion(40, 5), motion(50, 5), release(50, 5))
	if n := notes(m); len(n) != 1 || n[0].Ticks != 1920 || n[0].Midi != midi {
		t.Fatalf("moved note got: %v expected: ticks 1920 midi %d", n, midi)
	}
	m, _ = update(m, key("u"))
	if n := notes(m); len(n) != 1 || n[0].Ticks != 960 {
		t.Fatalf("after undo got: %v expected: note back at 960", n)
	}
	m, _ = update(m, key("r"))
	if n := notes(m); len(n) != 1 || n[0].Ticks != 1920 {
		t.Fatalf("after redo got: %v expected: note at 1920", n)
	}
	m, _ = update(m, press(50, 5), release(50, 5), press(50, 5), release(50, 5))
	if n := notes(m); len(n) != 0 {
		t.Fatalf("after double click got: %v expected: no notes", n)
	}
}

func TestEscapeCancelsDrag(t *testing.T) {
	m := newModel(nil)
	m, _ = update(m, press(26, 5), motion(60, 5))
	if !m.Roll.Dragging() {
		t.Fatalf("dragging got: false expected: true")
	}
	m, _ = update(m, key("esc"), release(60, 5))
	if n := notes(m); len(n) != 0 {
		t.Fatalf("after cancel got: %v expected: no notes", n)
	}
	if m.Roll.Dragging() {
		t.Fatalf("dragging after cancel got: true expected: false")
	}
}

func TestKeys(t *testing.T) {
	m := newModel(nil)
	steps := []struct {
		key   string
		check func(editor.State) bool
		want  string
	}{
		{"s", func(s editor.State) bool { return !s.SnapToGrid }, "snap off"},
		{"s", func(s editor.State) bool { return s.SnapToGrid }, "snap on"},
		{"]", func(s editor.State) bool { return s.GridDivision == 8 }, "grid 1/8"},
		{"[", func(s editor.State) bool { return s.GridDivision == 4 }, "grid 1/4"},
		{"m", func(s editor.State) bool { return s.Mode == editor.ModeTracks }, "Tracks"},
		{"m", func(s editor.State) bool { return s.Mode == editor.ModeKeys }, "Keys"},
		{"l", func(s editor.State) bool { return s.Position > 0 }, "Keys"},
		{"h", func(s editor.State) bool { return s.Position == 0 }, "Keys"},
		{"+", func(s editor.State) bool { return s.Zoom > 10 }, "zoom"},
		{"a", func(s editor.State) bool { return len(s.Tracks) == 2 }, "AddTrack"},
		{"tab", func(s editor.State) bool { return s.SelectedTrackIndex == 1 }, "Track 2"},
		{"f", func(s editor.State) bool { return s.FollowPlayHead }, "Keys"},
	}
	for i, step := range steps {
		m, _ = update(m, key(step.key))
		if !step.check(m.Editor.State()) {
			t.Fatalf("step %d: key %q did not change the state as expected", i, step.key)
		}
		if view := m.View(); !strings.Contains(view, step.want) {
			t.Fatalf("step %d: view got: %q expected to contain: %q", i, view, step.want)
		}
	}
}

func TestQuit(t *testing.T) {
	out := &recordingOutput{}
	m := newModel(&editor.KeyPreview{Output: out, Velocity: 100})
	m, _ = update(m, press(2, 5))
	m, cmd := update(m, key("q"))
	if cmd == nil {
		t.Fatalf("quit command got: nil expected: tea.Quit")
	}
	if view := m.View(); view != "" {
		t.Fatalf("view after quit got: %q expected: empty", view)
	}
	if len(out.events) != 2 || !strings.HasPrefix(out.events[1], "off") {
		t.Fatalf("preview events got: %v expected: a note on and a note off", out.events)
	}
}

func TestKeyboardPreview(t *testing.T) {
	out := &recordingOutput{}
	m := newModel(&editor.KeyPreview{Output: out, Velocity: 100})
	m, _ = update(m, press(2, 5))
	if keys := m.Editor.State().PressedKeys; len(keys) != 1 {
		t.Fatalf("pressed keys got: %v expected: one key", keys)
	}
	down := m.Editor.State().PressedKeys[0]
	m, _ = update(m, release(2, 5))
	expected := []string{fmt.Sprintf("on %d", down), fmt.Sprintf("off %d", down)}
	if fmt.Sprint(out.events) != fmt.Sprint(expected) {
		t.Fatalf("preview events got: %v expected: %v", out.events, expected)
	}
	if keys := m.Editor.State().PressedKeys; len(keys) != 0 {
		t.Fatalf("pressed keys after release got: %v expected: none", keys)
	}
}

func TestSongAndStatusMessages(t *testing.T) {
	m := newModel(nil)
	song := pianoroll.Song{PPQ: 480, Tracks: []pianoroll.Track{
		{Name: "Bass", Notes: pianoroll.Notes{{Midi: 40, Ticks: 0, DurationTicks: 480, Velocity: 100}}},
	}}
	m, _ = update(m, tui.SongMsg{Song: song})
	if n := notes(m); len(n) != 1 || n[0].Midi != 40 {
		t.Fatalf("notes after SongMsg got: %v expected: the note of the new song", n)
	}
	view := m.View()
	for _, want := range []string{"Bass", "song reloaded"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view got: %q expected to contain: %q", view, want)
		}
	}
	m, _ = update(m, tui.StatusMsg("saved"))
	if view := m.View(); !strings.Contains(view, "saved") {
		t.Fatalf("view got: %q expected to contain: %q", view, "saved")
	}
	m, _ = update(m, tui.SongMsg{Song: song})
	if view := m.View(); strings.Contains(view, "song reloaded") {
		t.Fatalf("reloading the same song replaced the status, view got: %q", view)
	}
	if m.Editor.ChangedSinceSave() {
		t.Fatal("reloaded song was marked as changed")
	}
}

func TestViewSize(t *testing.T) {
	m := newModel(nil)
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 20 {
		t.Fatalf("view lines got: %d expected: 20", len(lines))
	}
	if empty := tui.New(editor.NewModel(""), nil).View(); empty != "" {
		t.Fatalf("view before the window size is known got: %q expected: empty", empty)
	}
}

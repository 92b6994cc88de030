package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/config"
	"github.com/pianoroll-go/pianoroll/editor"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	p := config.Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default preferences should pass: %v", err)
	}
	if p.Editor.PPQ != 480 || p.Editor.Mode != "keys" || p.LogLevel != slog.LevelInfo {
		t.Fatalf("defaults, got: %+v", p)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PIANOROLL_TEST_PORT", "Synth")
	path := writeConfig(t, "editor:\n  zoom: 20\n  mode: tracks\nmidi:\n  output: ${PIANOROLL_TEST_PORT}\nlog_level: debug\n")
	p, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Editor.Zoom != 20 || p.Editor.Mode != "tracks" {
		t.Fatalf("editor preferences, got: %+v", p.Editor)
	}
	if p.Editor.PPQ != 480 || p.Window.Width != 1280 {
		t.Fatalf("preferences not in the file were not kept: %+v", p)
	}
	if p.MIDI.Output != "Synth" {
		t.Fatalf("expanded output, got: %q expected: Synth", p.MIDI.Output)
	}
	if p.LogLevel != slog.LevelDebug {
		t.Fatalf("log level, got: %v expected: %v", p.LogLevel, slog.LevelDebug)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	p, err := config.Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load of an empty file failed: %v", err)
	}
	if p != config.Default() {
		t.Fatalf("empty file changed the defaults: %+v", p)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"UnknownField", "editor:\n  zom: 20\n", "failed to parse"},
		{"Zoom", "editor:\n  zoom: 1000\n", "Zoom"},
		{"GridDivision", "editor:\n  grid_division: 3\n", "GridDivision"},
		{"Mode", "editor:\n  mode: drums\n", "Mode"},
		{"Channel", "midi:\n  channel: 16\n", "Channel"},
		{"Window", "window:\n  width: 10\n", "Width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("invalid preferences should fail")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("missing explicit config file should fail")
	}
}

func TestApply(t *testing.T) {
	p := config.Default().Editor
	p.PPQ = 96
	p.Mode = "tracks"
	p.GridDivision = 16
	m := editor.NewModel("")
	p.Apply(m)
	s := m.State()
	if s.PPQ != 96 || s.Mode != editor.ModeTracks || s.GridDivision != 16 || s.Zoom != p.Zoom {
		t.Fatalf("state after apply, got: %+v", s)
	}
	if m.History().Undo().Enabled() {
		t.Fatal("applying preferences was recorded in the undo history")
	}
}

func TestApplyKeepsRecoveredSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), editor.RecoveryFile)
	m := editor.NewModel(path)
	m.SetTracks(append(m.State().Tracks, pianoroll.Track{Name: "Track 2"}))
	if err := m.History().SaveRecovery(); err != nil {
		t.Fatalf("SaveRecovery failed: %v", err)
	}
	p := config.Default().Editor
	p.PPQ = 96
	recovered := editor.NewModel(path)
	p.Apply(recovered)
	if got := recovered.State().PPQ; got != pianoroll.DefaultPPQ {
		t.Fatalf("PPQ of the recovered song, got: %v expected: %v", got, pianoroll.DefaultPPQ)
	}
	if !recovered.ChangedSinceSave() {
		t.Fatal("recovered session lost its unsaved changes")
	}
	if got := len(recovered.State().Tracks); got != 2 {
		t.Fatalf("tracks of the recovered song, got: %v expected: 2", got)
	}
}

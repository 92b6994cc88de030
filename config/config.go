// Package config loads the preferences of the editor commands. The defaults
// are embedded in the binary; a user file overrides any subset of them.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/editor"
)

type (
	Preferences struct {
		Window   WindowPreferences `yaml:"window"`
		Editor   EditorPreferences `yaml:"editor"`
		MIDI     MIDIPreferences   `yaml:"midi"`
		LogLevel slog.Level        `yaml:"log_level"`
	}

	WindowPreferences struct {
		Width     int  `yaml:"width"`
		Height    int  `yaml:"height"`
		Maximized bool `yaml:"maximized,omitempty"`
	}

	EditorPreferences struct {
		PPQ            int     `yaml:"ppq"`
		GridDivision   int     `yaml:"grid_division"`
		SnapToGrid     bool    `yaml:"snap_to_grid"`
		Zoom           float64 `yaml:"zoom"`
		VerticalZoom   float64 `yaml:"vertical_zoom"`
		Mode           string  `yaml:"mode"`
		EdgeThreshold  float64 `yaml:"edge_threshold"`
		ShowTrackList  bool    `yaml:"show_track_list"`
		FollowPlayHead bool    `yaml:"follow_play_head"`
	}

	// MIDIPreferences configure the preview of pressed keys. Output is the
	// prefix of the MIDI output port name; empty disables the preview.
	MIDIPreferences struct {
		Output   string `yaml:"output"`
		Channel  int    `yaml:"channel"`
		Velocity int    `yaml:"velocity"`
	}
)

// FileName is the name of the user preferences file.
const FileName = "preferences.yml"

//go:embed preferences.yml
var defaultPreferencesYaml []byte

// Default returns the embedded default preferences.
func Default() Preferences {
	var p Preferences
	if err := decode(bytes.NewReader(defaultPreferencesYaml), &p); err != nil {
		panic(fmt.Errorf("failed to unmarshal default preferences: %w", err))
	}
	return p
}

// UserPath returns the path of the user preferences file.
func UserPath() (string, error) {
	return UserFile(FileName)
}

// UserFile returns the path of a file in the pianoroll directory of the user
// config dir, e.g. for key bindings or the recovery file.
func UserFile(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find user config dir: %w", err)
	}
	return filepath.Join(dir, "pianoroll", name), nil
}

// Load returns the default preferences overridden by the file at path. With
// an empty path, the user preferences file is used if it exists. ${VAR}
// references in the file are expanded from the environment.
func Load(path string) (Preferences, error) {
	p := Default()
	optional := path == ""
	if optional {
		user, err := UserPath()
		if err != nil {
			return p, nil
		}
		path = user
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := decode(bytes.NewBufferString(expanded), &p); err != nil && !errors.Is(err, io.EOF) {
		return p, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config validation failed: %w", err)
	}
	return p, nil
}

func decode(r io.Reader, target *Preferences) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	return dec.Decode(target)
}

// Validate validates the preferences.
func (p *Preferences) Validate() error {
	if err := p.Window.Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	if err := p.Editor.Validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if err := p.MIDI.Validate(); err != nil {
		return fmt.Errorf("midi: %w", err)
	}
	return nil
}

// Validate validates the window preferences.
func (p *WindowPreferences) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Width, validation.Required, validation.Min(100), validation.Max(16384)),
		validation.Field(&p.Height, validation.Required, validation.Min(100), validation.Max(16384)),
	)
}

// Validate validates the editor preferences.
func (p *EditorPreferences) Validate() error {
	divisions := make([]any, len(pianoroll.GridDivisions))
	for i, d := range pianoroll.GridDivisions {
		divisions[i] = int(d)
	}
	return validation.ValidateStruct(p,
		validation.Field(&p.PPQ, validation.Required, validation.Min(1), validation.Max(9600)),
		validation.Field(&p.GridDivision, validation.Required, validation.In(divisions...)),
		validation.Field(&p.Zoom, validation.Required, validation.Min(float64(editor.MinZoom)), validation.Max(float64(editor.MaxZoom))),
		validation.Field(&p.VerticalZoom, validation.Required, validation.Min(float64(editor.MinVerticalZoom)), validation.Max(float64(editor.MaxVerticalZoom))),
		validation.Field(&p.Mode, validation.Required, validation.In("keys", "tracks")),
		validation.Field(&p.EdgeThreshold, validation.Min(0.0)),
	)
}

// Validate validates the MIDI preferences.
func (p *MIDIPreferences) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Channel, validation.Min(0), validation.Max(15)),
		validation.Field(&p.Velocity, validation.Min(1), validation.Max(127)),
	)
}

// Apply sets the view state of a new model from the preferences. The PPQ is
// only applied to a saved song without notes, so a recovered session keeps
// its song and undo history.
func (p EditorPreferences) Apply(m *editor.Model) {
	m.SetDefaultPPQ(p.PPQ)
	m.SetGridDivision(pianoroll.GridDivision(p.GridDivision))
	m.SetSnapToGrid(p.SnapToGrid)
	m.SetZoom(p.Zoom)
	m.SetVerticalZoom(p.VerticalZoom)
	if mode, err := editor.ParseMode(p.Mode); err == nil {
		m.SetMode(mode)
	}
	m.SetShowTrackList(p.ShowTrackList)
	m.SetFollowPlayHead(p.FollowPlayHead)
}

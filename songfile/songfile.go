// Package songfile loads and saves songs in the formats chosen by the file
// extension: YAML (.yml, .yaml), JSON (.json) and Standard MIDI Files (.mid,
// .midi).
package songfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/midifile"
)

type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatMIDI
)

// ErrUnknownFormat is returned for file extensions no format is known for.
var ErrUnknownFormat = errors.New("unknown song file format")

var midiHeader = []byte("MThd")

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatMIDI:
		return "midi"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatOf returns the format of a song file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".mid", ".midi":
		return FormatMIDI, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Read loads a song from disk.
func Read(path string) (pianoroll.Song, error) {
	format, err := FormatOf(path)
	if err != nil {
		return pianoroll.Song{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return pianoroll.Song{}, fmt.Errorf("could not read song file: %w", err)
	}
	return Decode(b, format)
}

// ReadFrom loads a song from r. The format is taken from the extension of
// name if it has a known one, otherwise it is detected from the contents:
// MIDI by its header, then JSON, then YAML.
func ReadFrom(r io.Reader, name string) (pianoroll.Song, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return pianoroll.Song{}, fmt.Errorf("could not read song: %w", err)
	}
	if format, err := FormatOf(name); err == nil {
		return Decode(b, format)
	}
	if bytes.HasPrefix(b, midiHeader) {
		return Decode(b, FormatMIDI)
	}
	song, errJSON := Decode(b, FormatJSON)
	if errJSON == nil {
		return song, nil
	}
	song, errYaml := Decode(b, FormatYAML)
	if errYaml != nil {
		return pianoroll.Song{}, fmt.Errorf("could not detect song format: %v / %w", errJSON, errYaml)
	}
	return song, nil
}

// Decode parses a song. Notes are sorted by start time, and the song is
// validated.
func Decode(b []byte, format Format) (pianoroll.Song, error) {
	var song pianoroll.Song
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(b, &song)
	case FormatJSON:
		err = json.Unmarshal(b, &song)
	case FormatMIDI:
		song, err = midifile.Read(bytes.NewReader(b))
	default:
		return pianoroll.Song{}, ErrUnknownFormat
	}
	if err != nil {
		return pianoroll.Song{}, fmt.Errorf("could not unmarshal %v song: %w", format, err)
	}
	for i := range song.Tracks {
		song.Tracks[i].Notes = song.Tracks[i].Notes.Sort()
	}
	if err := song.Validate(); err != nil {
		return pianoroll.Song{}, fmt.Errorf("invalid song: %w", err)
	}
	return song, nil
}

// Encode marshals a song.
func Encode(song pianoroll.Song, format Format) ([]byte, error) {
	var b []byte
	var err error
	switch format {
	case FormatYAML:
		b, err = yaml.Marshal(song)
	case FormatJSON:
		b, err = json.MarshalIndent(song, "", "  ")
	case FormatMIDI:
		var buf bytes.Buffer
		err = midifile.Write(&buf, song)
		b = buf.Bytes()
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("could not marshal %v song: %w", format, err)
	}
	return b, nil
}

// Write saves a song to disk, in the format of the extension of path. The
// file is written next to the target and renamed over it, so watchers never
// see a partial file.
func Write(path string, song pianoroll.Song) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	b, err := Encode(song, format)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create song file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("could not create song file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write song file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write song file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace song file: %w", err)
	}
	return nil
}

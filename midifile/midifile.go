// Package midifile converts between Standard MIDI Files and songs.
//
// Every MIDI track with notes becomes one track of the song, and the song PPQ
// is the resolution of the file. On export, track i is written on MIDI
// channel i mod 16.
package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pianoroll-go/pianoroll"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrTimeFormat is returned for files timed in SMPTE frames instead of ticks
// per quarter note.
var ErrTimeFormat = errors.New("only metric time format is supported")

// DefaultBPM is the tempo written to exported files.
const DefaultBPM = 120

type (
	event struct {
		ticks int
		// rank orders events at the same tick: ends of earlier notes, then
		// starts, then ends of notes with zero duration
		rank int
		on   bool
		key  uint8
		vel  uint8
	}

	heldNote struct {
		channel, key uint8
		index        int
	}
)

// ReadFile reads a song from a Standard MIDI File on disk.
func ReadFile(path string) (pianoroll.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return pianoroll.Song{}, fmt.Errorf("could not open MIDI file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read reads a song from Standard MIDI File data.
func Read(r io.Reader) (pianoroll.Song, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return pianoroll.Song{}, fmt.Errorf("could not parse MIDI file: %w", err)
	}
	return Decode(s)
}

// Decode converts a parsed MIDI file into a song. Note starts are paired
// with the next end of the same key on the same channel; notes still held at
// the end of a track end there. Notes keep the order of their starts.
func Decode(s *smf.SMF) (pianoroll.Song, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return pianoroll.Song{}, ErrTimeFormat
	}
	song := pianoroll.Song{PPQ: max(int(ticks), 1)}
	for _, track := range s.Tracks {
		var (
			name string
			held []heldNote
			abs  int
		)
		notes := make(pianoroll.Notes, 0)
		for _, ev := range track {
			abs += int(ev.Delta)
			var ch, key, vel uint8
			switch {
			case ev.Message.GetMetaTrackName(&name):
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				held = append(held, heldNote{channel: ch, key: key, index: len(notes)})
				notes = append(notes, pianoroll.Note{Midi: int(key), Ticks: abs, Velocity: int(vel)})
			case ev.Message.GetNoteEnd(&ch, &key):
				i := slices.IndexFunc(held, func(h heldNote) bool { return h.channel == ch && h.key == key })
				if i < 0 {
					continue
				}
				n := &notes[held[i].index]
				n.DurationTicks = abs - n.Ticks
				held = slices.Delete(held, i, i+1)
			}
		}
		for _, h := range held {
			n := &notes[h.index]
			n.DurationTicks = abs - n.Ticks
		}
		if len(notes) == 0 {
			continue
		}
		if name == "" {
			name = song.NewTrackName()
		}
		song.Tracks = append(song.Tracks, pianoroll.Track{
			Name:  name,
			Color: pianoroll.DefaultColors[len(song.Tracks)%len(pianoroll.DefaultColors)],
			Notes: notes,
		})
	}
	if len(song.Tracks) == 0 {
		song.Tracks = []pianoroll.Track{{Name: song.NewTrackName(), Color: pianoroll.DefaultColors[0]}}
	}
	return song, nil
}

// WriteFile writes the song to disk as a format 1 Standard MIDI File.
func WriteFile(path string, song pianoroll.Song) error {
	var buf bytes.Buffer
	if err := Write(&buf, song); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write MIDI file: %w", err)
	}
	return nil
}

// Write writes the song as a format 1 Standard MIDI File.
func Write(w io.Writer, song pianoroll.Song) error {
	s, err := Encode(song)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("could not write MIDI data: %w", err)
	}
	return nil
}

// Encode converts a song into a MIDI file with a tempo track followed by one
// track per song track. Notes with zero velocity are written with velocity 1,
// as a note on with zero velocity means note off.
func Encode(song pianoroll.Song) (*smf.SMF, error) {
	if err := song.Validate(); err != nil {
		return nil, fmt.Errorf("could not encode song: %w", err)
	}
	if song.PPQ > 0x7fff {
		return nil, fmt.Errorf("could not encode song: PPQ %d does not fit in a MIDI file", song.PPQ)
	}
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(song.PPQ)
	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(DefaultBPM))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return nil, fmt.Errorf("could not add tempo track: %w", err)
	}
	for i, t := range song.Tracks {
		channel := uint8(i % 16)
		events := make([]event, 0, len(t.Notes)*2)
		for _, n := range t.Notes {
			end := event{ticks: n.End(), key: uint8(n.Midi)}
			if n.DurationTicks == 0 {
				end.rank = 2
			}
			events = append(events, event{ticks: n.Ticks, rank: 1, on: true, key: uint8(n.Midi), vel: uint8(max(n.Velocity, 1))}, end)
		}
		slices.SortStableFunc(events, func(a, b event) int {
			if a.ticks != b.ticks {
				return a.ticks - b.ticks
			}
			return a.rank - b.rank
		})
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(t.Name))
		last := 0
		for _, e := range events {
			delta := uint32(e.ticks - last)
			if e.on {
				track.Add(delta, midi.NoteOn(channel, e.key, e.vel))
			} else {
				track.Add(delta, midi.NoteOff(channel, e.key))
			}
			last = e.ticks
		}
		track.Close(0)
		if err := s.Add(track); err != nil {
			return nil, fmt.Errorf("could not add track %d: %w", i, err)
		}
	}
	return s, nil
}

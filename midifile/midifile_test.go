package midifile_test

import (
	"bytes"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/midifile"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func testSong() pianoroll.Song {
	return pianoroll.Song{
		PPQ: 96,
		Tracks: []pianoroll.Track{
			{Name: "Bass", Notes: pianoroll.Notes{
				{Midi: 36, Ticks: 0, DurationTicks: 96, Velocity: 100},
				{Midi: 36, Ticks: 96, DurationTicks: 96, Velocity: 90},
				{Midi: 43, Ticks: 192, DurationTicks: 0, Velocity: 80},
			}},
			{Name: "Lead", Notes: pianoroll.Notes{
				{Midi: 72, Ticks: 48, DurationTicks: 300, Velocity: 127},
				{Midi: 76, Ticks: 48, DurationTicks: 24, Velocity: 64},
			}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	song := testSong()
	var buf bytes.Buffer
	if err := midifile.Write(&buf, song); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := midifile.Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.PPQ != song.PPQ {
		t.Fatalf("ppq, got: %v expected: %v", got.PPQ, song.PPQ)
	}
	if len(got.Tracks) != len(song.Tracks) {
		t.Fatalf("number of tracks, got: %v expected: %v", len(got.Tracks), len(song.Tracks))
	}
	for i, track := range song.Tracks {
		if got.Tracks[i].Name != track.Name {
			t.Fatalf("name of track %d, got: %q expected: %q", i, got.Tracks[i].Name, track.Name)
		}
		if !slices.Equal(got.Tracks[i].Notes, track.Notes) {
			t.Fatalf("notes of track %d, got: %v expected: %v", i, got.Tracks[i].Notes, track.Notes)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mid")
	song := testSong()
	song.Tracks[0].Notes[0].Velocity = 0
	if err := midifile.WriteFile(path, song); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := midifile.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if v := got.Tracks[0].Notes[0].Velocity; v != 1 {
		t.Fatalf("velocity of a silent note, got: %v expected: 1", v)
	}
}

func TestEncodeInvalid(t *testing.T) {
	song := testSong()
	song.Tracks[0].Notes = pianoroll.Notes{{Midi: 60, Ticks: 10}, {Midi: 60, Ticks: 0}}
	if _, err := midifile.Encode(song); err == nil {
		t.Fatal("unsorted notes were encoded")
	}
	song = testSong()
	song.PPQ = 0
	if _, err := midifile.Encode(song); err == nil {
		t.Fatal("song without ppq was encoded")
	}
}

func TestDecode(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(240)
	var meta smf.Track
	meta.Add(0, smf.MetaTempo(90))
	meta.Close(0)
	var track smf.Track
	track.Add(0, midi.NoteOn(1, 60, 100))
	track.Add(10, midi.NoteOn(2, 60, 50))
	track.Add(10, midi.NoteOff(1, 60))
	track.Add(0, midi.NoteOff(3, 61))
	track.Close(100)
	if err := s.Add(meta); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(track); err != nil {
		t.Fatal(err)
	}
	song, err := midifile.Decode(s)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if song.PPQ != 240 || len(song.Tracks) != 1 {
		t.Fatalf("song, got: ppq %v with %v tracks expected: ppq 240 with 1 track", song.PPQ, len(song.Tracks))
	}
	expected := pianoroll.Notes{
		{Midi: 60, Ticks: 0, DurationTicks: 20, Velocity: 100},
		{Midi: 60, Ticks: 10, DurationTicks: 110, Velocity: 50},
	}
	if got := song.Tracks[0].Notes; !slices.Equal(got, expected) {
		t.Fatalf("notes, got: %v expected: %v", got, expected)
	}
	if song.Tracks[0].Name != "Track 1" {
		t.Fatalf("name of an unnamed track, got: %q expected: Track 1", song.Tracks[0].Name)
	}
}

func TestDecodeEmpty(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	song, err := midifile.Decode(s)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(song.Tracks) != 1 || len(song.Tracks[0].Notes) != 0 {
		t.Fatalf("empty file, got: %+v expected: one empty track", song.Tracks)
	}
}

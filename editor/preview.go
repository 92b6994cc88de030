package editor

import (
	"errors"
	"slices"
)

type (
	// NoteOutput receives the note messages of KeyPreview, e.g. a MIDI out
	// port.
	NoteOutput interface {
		NoteOn(channel, key, velocity uint8) error
		NoteOff(channel, key uint8) error
	}

	// KeyPreview sounds the pressed keys of the piano keyboard: every Update
	// sends note offs for keys released since the previous Update and note
	// ons for keys pressed since.
	KeyPreview struct {
		Output   NoteOutput
		Channel  uint8
		Velocity uint8

		down []int
	}

	// NullNoteOutput discards all notes, for builds without MIDI.
	NullNoteOutput struct{}
)

func (NullNoteOutput) NoteOn(channel, key, velocity uint8) error { return nil }
func (NullNoteOutput) NoteOff(channel, key uint8) error          { return nil }

// Update sends the changes between the previous pressed keys and keys.
func (p *KeyPreview) Update(keys []int) error {
	if p.Output == nil {
		return nil
	}
	var errs []error
	for _, k := range p.down {
		if !slices.Contains(keys, k) {
			errs = append(errs, p.Output.NoteOff(p.Channel, uint8(k)))
		}
	}
	for _, k := range keys {
		if !slices.Contains(p.down, k) {
			errs = append(errs, p.Output.NoteOn(p.Channel, uint8(k), p.Velocity))
		}
	}
	p.down = append(p.down[:0], keys...)
	return errors.Join(errs...)
}

// Silence releases all keys still sounding.
func (p *KeyPreview) Silence() error {
	return p.Update(nil)
}

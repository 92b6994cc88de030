//go:build cgo

package cmd

import (
	"log/slog"

	"github.com/pianoroll-go/pianoroll/config"
	"github.com/pianoroll-go/pianoroll/editor"
	"github.com/pianoroll-go/pianoroll/editor/gomidi"
)

// NewPreview returns the key preview of the preferences and a function
// closing its output. With no output configured, the keys are not sounded.
func NewPreview(prefs config.MIDIPreferences, logger *slog.Logger) (*editor.KeyPreview, func()) {
	preview := &editor.KeyPreview{Channel: uint8(prefs.Channel), Velocity: uint8(prefs.Velocity)}
	if prefs.Output == "" {
		preview.Output = editor.NullNoteOutput{}
		return preview, func() {}
	}
	midiContext := gomidi.NewContext()
	if err := midiContext.TryToOpenBy(prefs.Output, false); err != nil {
		logger.Warn("failed to open MIDI output", slog.String("output", prefs.Output), slog.String("error", err.Error()))
		midiContext.Close()
		preview.Output = editor.NullNoteOutput{}
		return preview, func() {}
	}
	logger.Info("MIDI output opened", slog.String("output", prefs.Output))
	preview.Output = midiContext
	return preview, func() {
		preview.Silence()
		midiContext.Close()
	}
}

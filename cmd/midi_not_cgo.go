//go:build !cgo

package cmd

import (
	"log/slog"

	"github.com/pianoroll-go/pianoroll/config"
	"github.com/pianoroll-go/pianoroll/editor"
)

func NewPreview(prefs config.MIDIPreferences, logger *slog.Logger) (*editor.KeyPreview, func()) {
	// with no cgo, we cannot use MIDI, so the keys are not sounded
	if prefs.Output != "" {
		logger.Warn("MIDI output is not available in builds without cgo", slog.String("output", prefs.Output))
	}
	return &editor.KeyPreview{Output: editor.NullNoteOutput{}}, func() {}
}

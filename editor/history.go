package editor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pianoroll-go/pianoroll"
)

// History returns the view of the model for undo, redo and the recovery
// file.
func (m *Model) History() *HistoryModel { return (*HistoryModel)(m) }

type (
	HistoryModel Model

	historyUndo HistoryModel
	historyRedo HistoryModel
)

// ErrNoRecoveryFile is returned when saving a model created without a
// recovery file path.
var ErrNoRecoveryFile = fmt.Errorf("no recovery file path")

func (m *HistoryModel) Undo() Action { return MakeAction((*historyUndo)(m)) }
func (m *HistoryModel) Redo() Action { return MakeAction((*historyRedo)(m)) }

// Neither is allowed during a gesture, as its end compares the song with the
// one before it.
func (m *historyUndo) Enabled() bool { return len(m.undoStack) > 0 && m.gestureOld == nil }
func (m *historyRedo) Enabled() bool { return len(m.redoStack) > 0 && m.gestureOld == nil }

func (m *historyUndo) Do() { (*HistoryModel)(m).step(&m.undoStack, &m.redoStack) }
func (m *historyRedo) Do() { (*HistoryModel)(m).step(&m.redoStack, &m.undoStack) }

// step pops the song to return to from one stack and pushes the current song
// to the other, which keeps at most maxUndo songs.
func (m *HistoryModel) step(from, to *[]pianoroll.Song) {
	song := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, m.d.Song.Copy())
	if over := len(*to) - maxUndo; over > 0 {
		*to = append((*to)[:0], (*to)[over:]...)
	}
	m.d.Song = song
	m.d.SelectedTrackIndex = min(m.d.SelectedTrackIndex, len(song.Tracks)-1)
	m.d.ChangedSinceSave = true
	m.d.ChangedSinceRecovery = true
	(*Model)(m).updateDuration()
}

// SaveRecovery writes the model to its recovery file, if anything changed
// since the last write. The directory is created if needed.
func (m *HistoryModel) SaveRecovery() error {
	switch {
	case !m.d.ChangedSinceRecovery:
		return nil
	case m.d.RecoveryFilePath == "":
		return ErrNoRecoveryFile
	}
	data, err := json.Marshal(m.d)
	if err != nil {
		return fmt.Errorf("could not marshal recovery data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.d.RecoveryFilePath), 0o755); err != nil {
		return fmt.Errorf("could not create recovery dir: %w", err)
	}
	if err := os.WriteFile(m.d.RecoveryFilePath, data, 0o644); err != nil {
		return fmt.Errorf("could not write recovery file: %w", err)
	}
	m.d.ChangedSinceRecovery = false
	return nil
}

// ClearRecovery removes the recovery file, so the next model starts from the
// default song.
func (m *HistoryModel) ClearRecovery() error {
	if m.d.RecoveryFilePath == "" {
		return nil
	}
	if err := os.Remove(m.d.RecoveryFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove recovery file: %w", err)
	}
	return nil
}

// Close saves the recovery file on exit if the song has unsaved changes, and
// removes it otherwise.
func (m *HistoryModel) Close() error {
	if m.d.ChangedSinceSave {
		m.d.ChangedSinceRecovery = true
		return m.SaveRecovery()
	}
	return m.ClearRecovery()
}

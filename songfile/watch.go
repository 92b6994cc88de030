package songfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pianoroll-go/pianoroll"
)

// WatchDebounce is how long the file has to stay untouched after a change
// before it is read again.
const WatchDebounce = 100 * time.Millisecond

// Watch reads the song at path again whenever the file changes on disk and
// calls onChange with it, until ctx is cancelled. The directory is watched
// instead of the file, so that editors replacing the file by a rename are
// seen too. Files that fail to load are logged and skipped.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(pianoroll.Song)) error {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("could not resolve song path: %w", err)
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("could not watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("songfile: watching", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("songfile: stopped watching", slog.String("path", abs))
			return nil

		case <-timerCh:
			timerCh = nil
			song, err := Read(abs)
			if err != nil {
				logger.Warn("songfile: reload failed", slog.String("path", abs), slog.String("error", err.Error()))
				continue
			}
			logger.Debug("songfile: reloaded", slog.String("path", abs), slog.Int("notes", song.NumNotes()))
			onChange(song)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				timer.Reset(WatchDebounce)
			}
			timerCh = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("songfile: watcher error", slog.String("error", err.Error()))
		}
	}
}

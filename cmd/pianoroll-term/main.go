package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/cmd"
	"github.com/pianoroll-go/pianoroll/config"
	"github.com/pianoroll-go/pianoroll/editor/tui"
	"github.com/pianoroll-go/pianoroll/songfile"
)

var (
	watchFlag = &cli.BoolFlag{
		Name:  "watch",
		Usage: "Reload the song when the file changes on disk",
		Value: true,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log-file",
		Usage: "Write the log to a file; the terminal is taken by the editor",
	}
)

func run(ctx context.Context, c *cli.Command) error {
	prefs, logger, err := cmd.Setup(c)
	if err != nil {
		return err
	}
	logger, closeLog, err := fileLogger(c.String(logFileFlag.Name), prefs)
	if err != nil {
		return err
	}
	defer closeLog()
	path := c.Args().First()
	model, err := cmd.NewModel(prefs, path, logger)
	if err != nil {
		return err
	}
	preview, closePreview := cmd.NewPreview(prefs.MIDI, logger)
	defer closePreview()
	m := tui.New(model, preview)
	m.Roll.EdgeThreshold = max(m.Roll.EdgeThreshold, prefs.Editor.EdgeThreshold)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	g, gCtx := errgroup.WithContext(ctx)
	if path != "" && c.Bool(watchFlag.Name) {
		g.Go(func() error {
			err := songfile.Watch(gCtx, path, logger, func(song pianoroll.Song) {
				program.Send(tui.SongMsg{Song: song})
			})
			if err != nil {
				logger.Warn("hot reload disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		final, err := program.Run()
		if fm, ok := final.(tui.Model); ok {
			fm.Editor.ReleaseKeys().Do()
			if err := fm.Editor.History().Close(); err != nil {
				logger.Warn("could not close the recovery file", slog.String("error", err.Error()))
			}
		}
		return err
	})
	return g.Wait()
}

// fileLogger returns a JSON logger writing to path, or one discarding
// everything without a path, as stderr is the screen of the editor.
func fileLogger(path string, prefs config.Preferences) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: prefs.LogLevel}))
	slog.SetDefault(logger)
	return logger, func() { f.Close() }, nil
}

func main() {
	cmd.Run(&cli.Command{
		Name:      "pianoroll-term",
		Usage:     "Edit the notes of a song in a piano roll in the terminal",
		ArgsUsage: "[song.yml|song.json|song.mid]",
		Action:    run,
		Flags:     []cli.Flag{watchFlag, logFileFlag},
	})
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gioui.org/app"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/cmd"
	"github.com/pianoroll-go/pianoroll/editor/gioui"
	"github.com/pianoroll-go/pianoroll/songfile"
)

var watchFlag = &cli.BoolFlag{
	Name:  "watch",
	Usage: "Reload the song when the file changes on disk",
	Value: true,
}

func run(ctx context.Context, c *cli.Command) error {
	prefs, logger, err := cmd.Setup(c)
	if err != nil {
		return err
	}
	path := c.Args().First()
	model, err := cmd.NewModel(prefs, path, logger)
	if err != nil {
		return err
	}
	preview, closePreview := cmd.NewPreview(prefs.MIDI, logger)
	defer closePreview()
	keys, err := gioui.LoadKeyBindings()
	if err != nil {
		logger.Warn("failed to load key bindings", slog.String("error", err.Error()))
	}
	ed := gioui.New(model, preview, keys, logger)
	ed.Roll.EdgeThreshold = prefs.Editor.EdgeThreshold

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)
	songs := make(chan pianoroll.Song)
	if path != "" && c.Bool(watchFlag.Name) {
		g.Go(func() error {
			err := songfile.Watch(gCtx, path, logger, func(song pianoroll.Song) {
				select {
				case songs <- song:
				case <-gCtx.Done():
				}
			})
			if err != nil {
				logger.Warn("hot reload disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}
	g.Go(func() error {
		defer stop()
		return ed.Main(gCtx, songs, gioui.WindowOptions{
			Width:     prefs.Window.Width,
			Height:    prefs.Window.Height,
			Maximized: prefs.Window.Maximized,
		})
	})
	err = g.Wait()
	logger.Info("editor closed")
	return err
}

func main() {
	go func() {
		cmd.Run(&cli.Command{
			Name:      "pianoroll-track",
			Usage:     "Edit the notes of a song in a piano roll window",
			ArgsUsage: "[song.yml|song.json|song.mid]",
			Action:    run,
			Flags:     []cli.Flag{watchFlag},
		})
		os.Exit(0)
	}()
	app.Main()
}

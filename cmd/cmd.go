// Package cmd holds what the commands of the module share: the flags, loading
// the preferences, the logger and the model with its recovery file.
package cmd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pianoroll-go/pianoroll/config"
	"github.com/pianoroll-go/pianoroll/editor"
	"github.com/pianoroll-go/pianoroll/songfile"
	"github.com/pianoroll-go/pianoroll/version"
)

// ConfigFlag is the path of the preferences file. Without it, the
// preferences file in the user config dir is used if it exists.
var ConfigFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to preferences file",
	Sources: cli.EnvVars("PIANOROLL_CONFIG"),
}

func init() {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Root().Writer, version.String(cmd.Root().Name))
	}
}

// Version is the version of the commands, for cli.Command.
var Version = cmp.Or(version.VersionOrHash, "devel")

// Setup loads the preferences named by the flags and installs a JSON logger
// at their log level on stderr as the default logger.
func Setup(c *cli.Command) (config.Preferences, *slog.Logger, error) {
	prefs, err := config.Load(c.String(ConfigFlag.Name))
	if err != nil {
		return prefs, slog.Default(), fmt.Errorf("failed to load preferences: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: prefs.LogLevel,
	}))
	slog.SetDefault(logger)
	return prefs, logger, nil
}

// NewModel returns a model restored from the recovery file in the user config
// dir, with the editor preferences applied. If path is given, the song is
// loaded from it instead of the recovered one.
func NewModel(prefs config.Preferences, path string, logger *slog.Logger) (*editor.Model, error) {
	recoveryFile := ""
	if p, err := config.UserFile(editor.RecoveryFile); err == nil {
		recoveryFile = p
	} else {
		logger.Warn("recovery disabled", slog.String("error", err.Error()))
	}
	model := editor.NewModel(recoveryFile)
	if path != "" {
		song, err := songfile.Read(path)
		switch {
		case err == nil:
			model.LoadSong(song, path)
		case errors.Is(err, os.ErrNotExist):
			// a new file: saving creates it
			model.LoadSong(editor.DefaultSong, path)
		default:
			return nil, fmt.Errorf("failed to read song: %w", err)
		}
	}
	prefs.Editor.Apply(model)
	logger.Info("model ready",
		slog.String("song", model.FilePath()),
		slog.Int("tracks", len(model.State().Tracks)),
		slog.String("mode", model.State().Mode.String()))
	return model, nil
}

// Run runs a command with the arguments of the process and exits with 1 on
// error.
func Run(c *cli.Command) {
	c.Version = Version
	c.Flags = append(c.Flags, ConfigFlag)
	if err := c.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

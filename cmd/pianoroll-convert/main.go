package main

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/cmd"
	"github.com/pianoroll-go/pianoroll/songfile"
)

var ppqFlag = &cli.IntFlag{
	Name:  "ppq",
	Usage: "Resolution of the written song in ticks per quarter note; 0 keeps the resolution of the input",
}

func run(ctx context.Context, c *cli.Command) error {
	_, logger, err := cmd.Setup(c)
	if err != nil {
		return err
	}
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected an input and an output file, got %d arguments", c.Args().Len())
	}
	in, out := c.Args().Get(0), c.Args().Get(1)
	song, err := songfile.Read(in)
	if err != nil {
		return err
	}
	if ppq := int(c.Int(ppqFlag.Name)); ppq > 0 && ppq != song.PPQ {
		song = rescale(song, ppq)
	}
	if err := songfile.Write(out, song); err != nil {
		return err
	}
	logger.Info("song converted",
		slog.String("from", in),
		slog.String("to", out),
		slog.Int("tracks", len(song.Tracks)),
		slog.Int("notes", song.NumNotes()))
	return nil
}

// rescale changes the resolution of the song, rounding the times to the
// nearest tick and keeping every note at least a tick long.
func rescale(song pianoroll.Song, ppq int) pianoroll.Song {
	ret := song.Copy()
	scale := func(ticks int) int {
		return int((int64(ticks)*int64(ppq) + int64(song.PPQ)/2) / int64(song.PPQ))
	}
	for i := range ret.Tracks {
		for j, n := range ret.Tracks[i].Notes {
			n.Ticks = scale(n.Ticks)
			n.DurationTicks = max(scale(n.DurationTicks), 1)
			ret.Tracks[i].Notes[j] = n
		}
	}
	ret.PPQ = ppq
	return ret
}

func main() {
	cmd.Run(&cli.Command{
		Name:      "pianoroll-convert",
		Usage:     "Convert a song between the YAML, JSON and MIDI formats",
		ArgsUsage: "<input> <output>",
		Action:    run,
		Flags:     []cli.Flag{ppqFlag},
	})
}

package gioui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"

	"github.com/pianoroll-go/pianoroll"
)

// WindowOptions are the initial options of the editor window.
type WindowOptions struct {
	Width, Height int
	Maximized     bool
}

const recoveryInterval = 30 * time.Second

// Main runs the window until it is closed, ctx is cancelled or the Quit
// action runs. Songs received from songs replace the song being edited,
// e.g. when the file changed on disk. The recovery file is saved
// periodically, and on exit if there are unsaved changes.
func (e *Editor) Main(ctx context.Context, songs <-chan pianoroll.Song, opts WindowOptions) error {
	recoveryTicker := time.NewTicker(recoveryInterval)
	defer recoveryTicker.Stop()
	var ops op.Ops
	w := new(app.Window)
	w.Option(app.Size(unit.Dp(opts.Width), unit.Dp(opts.Height)))
	if opts.Maximized {
		w.Option(app.Maximized.Option())
	}
	titlePath := e.Model.FilePath()
	w.Option(app.Title(titleFromPath(titlePath)))
	e.Explorer = explorer.NewExplorer(w)
	acks := make(chan struct{})
	events := make(chan event.Event)
	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	done := ctx.Done()
F:
	for {
		select {
		case <-done:
			done = nil
			e.Quit()
			w.Perform(system.ActionClose)
		case song, ok := <-songs:
			if !ok {
				songs = nil
				continue
			}
			e.Roll.Cancel()
			if e.Model.ReloadSong(song) {
				e.Alert("song reloaded", false)
				w.Invalidate()
			}
		case f := <-e.messages:
			f()
			w.Invalidate()
		case ev := <-events:
			e.Explorer.ListenEvents(ev)
			switch ev := ev.(type) {
			case app.DestroyEvent:
				acks <- struct{}{}
				if ev.Err != nil {
					e.Logger.Error("window closed", "err", ev.Err)
				}
				break F
			case app.FrameEvent:
				if p := e.Model.FilePath(); titlePath != p {
					titlePath = p
					w.Option(app.Title(titleFromPath(titlePath)))
				}
				gtx := app.NewContext(&ops, ev)
				e.Layout(gtx)
				ev.Frame(gtx.Ops)
				if e.Quitted() {
					w.Perform(system.ActionClose)
				}
			}
			acks <- struct{}{}
		case <-recoveryTicker.C:
			e.saveRecovery()
		}
	}
	e.Quit()
	if err := e.Model.History().Close(); err != nil {
		e.Logger.Warn("could not close the recovery file", "err", err)
	}
	return nil
}

func (e *Editor) saveRecovery() {
	if err := e.Model.History().SaveRecovery(); err != nil {
		e.Logger.Debug("could not save recovery file", "err", err)
	}
}

func titleFromPath(path string) string {
	if path == "" {
		return "Piano Roll"
	}
	return fmt.Sprintf("Piano Roll - %s", filepath.Base(path))
}

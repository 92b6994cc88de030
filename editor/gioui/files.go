package gioui

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"gioui.org/x/explorer"

	"github.com/pianoroll-go/pianoroll/editor"
	"github.com/pianoroll-go/pianoroll/songfile"
)

type (
	NewSong    Editor
	OpenSong   Editor
	SaveSong   Editor
	SaveSongAs Editor

	// named is implemented by the files the explorer returns on desktop
	// platforms.
	named interface {
		Name() string
	}
)

const defaultFileName = "song.yml"

var errNoExplorer = errors.New("no file dialog available")

func (e *Editor) NewSong() editor.Action    { return editor.MakeAction((*NewSong)(e)) }
func (e *Editor) OpenSong() editor.Action   { return editor.MakeAction((*OpenSong)(e)) }
func (e *Editor) SaveSong() editor.Action   { return editor.MakeAction((*SaveSong)(e)) }
func (e *Editor) SaveSongAs() editor.Action { return editor.MakeAction((*SaveSongAs)(e)) }

func (e *NewSong) Enabled() bool    { return !e.Exploring }
func (e *OpenSong) Enabled() bool   { return !e.Exploring }
func (e *SaveSong) Enabled() bool   { return !e.Exploring }
func (e *SaveSongAs) Enabled() bool { return !e.Exploring }

func (e *NewSong) Do() {
	t := (*Editor)(e)
	t.Roll.Cancel()
	t.Model.LoadSong(editor.DefaultSong, "")
	t.Alert("new song", false)
}

func (e *OpenSong) Do() {
	t := (*Editor)(e)
	t.explorerChooseFile(t.ReadSong, ".yml", ".yaml", ".json", ".mid", ".midi")
}

func (e *SaveSong) Do() {
	t := (*Editor)(e)
	if p := t.Model.FilePath(); p != "" {
		err := songfile.Write(p, t.Model.Song())
		if err == nil {
			t.Model.SetChangedSinceSave(false)
			t.Alert(fmt.Sprintf("saved %s", filepath.Base(p)), false)
			return
		}
		t.Alert(err.Error(), true)
	}
	(*SaveSongAs)(e).Do()
}

func (e *SaveSongAs) Do() {
	t := (*Editor)(e)
	name := defaultFileName
	if p := t.Model.FilePath(); p != "" {
		name = filepath.Base(p)
	}
	t.explorerCreateFile(t.WriteSong, name)
}

// ReadSong loads the song from r, taking the format from the name of the
// file if it has one.
func (e *Editor) ReadSong(r io.ReadCloser) {
	defer r.Close()
	var path string
	if f, ok := r.(named); ok {
		path = f.Name()
	}
	song, err := songfile.ReadFrom(r, path)
	if err != nil {
		e.Alert(err.Error(), true)
		return
	}
	e.Roll.Cancel()
	e.Model.LoadSong(song, path)
	e.Alert(fmt.Sprintf("opened %s", filepath.Base(path)), false)
}

// WriteSong saves the song to w, as YAML unless the name of the file has
// another known extension.
func (e *Editor) WriteSong(w io.WriteCloser) {
	var path string
	if f, ok := w.(named); ok {
		path = f.Name()
	}
	format, err := songfile.FormatOf(path)
	if err != nil {
		format = songfile.FormatYAML
	}
	b, err := songfile.Encode(e.Model.Song(), format)
	if err == nil {
		_, err = w.Write(b)
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		e.Alert(fmt.Sprintf("could not save song: %v", err), true)
		return
	}
	e.Model.SetFilePath(path)
	e.Model.SetChangedSinceSave(false)
	e.Alert(fmt.Sprintf("saved %s", filepath.Base(path)), false)
}

func (e *Editor) explorerChooseFile(success func(io.ReadCloser), extensions ...string) {
	if e.Explorer == nil {
		e.Alert(errNoExplorer.Error(), true)
		return
	}
	e.Exploring = true
	go func() {
		file, err := e.Explorer.ChooseFile(extensions...)
		e.messages <- func() {
			e.Exploring = false
			e.explored(err, func() { success(file) })
		}
	}()
}

func (e *Editor) explorerCreateFile(success func(io.WriteCloser), filename string) {
	if e.Explorer == nil {
		e.Alert(errNoExplorer.Error(), true)
		return
	}
	e.Exploring = true
	go func() {
		file, err := e.Explorer.CreateFile(filename)
		e.messages <- func() {
			e.Exploring = false
			e.explored(err, func() { success(file) })
		}
	}()
}

func (e *Editor) explored(err error, success func()) {
	switch {
	case err == nil:
		success()
	case errors.Is(err, explorer.ErrUserDecline):
	default:
		e.Alert(err.Error(), true)
	}
}

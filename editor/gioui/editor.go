// Package gioui is a desktop host of the piano roll editor built on Gio. It
// draws the items the editor computes, feeds it pointer events, and maps key
// presses to editor actions through a yml file of key bindings.
package gioui

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"

	"github.com/pianoroll-go/pianoroll/editor"
)

type (
	Editor struct {
		Model    *editor.Model
		Roll     *editor.PianoRoll
		Preview  *editor.KeyPreview
		Theme    *Theme
		Keys     *KeyBindings
		Logger   *slog.Logger
		Explorer *explorer.Explorer

		// Exploring is true while a file dialog is open.
		Exploring bool

		rollWidget *PianoRollWidget
		toolbar    *Toolbar
		zoom       widget.Float
		vZoom      widget.Float

		status      string
		statusError bool
		statusUntil time.Time

		quitted bool
		// messages runs functions on the GUI goroutine, e.g. the results of
		// file dialogs.
		messages chan func()
	}

	C = layout.Context
	D = layout.Dimensions
)

const (
	statusDuration = 5 * time.Second
	zoomStep       = 1.25
	keyScroll      = 0.1
)

// New returns a window editor of the model. preview may be nil.
func New(m *editor.Model, preview *editor.KeyPreview, keys *KeyBindings, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	if keys == nil {
		keys, _ = MakeKeyBindings(bytes.NewReader(defaultKeyBindings))
	}
	roll := editor.NewPianoRoll(m)
	e := &Editor{
		Model:    m,
		Roll:     roll,
		Preview:  preview,
		Theme:    NewTheme(),
		Keys:     keys,
		Logger:   logger,
		messages: make(chan func(), 16),
	}
	e.rollWidget = NewPianoRollWidget(roll)
	e.toolbar = NewToolbar(e)
	return e
}

func (e *Editor) Quitted() bool { return e.quitted }

// Messages returns the channel of functions the event loop must run on the
// GUI goroutine.
func (e *Editor) Messages() <-chan func() { return e.messages }

// Alert shows a message on the status line for a while.
func (e *Editor) Alert(msg string, isError bool) {
	e.status, e.statusError = msg, isError
	e.statusUntil = time.Now().Add(statusDuration)
	if isError {
		e.Logger.Error(msg)
	} else {
		e.Logger.Info(msg)
	}
}

func (e *Editor) Layout(gtx C) D {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, e.Theme.Background)
	event.Op(gtx.Ops, e)

	layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D { return e.toolbar.Layout(gtx, e) }),
		layout.Flexed(1, func(gtx C) D { return e.rollWidget.Layout(gtx, e.Theme) }),
		layout.Rigid(e.layoutStatus),
	)
	// the top level handler of the global keys; tab is asked for explicitly
	// so gio does not use it for focus switching
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "", Optional: key.ModAlt | key.ModCommand | key.ModShift | key.ModShortcut | key.ModSuper},
			key.Filter{Name: key.NameTab, Optional: key.ModShift | key.ModShortcut},
		)
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok {
			e.KeyEvent(ke)
		}
	}
	e.updatePreview()
	return D{Size: gtx.Constraints.Max}
}

func (e *Editor) updatePreview() {
	if e.Preview == nil {
		return
	}
	if err := e.Preview.Update(e.Model.State().PressedKeys); err != nil && !e.quitted {
		e.Alert(fmt.Sprintf("preview: %v", err), true)
	}
}

// KeyEvent runs the action bound to a key press, if any.
func (e *Editor) KeyEvent(ke key.Event) bool {
	action, ok := e.Keys.Action(ke)
	if !ok {
		return false
	}
	return e.runAction(action)
}

func (e *Editor) runAction(action KeyAction) bool {
	m := e.Model
	h := e.Roll.Horizontal()
	switch action {
	case "Undo":
		m.History().Undo().Do()
	case "Redo":
		m.History().Redo().Do()
	case "NewSong":
		e.NewSong().Do()
	case "OpenSong":
		e.OpenSong().Do()
	case "SaveSong":
		e.SaveSong().Do()
	case "SaveSongAs":
		e.SaveSongAs().Do()
	case "Quit":
		e.Quit()
	case "Cancel":
		if !e.Roll.Cancel() {
			m.ReleaseKeys().Do()
		}
	case "AddTrack":
		m.AddTrack().Do()
	case "DeleteTrack":
		m.DeleteTrack().Do()
	case "ClearTrack":
		m.ClearTrack().Do()
	case "ToggleMode":
		e.Roll.Cancel()
		mode := editor.ModeTracks
		if m.State().Mode == editor.ModeTracks {
			mode = editor.ModeKeys
		}
		e.Roll.SetMode(mode)
	case "SnapToggle":
		m.SnapToGrid().Bool().Toggle()
	case "FollowToggle":
		m.FollowPlayHead().Bool().Toggle()
	case "ShowAllTracksToggle":
		m.ShowAllTracks().Bool().Toggle()
	case "TrackListToggle":
		m.ShowTrackList().Bool().Toggle()
	case "FinerGrid":
		m.FinerGrid().Do()
	case "CoarserGrid":
		m.CoarserGrid().Do()
	case "ZoomIn":
		e.Roll.HorizontalZoom().Set(h.EffectiveZoom() * zoomStep)
	case "ZoomOut":
		e.Roll.HorizontalZoom().Set(h.EffectiveZoom() / zoomStep)
	case "ScrollLeft":
		h.SetPosition(h.ClampPosition(h.Position - h.VisibleRange()*keyScroll))
	case "ScrollRight":
		h.SetPosition(h.ClampPosition(h.Position + h.VisibleRange()*keyScroll))
	case "NextTrack":
		m.SelectedTrack().Int().Add(1)
	case "PrevTrack":
		m.SelectedTrack().Int().Add(-1)
	default:
		return false
	}
	return true
}

// Quit releases everything held and asks the event loop to close the
// window.
func (e *Editor) Quit() {
	e.Roll.Cancel()
	e.Roll.ReleaseKey()
	e.Model.ReleaseKeys().Do()
	e.updatePreview()
	e.quitted = true
}

func (e *Editor) layoutStatus(gtx C) D {
	th := e.Theme
	state := e.Model.State()
	zoom := e.Roll.VerticalZoom()
	if state.Mode == editor.ModeTracks {
		zoom = e.Roll.VerticalTrackZoom()
	}
	label := func(s string, c colorer) layout.FlexChild {
		return layout.Rigid(func(gtx C) D {
			l := material.Label(th.Material, th.TextSize, s)
			l.Color = c.color(th)
			l.MaxLines = 1
			return layout.Inset{Left: unit.Dp(8), Right: unit.Dp(4)}.Layout(gtx, l.Layout)
		})
	}
	slider := func(f *widget.Float, v editor.Float) layout.FlexChild {
		return layout.Rigid(func(gtx C) D {
			if f.Update(gtx) {
				v.SetFraction(float64(f.Value))
			} else {
				f.Value = float32(v.Fraction())
			}
			gtx.Constraints = layout.Exact(image.Pt(gtx.Dp(unit.Dp(120)), gtx.Dp(th.RulerHeight)))
			s := material.Slider(th.Material, f)
			s.Color = th.Primary
			return s.Layout(gtx)
		})
	}
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		label("Zoom", mutedText),
		slider(&e.zoom, e.Roll.HorizontalZoom()),
		label(titleCaser.String(state.Mode.String()), mutedText),
		slider(&e.vZoom, zoom),
		layout.Flexed(1, func(gtx C) D {
			text, c := e.statusText()
			l := material.Label(th.Material, th.TextSize, text)
			l.Color = c.color(th)
			l.MaxLines = 1
			return layout.Inset{Left: unit.Dp(8)}.Layout(gtx, l.Layout)
		}),
	)
}

type colorer int

const (
	plainText colorer = iota
	mutedText
	errorText
)

func (c colorer) color(th *Theme) color.NRGBA {
	switch c {
	case mutedText:
		return th.Muted
	case errorText:
		return th.Error
	}
	return th.Text
}

// statusText is the alert if one is showing, otherwise the running drag, the
// drag the pointer would start, or the last change.
func (e *Editor) statusText() (string, colorer) {
	if e.status != "" && time.Now().Before(e.statusUntil) {
		if e.statusError {
			return e.status, errorText
		}
		return e.status, plainText
	}
	if s, ok := e.Roll.Session(); ok {
		return titleCaser.String(s.Mode.String()), plainText
	}
	if mode := e.Roll.HoverMode(); mode != editor.DragNone {
		return titleCaser.String(mode.String()), mutedText
	}
	return e.Model.LastChange(), mutedText
}

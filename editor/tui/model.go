// Package tui is a terminal host of the piano roll editor built on
// bubbletea. Each terminal cell stands for a box of CellWidth x CellHeight
// editor pixels, so the zoom levels of the editor look alike in the terminal
// and in a window.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pianoroll-go/pianoroll"
	"github.com/pianoroll-go/pianoroll/editor"
	"github.com/pianoroll-go/pianoroll/viewport"
)

const (
	CellWidth  = 8
	CellHeight = 16

	keysWidth      = 6
	trackListWidth = 14
	// doubleClickTime is the longest time between the presses of a double
	// click.
	doubleClickTime = 400 * time.Millisecond
	// keyScroll is the share of the visible range the arrow keys scroll.
	keyScroll = 0.1
	zoomStep  = 1.25
)

type (
	Model struct {
		Editor  *editor.Model
		Roll    *editor.PianoRoll
		Preview *editor.KeyPreview
		Theme   Theme

		scroller *viewport.Scroller
		width    int
		height   int
		pointer  pointerTarget
		status   string

		lastPress     time.Time
		lastPressCell [2]int
		quitting      bool
		now           func() time.Time
	}

	// pointerTarget is the area the held pointer was pressed in.
	pointerTarget int

	// SongMsg replaces the song, e.g. when the song file changed on disk.
	SongMsg struct {
		Song pianoroll.Song
	}

	// StatusMsg shows a message on the status line.
	StatusMsg string
)

const (
	pointerNone pointerTarget = iota
	pointerNotes
	pointerKeys
	pointerRuler
)

// New returns a terminal editor of the model. preview may be nil.
func New(m *editor.Model, preview *editor.KeyPreview) Model {
	roll := editor.NewPianoRoll(m)
	roll.EdgeThreshold = CellWidth * 0.75
	scroller := viewport.NewScroller(roll.Registry(), nil)
	scroller.ShowScrollbar = false
	return Model{
		Editor:   m,
		Roll:     roll,
		Preview:  preview,
		Theme:    DefaultTheme,
		scroller: scroller,
		now:      time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) sideWidth() int {
	if m.Editor.State().Mode == editor.ModeTracks {
		return trackListWidth
	}
	return keysWidth
}

// layout measures the areas of the editor in pixels: a ruler row on top, a
// status row at the bottom, the keyboard or track list on the left.
func (m *Model) layout() {
	side := m.sideWidth()
	body := max(m.height-2, 0)
	notes := editor.Bounds{
		Left:   float64(side * CellWidth),
		Top:    CellHeight,
		Width:  float64(max(m.width-side, 0) * CellWidth),
		Height: float64(body * CellHeight),
	}
	var list editor.Bounds
	if m.Editor.State().Mode == editor.ModeTracks {
		list = editor.Bounds{Top: CellHeight, Width: float64(side * CellWidth), Height: notes.Height}
	}
	m.Roll.Layout(notes, list)
	m.scroller.Vertical = m.Roll.NotesVertical().Name
}

// pixel returns the editor pixel at the center of a cell.
func pixel(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.layout()
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case SongMsg:
		m.Roll.Cancel()
		if m.Editor.ReloadSong(msg.Song) {
			m.status = "song reloaded"
		}
	case StatusMsg:
		m.status = string(msg)
	}
	m.layout()
	m.Roll.FollowPlayHead()
	if m.Preview != nil {
		if err := m.Preview.Update(m.Editor.State().PressedKeys); err != nil && !m.quitting {
			m.status = fmt.Sprintf("preview: %v", err)
		}
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	h, v := m.Roll.Horizontal(), m.Roll.NotesVertical()
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Roll.Cancel()
		m.Roll.ReleaseKey()
		m.Editor.ReleaseKeys().Do()
		return tea.Quit
	case "esc":
		if !m.Roll.Cancel() {
			m.Editor.ReleaseKeys().Do()
		}
	case "left", "h":
		h.SetPosition(h.ClampPosition(h.Position - h.VisibleRange()*keyScroll))
	case "right", "l":
		h.SetPosition(h.ClampPosition(h.Position + h.VisibleRange()*keyScroll))
	case "up", "k":
		v.SetPosition(v.ClampPosition(v.Position - max(v.VisibleRange()*keyScroll, 1)))
	case "down", "j":
		v.SetPosition(v.ClampPosition(v.Position + max(v.VisibleRange()*keyScroll, 1)))
	case "+", "=":
		m.Roll.HorizontalZoom().Set(h.EffectiveZoom() * zoomStep)
	case "-", "_":
		m.Roll.HorizontalZoom().Set(h.EffectiveZoom() / zoomStep)
	case "m":
		m.Roll.Cancel()
		mode := editor.ModeTracks
		if m.Editor.State().Mode == editor.ModeTracks {
			mode = editor.ModeKeys
		}
		m.Roll.SetMode(mode)
	case "s":
		m.Editor.SnapToGrid().Bool().Toggle()
	case "[":
		m.Editor.CoarserGrid().Do()
	case "]":
		m.Editor.FinerGrid().Do()
	case "u", "ctrl+z":
		m.Editor.History().Undo().Do()
	case "r", "ctrl+y":
		m.Editor.History().Redo().Do()
	case "a":
		m.Editor.AddTrack().Do()
	case "tab":
		m.Editor.SelectedTrack().Int().Add(1)
	case "shift+tab":
		m.Editor.SelectedTrack().Int().Add(-1)
	case "f":
		m.Editor.FollowPlayHead().Bool().Toggle()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := pixel(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		delta := float64(CellHeight)
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -delta
		}
		e := viewport.WheelEvent{DeltaY: delta, Alt: msg.Alt}
		if msg.Shift {
			e.DeltaX, e.DeltaY = e.DeltaY, 0
		}
		m.scroller.HandleWheel(e)
		return
	case msg.Button == tea.MouseButtonWheelLeft || msg.Button == tea.MouseButtonWheelRight:
		delta := float64(CellWidth)
		if msg.Button == tea.MouseButtonWheelLeft {
			delta = -delta
		}
		m.scroller.HandleWheel(viewport.WheelEvent{DeltaX: delta, Alt: msg.Alt})
		return
	}
	e := editor.PointerEvent{X: x, Y: y, Alt: msg.Alt}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.press(msg, e)
	case tea.MouseActionMotion:
		switch m.pointer {
		case pointerNotes:
			m.Roll.Move(e)
		case pointerKeys:
			m.Roll.HoverKey(y)
		case pointerRuler:
			m.Roll.DragPlayHead(x)
		default:
			m.Roll.Hover(e)
		}
	case tea.MouseActionRelease:
		switch m.pointer {
		case pointerNotes:
			m.Roll.Release(e)
		case pointerKeys:
			m.Roll.ReleaseKey()
		case pointerRuler:
			m.Roll.ReleasePlayHead()
		}
		m.pointer = pointerNone
	}
}

func (m *Model) press(msg tea.MouseMsg, e editor.PointerEvent) {
	now := m.now()
	cellPos := [2]int{msg.X, msg.Y}
	double := now.Sub(m.lastPress) < doubleClickTime && cellPos == m.lastPressCell
	m.lastPress, m.lastPressCell = now, cellPos
	side := m.sideWidth()
	switch {
	case msg.Y == 0 && msg.X >= side:
		if !m.Roll.PressPlayHead(e.X) {
			m.Roll.SeekPlayHead(e.X)
		}
		m.pointer = pointerRuler
	case msg.X < side && m.Editor.State().Mode == editor.ModeTracks:
		m.Roll.ClickTrack(e.Y)
	case msg.X < side:
		if m.Roll.PressKey(e.Y) {
			m.pointer = pointerKeys
		}
	case double:
		m.Roll.Cancel()
		m.Roll.DoubleClick(e)
		m.lastPress = time.Time{}
	default:
		if m.Roll.Press(e) {
			m.pointer = pointerNotes
		}
	}
}

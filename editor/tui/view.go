package tui

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pianoroll-go/pianoroll/editor"
)

var titleCaser = cases.Title(language.English)

// span returns the cells covering [start, start+length) pixels of a cell
// size, at least one.
func span(start, length, size float64) (int, int) {
	a := int(math.Round(start / size))
	b := int(math.Round((start + length) / size))
	return a, max(b, a+1)
}

func col(x float64) int { return int(math.Floor(x / CellWidth)) }

func (m Model) View() string {
	if m.quitting || m.width <= 0 || m.height <= 0 {
		return ""
	}
	m.layout()
	th := m.Theme
	c := newCanvas(m.width, m.height, th.Background)
	side := m.sideWidth()
	area := area{left: side, top: 1, right: m.width, bottom: m.height - 1}
	state := m.Editor.State()

	m.drawLanes(c, area, state)
	m.drawGrid(c, area)
	m.drawNotes(c, area, state)
	m.drawPlayHead(c, area)
	if state.Mode == editor.ModeTracks {
		m.drawTrackList(c, area)
	} else {
		m.drawKeys(c, area)
	}
	m.drawStatus(c, state)
	return c.String()
}

type area struct {
	left, top, right, bottom int
}

func (a area) clip(x0, y0, x1, y1 int) (int, int, int, int) {
	return max(x0, a.left), max(y0, a.top), min(x1, a.right), min(y1, a.bottom)
}

// drawLanes shades every second measure, and the rows of black keys or the
// lane of the selected track.
func (m Model) drawLanes(c *canvas, a area, state editor.State) {
	h := m.Roll.Horizontal()
	for line := range m.Roll.GridLines() {
		if !line.IsHighlighted {
			continue
		}
		x0, x1 := span(h.PixelOffset+line.Rect.Offset, line.Rect.Size, CellWidth)
		x0, y0, x1, y1 := a.clip(x0, a.top, x1, a.bottom)
		c.fill(x0, y0, x1, y1, m.Theme.Highlighted)
	}
	if state.Mode == editor.ModeTracks {
		for row := range m.Roll.VisibleTracks() {
			if !row.Selected {
				continue
			}
			y0, y1 := span(row.Y, row.Height, CellHeight)
			x0, y0, x1, y1 := a.clip(a.left, y0, a.right, y1)
			c.fill(x0, y0, x1, y1, m.Theme.Selected)
		}
		return
	}
	for key := range m.Roll.VisibleKeys() {
		if !key.IsBlack {
			continue
		}
		y := int(math.Floor((key.Y + key.Height/2) / CellHeight))
		x0, y0, x1, y1 := a.clip(a.left, y, a.right, y+1)
		c.fill(x0, y0, x1, y1, m.Theme.BlackKeyLane)
	}
}

func (m Model) drawGrid(c *canvas, a area) {
	h := m.Roll.Horizontal()
	var measures []int
	for line := range m.Roll.GridLines() {
		x := col(h.PixelOffset + line.Rect.Offset)
		if x < a.left || x >= a.right {
			continue
		}
		if line.ShowLabel {
			fg := m.Theme.Muted
			if line.IsMeasure {
				fg = m.Theme.Text
			}
			c.text(x, 0, line.Label, fg, m.Theme.Background)
		}
		if line.IsMeasure {
			measures = append(measures, x)
			continue
		}
		if !line.HasHighlightedBorder {
			continue
		}
		for y := a.top; y < a.bottom; y++ {
			c.set(x, y, symbolLine, m.Theme.Line)
		}
	}
	for _, x := range measures {
		for y := a.top; y < a.bottom; y++ {
			c.set(x, y, symbolMeasure, m.Theme.Measure)
		}
	}
}

func (m Model) drawNotes(c *canvas, a area, state editor.State) {
	session, dragging := m.Roll.Session()
	for n := range m.Roll.VisibleNotes() {
		x0, x1 := span(n.X, n.Width, CellWidth)
		y0, y1 := span(n.Y, n.Height, CellHeight)
		x0, y0, x1, y1 = a.clip(x0, y0, x1, y1)
		fg := m.Theme.LockedNote
		if n.Editable {
			fg = m.Theme.Accent
			if t := state.Track(n.TrackIndex); t != nil && t.Color != "" {
				fg = lipglossColor(t.Color)
			}
		}
		active := dragging && session.TrackIndex == n.TrackIndex && session.NoteIndex == n.NoteIndex
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if p := c.at(x, y); p != nil {
					p.r, p.fg, p.bold = symbolNote, fg, active
				}
			}
			if x1-x0 > 1 {
				c.set(x1-1, y, symbolNoteEdge, fg)
			}
		}
	}
}

func (m Model) drawPlayHead(c *canvas, a area) {
	px, ok := m.Roll.PlayHeadX()
	if !ok {
		return
	}
	x := col(px)
	if x < a.left || x >= a.right {
		return
	}
	c.text(x, 0, string(symbolPlayMark), m.Theme.PlayHead, m.Theme.Background)
	for y := a.top; y < a.bottom; y++ {
		c.set(x, y, symbolPlayHead, m.Theme.PlayHead)
	}
}

func (m Model) drawKeys(c *canvas, a area) {
	for key := range m.Roll.VisibleKeys() {
		y0, y1 := span(key.Y, key.Height, CellHeight)
		if key.IsBlack {
			y0 = int(math.Floor((key.Y + key.Height/2) / CellHeight))
			y1 = y0 + 1
		}
		bg := m.Theme.WhiteKey
		if key.IsBlack {
			bg = m.Theme.BlackKey
		}
		if key.Down {
			bg = m.Theme.KeyDown
		}
		w := a.left
		if key.IsBlack {
			w = a.left * 2 / 3
		}
		_, y0, _, y1 = a.clip(0, y0, 0, y1)
		c.fill(0, y0, w, y1, bg)
		if key.Number%12 == 0 && y1 > y0 {
			c.text(0, (y0+y1-1)/2, key.Name, m.Theme.BlackKey, bg)
		}
	}
}

func (m Model) drawTrackList(c *canvas, a area) {
	for row := range m.Roll.VisibleTracks() {
		y0, y1 := span(row.Y, row.Height, CellHeight)
		_, y0, _, y1 = a.clip(0, y0, 0, y1)
		bg := m.Theme.Background
		if row.Selected {
			bg = m.Theme.Selected
		}
		c.fill(0, y0, a.left, y1, bg)
		if y1 <= y0 {
			continue
		}
		y := (y0 + y1 - 1) / 2
		c.text(0, y, string(symbolNote), lipglossColor(row.Color), bg)
		c.text(1, y, truncate(" "+row.Name, a.left-1), m.Theme.Text, bg)
	}
}

func (m Model) drawStatus(c *canvas, state editor.State) {
	y := m.height - 1
	c.fill(0, y, m.width, y+1, m.Theme.StatusBar)
	track := "none"
	if t := state.Track(state.SelectedTrackIndex); t != nil {
		track = t.Name
	}
	snap := "off"
	if state.SnapToGrid {
		snap = "on"
	}
	parts := []string{
		titleCaser.String(state.Mode.String()),
		"grid " + state.GridDivision.String(),
		"snap " + snap,
		track,
		fmt.Sprintf("zoom %.3g", m.Roll.Horizontal().EffectiveZoom()),
	}
	if s, ok := m.Roll.Session(); ok {
		parts = append(parts, titleCaser.String(s.Mode.String()))
	} else if mode := m.Roll.HoverMode(); mode != editor.DragNone {
		parts = append(parts, titleCaser.String(mode.String()))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	} else if last := m.Editor.LastChange(); last != "" {
		parts = append(parts, last)
	}
	c.text(0, y, truncate(" "+strings.Join(parts, " │ "), m.width), m.Theme.StatusBarText, m.Theme.StatusBar)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

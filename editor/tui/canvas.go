package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type (
	cell struct {
		r      rune
		fg, bg lipgloss.Color
		bold   bool
	}

	// canvas is a grid of styled terminal cells. Drawing outside of it is
	// ignored.
	canvas struct {
		w, h  int
		cells []cell
	}
)

func newCanvas(w, h int, bg lipgloss.Color) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([]cell, c.w*c.h)
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', bg: bg}
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

func (c *canvas) set(x, y int, r rune, fg lipgloss.Color) {
	if p := c.at(x, y); p != nil {
		p.r, p.fg = r, fg
	}
}

func (c *canvas) fill(x0, y0, x1, y1 int, bg lipgloss.Color) {
	for y := max(y0, 0); y < min(y1, c.h); y++ {
		for x := max(x0, 0); x < min(x1, c.w); x++ {
			c.cells[y*c.w+x] = cell{r: ' ', bg: bg}
		}
	}
}

func (c *canvas) text(x, y int, s string, fg, bg lipgloss.Color) {
	for _, r := range s {
		if p := c.at(x, y); p != nil {
			*p = cell{r: r, fg: fg, bg: bg}
		}
		x++
	}
}

// String renders the canvas, one lipgloss style per run of equally styled
// cells.
func (c *canvas) String() string {
	var b strings.Builder
	var run []rune
	for y := range c.h {
		row := c.cells[y*c.w : (y+1)*c.w]
		for x := 0; x < len(row); {
			start := row[x]
			run = run[:0]
			for x < len(row) && row[x].fg == start.fg && row[x].bg == start.bg && row[x].bold == start.bold {
				run = append(run, row[x].r)
				x++
			}
			style := lipgloss.NewStyle().Bold(start.bold)
			if start.fg != "" {
				style = style.Foreground(start.fg)
			}
			if start.bg != "" {
				style = style.Background(start.bg)
			}
			b.WriteString(style.Render(string(run)))
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

package gioui

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gopkg.in/yaml.v3"
)

type Theme struct {
	Background   color.NRGBA `yaml:",flow"`
	Highlighted  color.NRGBA `yaml:",flow"`
	BlackKeyLane color.NRGBA `yaml:",flow"`
	Line         color.NRGBA `yaml:",flow"`
	Measure      color.NRGBA `yaml:",flow"`
	Text         color.NRGBA `yaml:",flow"`
	Muted        color.NRGBA `yaml:",flow"`
	Disabled     color.NRGBA `yaml:",flow"`
	Primary      color.NRGBA `yaml:",flow"`
	PlayHead     color.NRGBA `yaml:",flow"`
	WhiteKey     color.NRGBA `yaml:",flow"`
	BlackKey     color.NRGBA `yaml:",flow"`
	KeyDown      color.NRGBA `yaml:",flow"`
	Selected     color.NRGBA `yaml:",flow"`
	LockedNote   color.NRGBA `yaml:",flow"`
	NoteOutline  color.NRGBA `yaml:",flow"`
	Toolbar      color.NRGBA `yaml:",flow"`
	Error        color.NRGBA `yaml:",flow"`

	ScrollbarWidth unit.Dp
	ToolbarHeight  unit.Dp
	KeysWidth      unit.Dp
	TrackListWidth unit.Dp
	RulerHeight    unit.Dp
	TextSize       unit.Sp

	Material *material.Theme `yaml:"-"`
}

//go:embed theme.yml
var defaultTheme []byte

// NewTheme decodes the embedded theme.
func NewTheme() *Theme {
	var theme Theme
	dec := yaml.NewDecoder(bytes.NewReader(defaultTheme))
	dec.KnownFields(true)
	if err := dec.Decode(&theme); err != nil {
		panic(fmt.Errorf("failed to decode default theme: %w", err))
	}
	theme.Material = material.NewTheme()
	theme.Material.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	theme.Material.Palette.Bg = theme.Background
	theme.Material.Palette.Fg = theme.Text
	theme.Material.Palette.ContrastBg = theme.Primary
	theme.Material.Palette.ContrastFg = theme.Background
	theme.Material.TextSize = theme.TextSize
	return &theme
}

// ParseColor parses "#rrggbb" or "#rrggbbaa", the format of track colors.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, false
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func (th *Theme) trackColor(c string) color.NRGBA {
	if ret, ok := ParseColor(c); ok {
		return ret
	}
	return th.Primary
}

var iconCache = map[*byte]*widget.Icon{}

// widgetForIcon returns a widget for IconVG data, caching the results.
func widgetForIcon(icon []byte) *widget.Icon {
	if widget, ok := iconCache[&icon[0]]; ok {
		return widget
	}
	widget, err := widget.NewIcon(icon)
	if err != nil {
		log.Fatal(err)
	}
	iconCache[&icon[0]] = widget
	return widget
}

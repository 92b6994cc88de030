package gioui

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/pianoroll-go/pianoroll/viewport"
)

// ScrollSurface is a pair of scroll bars over the note area. It is the
// viewport.Surface of the editor: Sync sets its content size and offsets,
// and dragging the bars or wheeling reports a ScrollEvent back.
type ScrollSurface struct {
	Width, Height float64 // content size
	Left, Top     float64

	bars [2]widget.Scrollbar
}

func (s *ScrollSurface) SetContentSize(width, height float64) {
	s.Width, s.Height = width, height
}

func (s *ScrollSurface) ScrollTo(left, top float64) {
	s.Left, s.Top = left, top
}

// ScrollBy moves the surface by a number of pixels, as a user scroll of a
// viewport of the given size, and returns the resulting event.
func (s *ScrollSurface) ScrollBy(dx, dy, viewWidth, viewHeight float64) viewport.ScrollEvent {
	s.Left = clampOffset(s.Left+dx, s.Width, viewWidth)
	s.Top = clampOffset(s.Top+dy, s.Height, viewHeight)
	return s.event()
}

func (s *ScrollSurface) event() viewport.ScrollEvent {
	return viewport.ScrollEvent{Left: s.Left, Top: s.Top, ScrollWidth: s.Width, ScrollHeight: s.Height}
}

func clampOffset(offset, content, view float64) float64 {
	return max(min(offset, content-view), 0)
}

func fraction(offset, content float64) float32 {
	if !(content > 0) {
		return 0
	}
	return float32(offset / content)
}

// Layout draws the scroll bars along the right and bottom edges of the
// notes rect, and returns the scroll made by dragging them.
func (s *ScrollSurface) Layout(gtx C, th *Theme, notes image.Rectangle) (viewport.ScrollEvent, bool) {
	w, h := float64(notes.Dx()), float64(notes.Dy())
	width := gtx.Dp(th.ScrollbarWidth)
	scrolled := false
	if d := s.bars[0].ScrollDistance(); d != 0 && s.Width > 0 {
		s.Left = clampOffset(s.Left+float64(d)*s.Width, s.Width, w)
		scrolled = true
	}
	if d := s.bars[1].ScrollDistance(); d != 0 && s.Height > 0 {
		s.Top = clampOffset(s.Top+float64(d)*s.Height, s.Height, h)
		scrolled = true
	}
	style := func(bar *widget.Scrollbar) material.ScrollbarStyle {
		ret := material.Scrollbar(th.Material, bar)
		ret.Indicator.Color = th.Measure
		ret.Indicator.HoverColor = th.Muted
		return ret
	}

	gtx2 := gtx
	gtx2.Constraints = layout.Exact(image.Pt(notes.Dx(), width))
	stack := op.Offset(image.Pt(notes.Min.X, notes.Max.Y)).Push(gtx.Ops)
	style(&s.bars[0]).Layout(gtx2, layout.Horizontal, fraction(s.Left, s.Width), fraction(s.Left+w, s.Width))
	stack.Pop()

	gtx2.Constraints = layout.Exact(image.Pt(width, notes.Dy()))
	stack = op.Offset(image.Pt(notes.Max.X, notes.Min.Y)).Push(gtx.Ops)
	style(&s.bars[1]).Layout(gtx2, layout.Vertical, fraction(s.Top, s.Height), fraction(s.Top+h, s.Height))
	stack.Pop()
	return s.event(), scrolled
}

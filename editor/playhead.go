package editor

import "math"

// PlayHeadX returns the pixel coordinate of the play head and if it is
// inside the note area.
func (p *PianoRoll) PlayHeadX() (float64, bool) {
	h := p.Horizontal()
	r := h.PixelRect(p.props.PlayHead, 0)
	return h.PixelOffset + r.Offset, h.PixelSize > 0 && r.Offset >= 0 && r.Offset <= h.PixelSize
}

// PressPlayHead starts dragging the play head if x is within EdgeThreshold
// pixels of it.
func (p *PianoRoll) PressPlayHead(x float64) bool {
	p.Update()
	hx, ok := p.PlayHeadX()
	if !ok || math.Abs(x-hx) > p.EdgeThreshold {
		return false
	}
	p.playHeadDrag = true
	p.playHeadGrab = x - hx
	return true
}

// SeekPlayHead moves the play head to the pointer and starts dragging it.
func (p *PianoRoll) SeekPlayHead(x float64) {
	p.Update()
	ticks := p.Horizontal().PositionAt(x)
	p.props.setPlayHead(max(min(ticks, p.props.Duration), 0))
	p.Update()
	p.PressPlayHead(x)
}

// DragPlayHead moves the dragged play head to follow the pointer.
func (p *PianoRoll) DragPlayHead(x float64) {
	if !p.playHeadDrag {
		return
	}
	p.Update()
	ticks := p.Horizontal().PositionAt(x - p.playHeadGrab)
	p.props.setPlayHead(max(min(ticks, p.props.Duration), 0))
	p.Update()
}

func (p *PianoRoll) ReleasePlayHead() {
	p.playHeadDrag = false
}

func (p *PianoRoll) DraggingPlayHead() bool { return p.playHeadDrag }

// FollowPlayHead scrolls so that the play head is in the middle of the
// visible range, if FollowPlayHead is on. It reports if the position changed.
func (p *PianoRoll) FollowPlayHead() bool {
	p.Update()
	if !p.props.FollowPlayHead {
		return false
	}
	h := p.Horizontal()
	position := max(min(p.props.PlayHead-h.VisibleRange()/2, h.Range), 0)
	if position == p.props.Position {
		return false
	}
	p.props.setPosition(position)
	p.Update()
	return true
}

package canvas

import "github.com/wricardo/kalambury/game/protocol"

// Pointer tracks a drag gesture on the canvas
type Pointer struct {
	pressed bool
	last    protocol.Cartesian
}

// Down starts a drag at the given position
func (p *Pointer) Down(at protocol.Cartesian) {
	p.pressed = true
	p.last = at
}

// Move returns the segment from the previous pointer position to at.
// It returns false when no drag is in progress.
func (p *Pointer) Move(at protocol.Cartesian) (from, to protocol.Cartesian, ok bool) {
	if !p.pressed {
		return protocol.Cartesian{}, protocol.Cartesian{}, false
	}
	from = p.last
	p.last = at
	return from, at, true
}

// Up ends the drag
func (p *Pointer) Up() {
	p.pressed = false
}

// Leave ends the drag when the pointer exits the canvas
func (p *Pointer) Leave() {
	p.pressed = false
}

// Pressed reports whether a drag is in progress
func (p *Pointer) Pressed() bool {
	return p.pressed
}

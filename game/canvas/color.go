package canvas

import (
	"fmt"
	"math"
)

// DefaultColor is the stroke color before anything is picked
const DefaultColor = "rgba(0,0,0,1)"

// RGB is an opaque color
type RGB struct {
	R, G, B uint8
}

// String formats the color the way strokes carry it on the wire
func (c RGB) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,1)", c.R, c.G, c.B)
}

type colorStop struct {
	offset float64
	color  RGB
}

// hueStops is the gradient painted on the hue strip, top to bottom
var hueStops = []colorStop{
	{0, RGB{255, 0, 0}},
	{0.085, RGB{255, 120, 0}},
	{0.17, RGB{255, 255, 0}},
	{0.255, RGB{120, 255, 0}},
	{0.34, RGB{0, 255, 0}},
	{0.425, RGB{0, 255, 120}},
	{0.51, RGB{0, 255, 255}},
	{0.595, RGB{0, 120, 255}},
	{0.68, RGB{0, 0, 255}},
	{0.765, RGB{120, 0, 255}},
	{0.85, RGB{255, 0, 255}},
	{0.935, RGB{255, 0, 120}},
	{1, RGB{255, 0, 0}},
}

// HueAt samples the hue strip of the given height at row y
func HueAt(y, height float64) RGB {
	t := clamp01(y / height)
	for i := 1; i < len(hueStops); i++ {
		lo, hi := hueStops[i-1], hueStops[i]
		if t <= hi.offset {
			f := (t - lo.offset) / (hi.offset - lo.offset)
			return RGB{
				R: lerp(lo.color.R, hi.color.R, f),
				G: lerp(lo.color.G, hi.color.G, f),
				B: lerp(lo.color.B, hi.color.B, f),
			}
		}
	}
	return hueStops[len(hueStops)-1].color
}

// ShadeAt samples the saturation/brightness square painted for base.
// White fades out left to right, black fades in top to bottom.
func ShadeAt(base RGB, x, y, width, height float64) RGB {
	white := 1 - clamp01(x/width)
	black := clamp01(y / height)

	mix := func(c uint8) uint8 {
		v := (float64(c)*(1-white) + 255*white) * (1 - black)
		return uint8(math.Round(v))
	}
	return RGB{R: mix(base.R), G: mix(base.G), B: mix(base.B)}
}

// Picker is the two-part color picker: a hue strip and a shade block.
// Dragging over the block keeps sampling while the pointer is pressed.
type Picker struct {
	StripHeight float64
	BlockWidth  float64
	BlockHeight float64

	base    RGB
	current string
	drag    bool
}

// NewPicker creates a picker with widget sizes in pixels
func NewPicker(stripHeight, blockWidth, blockHeight float64) *Picker {
	return &Picker{
		StripHeight: stripHeight,
		BlockWidth:  blockWidth,
		BlockHeight: blockHeight,
		current:     DefaultColor,
	}
}

// Color returns the active stroke color
func (p *Picker) Color() string {
	if p.current == "" {
		return DefaultColor
	}
	return p.current
}

// Set overrides the active stroke color
func (p *Picker) Set(color string) {
	p.current = color
}

// ClickStrip picks a hue; it becomes both the active color and the base of
// the shade block.
func (p *Picker) ClickStrip(y float64) string {
	p.base = HueAt(y, p.StripHeight)
	p.current = p.base.String()
	return p.current
}

// BlockDown starts a drag on the shade block and samples under the pointer
func (p *Picker) BlockDown(x, y float64) string {
	p.drag = true
	return p.sample(x, y)
}

// BlockMove samples under the pointer while the block is pressed
func (p *Picker) BlockMove(x, y float64) string {
	if p.drag {
		p.sample(x, y)
	}
	return p.Color()
}

// BlockUp ends the drag on the shade block
func (p *Picker) BlockUp() {
	p.drag = false
}

// Dragging reports whether the shade block is pressed
func (p *Picker) Dragging() bool {
	return p.drag
}

func (p *Picker) sample(x, y float64) string {
	p.current = ShadeAt(p.base, x, y, p.BlockWidth, p.BlockHeight).String()
	return p.current
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

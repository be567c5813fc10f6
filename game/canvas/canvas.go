package canvas

import (
	"errors"
	"fmt"

	"github.com/wricardo/kalambury/game/protocol"
)

const (
	// ContainerMargin is subtracted from the container width when fitting
	ContainerMargin = 20

	// AspectRatio is the canvas height as a fraction of its width
	AspectRatio = 0.6
)

var ErrInvalidSize = errors.New("canvas size must be positive")

// Segment is one straight line rendered on the canvas
type Segment struct {
	From  protocol.Cartesian `json:"from"`
	To    protocol.Cartesian `json:"to"`
	Color string             `json:"color"`
}

// Canvas holds the local pixel space and everything drawn in it
type Canvas struct {
	width    float64
	height   float64
	segments []Segment
}

// New creates an empty canvas of the given size
func New(width, height float64) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidSize, width, height)
	}
	return &Canvas{
		width:    width,
		height:   height,
		segments: make([]Segment, 0),
	}, nil
}

// FitWidth returns the canvas size for a container of the given width
func FitWidth(containerWidth float64) (protocol.Cartesian, error) {
	width := containerWidth - ContainerMargin
	if width <= 0 {
		return protocol.Cartesian{}, fmt.Errorf("%w: container width %g", ErrInvalidSize, containerWidth)
	}
	return protocol.Cartesian{X: width, Y: width * AspectRatio}, nil
}

// Size returns the canvas dimensions
func (c *Canvas) Size() protocol.Cartesian {
	return protocol.Cartesian{X: c.width, Y: c.height}
}

// DrawLine renders a segment in local pixel coordinates
func (c *Canvas) DrawLine(from, to protocol.Cartesian, color string) Segment {
	seg := Segment{From: from, To: to, Color: color}
	c.segments = append(c.segments, seg)
	return seg
}

// Clear removes everything drawn so far
func (c *Canvas) Clear() {
	c.segments = c.segments[:0]
}

// Segments returns a copy of the rendered segments in drawing order
func (c *Canvas) Segments() []Segment {
	out := make([]Segment, len(c.segments))
	copy(out, c.segments)
	return out
}

// Len returns the number of rendered segments
func (c *Canvas) Len() int {
	return len(c.segments)
}

// Resize changes the canvas size and resamples existing segments into the
// new pixel space so the picture keeps its proportions.
func (c *Canvas) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, width, height)
	}

	sx := width / c.width
	sy := height / c.height
	for i := range c.segments {
		seg := &c.segments[i]
		seg.From = protocol.Cartesian{X: seg.From.X * sx, Y: seg.From.Y * sy}
		seg.To = protocol.Cartesian{X: seg.To.X * sx, Y: seg.To.Y * sy}
	}

	c.width = width
	c.height = height
	return nil
}

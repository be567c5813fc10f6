package main

import (
	"hash/fnv"
	"math"

	"github.com/wricardo/kalambury/game/canvas"
	"github.com/wricardo/kalambury/game/protocol"
)

// Shape names a doodle primitive
type Shape string

const (
	ShapePolygon Shape = "polygon"
	ShapeStar    Shape = "star"
	ShapeSpiral  Shape = "spiral"
)

const (
	margin        = 0.1
	spiralTurns   = 3
	spiralPoints  = 48
	minSides      = 3
	maxSides      = 8
	innerRadiusAt = 0.5
)

// Stroke is one polyline in one color
type Stroke struct {
	Shape  Shape
	Color  string
	Points []protocol.Cartesian
}

// Planner turns a word into a deterministic doodle sized to the canvas
type Planner struct {
	width  float64
	height float64
}

func NewPlanner(size protocol.Cartesian) *Planner {
	return &Planner{width: size.X, height: size.Y}
}

// Plan returns an outline shape followed by a spiral. The same word always
// yields the same doodle.
func (p *Planner) Plan(word string) []Stroke {
	seed := hashWord(word)
	sides := minSides + int(seed%uint32(maxSides-minSides+1))

	outline := Stroke{Shape: ShapePolygon, Color: colorFor(seed), Points: p.polygon(sides)}
	if seed&1 == 1 {
		outline = Stroke{Shape: ShapeStar, Color: colorFor(seed), Points: p.star(sides)}
	}

	spiral := Stroke{Shape: ShapeSpiral, Color: colorFor(seed >> 8), Points: p.spiral()}
	return []Stroke{outline, spiral}
}

func (p *Planner) center() (float64, float64, float64) {
	r := math.Min(p.width, p.height) * (0.5 - margin)
	return p.width / 2, p.height / 2, r
}

// polygon returns a closed regular polygon
func (p *Planner) polygon(sides int) []protocol.Cartesian {
	cx, cy, r := p.center()
	points := make([]protocol.Cartesian, 0, sides+1)
	for i := 0; i <= sides; i++ {
		angle := 2*math.Pi*float64(i%sides)/float64(sides) - math.Pi/2
		points = append(points, protocol.Cartesian{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)})
	}
	return points
}

// star returns a closed star alternating outer and inner vertices
func (p *Planner) star(tips int) []protocol.Cartesian {
	cx, cy, r := p.center()
	n := tips * 2
	points := make([]protocol.Cartesian, 0, n+1)
	for i := 0; i <= n; i++ {
		radius := r
		if i%2 == 1 {
			radius = r * innerRadiusAt
		}
		angle := 2*math.Pi*float64(i%n)/float64(n) - math.Pi/2
		points = append(points, protocol.Cartesian{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)})
	}
	return points
}

// spiral winds outwards from the center
func (p *Planner) spiral() []protocol.Cartesian {
	cx, cy, r := p.center()
	points := make([]protocol.Cartesian, 0, spiralPoints+1)
	for i := 0; i <= spiralPoints; i++ {
		f := float64(i) / spiralPoints
		angle := 2 * math.Pi * spiralTurns * f
		points = append(points, protocol.Cartesian{X: cx + r*f*math.Cos(angle), Y: cy + r*f*math.Sin(angle)})
	}
	return points
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}

// colorFor samples the hue strip
func colorFor(seed uint32) string {
	return canvas.HueAt(float64(seed%360), 360).String()
}

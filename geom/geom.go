// Package geom provides the planar primitives shared by the planner:
// points, oriented half-plane lines and square footprints.
package geom

import "math"

// Point is a position in some frame. The frame is fixed at construction.
type Point struct {
	X, Y float64
}

// NewPoint creates a point, translating it into the frame centered at center.
// A nil center leaves the coordinates untouched.
func NewPoint(x, y float64, center *Point) Point {
	p := Point{X: x, Y: y}
	if center != nil {
		p.X -= center.X
		p.Y -= center.Y
	}
	return p
}

// Distance returns the Euclidean distance between two points.
func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rotate rotates p about the origin by -angle, taking a world-frame offset
// into the frame of a robot whose heading is angle.
func Rotate(p Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{
		X: p.X*cos + p.Y*sin,
		Y: -p.X*sin + p.Y*cos,
	}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Line is the implicit line A*x + B*y + C = 0 used as a half-plane test.
type Line struct {
	A, B, C float64
}

// LineAtDeg returns the line through the origin at the given bearing.
// The coefficients are oriented so that Direction points along the bearing
// and points counter-clockwise of it lie on the left. Away from the
// vertical bearings this is tan(deg)*x - y scaled by |cos(deg)|.
func LineAtDeg(deg float64) Line {
	sin, cos := math.Sincos(Radians(deg))
	return Line{A: sin, B: -cos}
}

// RelativePosition returns A*x + B*y + C. Only the sign is meaningful.
func (l Line) RelativePosition(p Point) float64 {
	return l.A*p.X + l.B*p.Y + l.C
}

// IsLeftOf reports whether p lies in the line's left half-plane.
func (l Line) IsLeftOf(p Point) bool {
	return l.RelativePosition(p) < 0
}

// Direction returns the line's direction vector (-B, A).
func (l Line) Direction() (dx, dy float64) {
	return -l.B, l.A
}

// Square is an axis-aligned obstacle footprint.
type Square struct {
	Center  Point
	Corners [4]Point // right-top, left-top, left-bottom, right-bottom
	Width   float64
}

// NewSquare builds a footprint of the given side length around (x, y),
// translated into the frame centered at center.
func NewSquare(x, y, width float64, center *Point) Square {
	h := width / 2
	return Square{
		Center: NewPoint(x, y, center),
		Corners: [4]Point{
			NewPoint(x+h, y+h, center),
			NewPoint(x-h, y+h, center),
			NewPoint(x-h, y-h, center),
			NewPoint(x+h, y-h, center),
		},
		Width: width,
	}
}

// LeftTop returns the top-left corner.
func (s Square) LeftTop() Point {
	return s.Corners[1]
}

// Points returns the center followed by the four corners.
func (s Square) Points() [5]Point {
	return [5]Point{s.Center, s.Corners[0], s.Corners[1], s.Corners[2], s.Corners[3]}
}

// DistanceTo returns the smallest distance from p to the center or a corner.
func (s Square) DistanceTo(p Point) float64 {
	minDist := math.Inf(1)
	for _, q := range s.Points() {
		minDist = math.Min(minDist, Distance(q, p))
	}
	return minDist
}

package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestRotateRoundtrip(t *testing.T) {
	points := []Point{{1, 0}, {0, 1}, {-2.5, 3.75}, {0.001, -0.002}, {0, 0}}

	for _, p := range points {
		for deg := -720.0; deg <= 720; deg += 7.5 {
			theta := Radians(deg)
			got := Rotate(Rotate(p, theta), -theta)
			if math.Abs(got.X-p.X) > eps || math.Abs(got.Y-p.Y) > eps {
				t.Errorf("Rotate(Rotate(%v, %.1f°), -%.1f°) = %v", p, deg, deg, got)
			}
		}
	}
}

func TestRotateIsWorldToRobot(t *testing.T) {
	// A point straight ahead of a robot facing +Y ends up on the robot's +X axis.
	got := Rotate(Point{0, 2}, math.Pi/2)
	if math.Abs(got.X-2) > eps || math.Abs(got.Y) > eps {
		t.Errorf("expected (2, 0), got %v", got)
	}
}

func TestNewPointSubtractsCenter(t *testing.T) {
	center := Point{X: 1, Y: -2}
	p := NewPoint(3, 4, &center)
	if p.X != 2 || p.Y != 6 {
		t.Errorf("expected (2, 6), got %v", p)
	}

	p = NewPoint(3, 4, nil)
	if p.X != 3 || p.Y != 4 {
		t.Errorf("nil center should not translate, got %v", p)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Point{0, 0}, Point{3, 4}); d != 5 {
		t.Errorf("expected 5, got %v", d)
	}
}

func TestLineAtDegPassesThroughOrigin(t *testing.T) {
	for deg := 1.0; deg < 361; deg += 9 {
		l := LineAtDeg(deg)
		if l.C != 0 {
			t.Errorf("line at %v° has C=%v", deg, l.C)
		}
		if r := l.RelativePosition(Point{}); r != 0 {
			t.Errorf("origin not on line at %v°: %v", deg, r)
		}
	}
}

func TestLineDirectionFollowsBearing(t *testing.T) {
	tests := []float64{0, 1, 45, 89, 90, 91, 135, 180, 225, 269, 270, 271, 315, 359, 360, 450, -90}
	for _, deg := range tests {
		dx, dy := LineAtDeg(deg).Direction()
		got := WrapDeg(Degrees(math.Atan2(dy, dx)))
		if AngleDiffDeg(got, deg) > 1e-6 {
			t.Errorf("direction of line at %v° points to %v°", deg, got)
		}
	}
}

func TestLineSlopeIsTangent(t *testing.T) {
	for _, deg := range []float64{1, 30, 100, 200, 300, 359} {
		l := LineAtDeg(deg)
		if got, want := -l.A/l.B, math.Tan(Radians(deg)); math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("line at %v° has slope %v, want %v", deg, got, want)
		}
	}
}

func TestLineLeftHalfPlane(t *testing.T) {
	// Points counter-clockwise of the bearing (within 180°) are on the left.
	for _, deg := range []float64{0, 10, 90, 100, 190, 270, 280} {
		l := LineAtDeg(deg)
		ccw := Point{X: math.Cos(Radians(deg + 30)), Y: math.Sin(Radians(deg + 30))}
		cw := Point{X: math.Cos(Radians(deg - 30)), Y: math.Sin(Radians(deg - 30))}
		if !l.IsLeftOf(ccw) {
			t.Errorf("line %v°: point at +30° should be left", deg)
		}
		if l.IsLeftOf(cw) {
			t.Errorf("line %v°: point at -30° should not be left", deg)
		}
	}
}

func TestSquare(t *testing.T) {
	center := Point{X: 1, Y: 1}
	sq := NewSquare(2, 1, 0.2, &center)

	if sq.Center != (Point{1, 0}) {
		t.Errorf("center = %v, want (1, 0)", sq.Center)
	}
	lt := sq.LeftTop()
	if math.Abs(lt.X-0.9) > eps || math.Abs(lt.Y-0.1) > eps {
		t.Errorf("left-top = %v, want (0.9, 0.1)", lt)
	}

	// Closest of the five sample points to the origin is the left corners.
	want := math.Hypot(0.9, 0.1)
	if d := sq.DistanceTo(Point{}); math.Abs(d-want) > eps {
		t.Errorf("DistanceTo = %v, want %v", d, want)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 0.5, 0.5},
		{-2.0, -2.0},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > eps {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAngleDiffDeg(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 20, 10},
		{5.5, 356.5, 9},
		{356.5, 5.5, 9},
		{0, 180, 180},
		{90, 270, 180},
		{361, 1, 0},
	}
	for _, tt := range tests {
		if got := AngleDiffDeg(tt.a, tt.b); math.Abs(got-tt.want) > eps {
			t.Errorf("AngleDiffDeg(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

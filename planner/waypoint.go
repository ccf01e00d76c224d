package planner

import (
	"math"

	"github.com/pthm-cable/pursuit/geom"
)

// project returns the robot-frame offset of length lookahead along the
// sector's central bearing, measured on the dominant axis.
func project(s Sector, lookahead float64) geom.Point {
	dx, dy := s.Median().Direction()

	var x, y float64
	if math.Abs(dx) >= math.Abs(dy) {
		x = lookahead
		y = lookahead * math.Abs(dy) / math.Abs(dx)
	} else {
		y = lookahead
		x = lookahead * math.Abs(dx) / math.Abs(dy)
	}
	return geom.Point{X: x * geom.Sign(dx), Y: y * geom.Sign(dy)}
}

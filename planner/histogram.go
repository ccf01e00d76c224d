package planner

import (
	"math"
	"slices"

	"github.com/pthm-cable/pursuit/geom"
)

// Histogram holds one tick's occupancy score per sector.
type Histogram struct {
	values []float64 // indexed by id-1
}

// NewHistogram builds a histogram from scores in sector id order.
func NewHistogram(values []float64) Histogram {
	return Histogram{values: slices.Clone(values)}
}

// Value returns the occupancy of the sector with the given id.
func (h Histogram) Value(id int) float64 {
	return h.values[id-1]
}

// Empty reports whether the sector's occupancy is exactly zero.
func (h Histogram) Empty(id int) bool {
	return h.values[id-1] == 0
}

// Len returns the number of sectors.
func (h Histogram) Len() int {
	return len(h.values)
}

// Values returns a copy of the scores keyed by sector id.
func (h Histogram) Values() map[int]float64 {
	m := make(map[int]float64, len(h.values))
	for i, v := range h.values {
		m[i+1] = v
	}
	return m
}

// Max returns the largest occupancy.
func (h Histogram) Max() float64 {
	var m float64
	for _, v := range h.values {
		m = math.Max(m, v)
	}
	return m
}

// EmptyCount returns the number of empty sectors.
func (h Histogram) EmptyCount() int {
	n := 0
	for _, v := range h.values {
		if v == 0 {
			n++
		}
	}
	return n
}

// footprint is an obstacle expressed in the robot frame.
type footprint struct {
	index  int
	square geom.Square
	grid   []geom.Point
}

// toRobotFrame translates a world point by the robot position and rotates it by the heading.
func toRobotFrame(p, robot geom.Point, heading float64) geom.Point {
	return geom.Rotate(geom.NewPoint(p.X, p.Y, &robot), heading)
}

// footprints converts obstacles into robot-frame squares, dropping the ones
// beyond the awareness radius or outside every sector.
func (p *Planner) footprints(robot geom.Point, heading float64, obstacles []geom.Point) (kept []footprint, unlocated int) {
	origin := geom.Point{}
	for i, o := range obstacles {
		rel := toRobotFrame(o, robot, heading)
		sq := geom.NewSquare(rel.X, rel.Y, p.cfg.FootprintWidth, nil)

		if d := sq.DistanceTo(origin); d > p.cfg.AwarenessRadius {
			p.logger.Debug("skipping distant obstacle", "obstacle", i, "distance", d)
			continue
		}
		if !p.ring.LocateSquare(sq) {
			p.logger.Warn("unable to locate obstacle", "obstacle", i, "x", o.X, "y", o.Y)
			unlocated++
			continue
		}

		kept = append(kept, footprint{index: i, square: sq, grid: p.rasterize(sq)})
	}
	return kept, unlocated
}

// rasterize samples the footprint on a grid anchored at its top-left corner.
func (p *Planner) rasterize(sq geom.Square) []geom.Point {
	lt := sq.LeftTop()
	x0 := math.Round(lt.X*100) / 100
	y0 := math.Round(lt.Y*100) / 100

	n := p.gridCells
	step := p.cfg.GridStep
	grid := make([]geom.Point, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			grid = append(grid, geom.Point{X: x0 + step*float64(i), Y: y0 - step*float64(j)})
		}
	}
	return grid
}

// contribution is the reciprocal of the distance-weighted sum over the grid
// points of one footprint that fall inside the sector, or 0 if none do.
func contribution(s Sector, grid []geom.Point) float64 {
	var sum float64
	for _, pt := range grid {
		if !s.Contains(pt) {
			continue
		}
		d := 1 + math.Hypot(pt.X, pt.Y)
		sum += d * math.Log(d)
	}
	if sum == 0 {
		return 0
	}
	return 1 / sum
}

// buildHistogram accumulates every footprint's contribution into every sector.
func (p *Planner) buildHistogram(fps []footprint) Histogram {
	h := Histogram{values: make([]float64, p.ring.Len())}
	for i, s := range p.ring.Sectors() {
		for _, fp := range fps {
			h.values[i] += contribution(s, fp.grid)
		}
	}
	return h
}

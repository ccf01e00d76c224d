package planner

import (
	"fmt"

	"github.com/pthm-cable/pursuit/geom"
)

// Sector is one fixed-width angular wedge of the ring around the robot.
// It covers bearings in the half-open interval (StartDeg, EndDeg].
type Sector struct {
	ID       int
	StartDeg float64
	EndDeg   float64 // StartDeg + width, may exceed 360 for the last sector
	Lowest   geom.Line
	Highest  geom.Line
}

// CenterDeg returns the sector's central bearing.
func (s Sector) CenterDeg() float64 {
	return (s.StartDeg + s.EndDeg) / 2
}

// Median returns the line along the sector's central bearing.
func (s Sector) Median() geom.Line {
	return geom.LineAtDeg(s.CenterDeg())
}

// Contains reports whether p (robot frame) lies inside the wedge.
func (s Sector) Contains(p geom.Point) bool {
	return s.Lowest.IsLeftOf(p) && !s.Highest.IsLeftOf(p)
}

// ContainsSquare reports whether the footprint's center or any corner lies inside the wedge.
func (s Sector) ContainsSquare(sq geom.Square) bool {
	for _, p := range sq.Points() {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

func (s Sector) String() string {
	return fmt.Sprintf("#%d (%.1f°, %.1f°]", s.ID, s.StartDeg, s.EndDeg)
}

// Ring is the immutable set of sectors tiling the full circle.
// Sector ids run 1..N in angular order.
type Ring struct {
	sectors  []Sector
	widthDeg float64
}

// NewRing builds 360/widthDeg sectors, the first starting at offsetDeg.
func NewRing(widthDeg, offsetDeg float64) *Ring {
	n := int(360 / widthDeg)
	r := &Ring{
		sectors:  make([]Sector, n),
		widthDeg: widthDeg,
	}
	for i := range r.sectors {
		start := geom.WrapDeg(offsetDeg + widthDeg*float64(i))
		r.sectors[i] = Sector{
			ID:       i + 1,
			StartDeg: start,
			EndDeg:   start + widthDeg,
			Lowest:   geom.LineAtDeg(start),
		}
	}
	// Neighbours share one boundary line so a bearing on it falls in
	// exactly one of them.
	for i := range r.sectors {
		r.sectors[i].Highest = r.sectors[(i+1)%n].Lowest
	}
	return r
}

// Len returns the number of sectors.
func (r *Ring) Len() int {
	return len(r.sectors)
}

// WidthDeg returns the angular width of every sector.
func (r *Ring) WidthDeg() float64 {
	return r.widthDeg
}

// Sector returns the sector with the given 1-based id.
func (r *Ring) Sector(id int) Sector {
	return r.sectors[id-1]
}

// Sectors returns the sectors in id order. Callers must not modify the slice.
func (r *Ring) Sectors() []Sector {
	return r.sectors
}

// Offset returns the id k steps after id, wrapping around the ring.
func (r *Ring) Offset(id, k int) int {
	n := len(r.sectors)
	return ((id-1+k)%n+n)%n + 1
}

// Locate returns the sector containing p (robot frame).
func (r *Ring) Locate(p geom.Point) (Sector, bool) {
	for _, s := range r.sectors {
		if s.Contains(p) {
			return s, true
		}
	}
	return Sector{}, false
}

// LocateSquare reports whether any sector contains part of the footprint.
func (r *Ring) LocateSquare(sq geom.Square) bool {
	for _, s := range r.sectors {
		if s.ContainsSquare(sq) {
			return true
		}
	}
	return false
}

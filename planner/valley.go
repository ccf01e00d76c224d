package planner

import (
	"math"

	"github.com/pthm-cable/pursuit/geom"
)

// Valley is a contiguous run of low-occupancy sectors, in angular order.
type Valley struct {
	Sectors []int
}

// TargetSector returns the id of the run's middle sector.
func (v Valley) TargetSector() int {
	return v.Sectors[len(v.Sectors)/2]
}

// findValleys returns every run of width sectors whose occupancies are all
// below threshold. Runs wrap around the ring, so there is one candidate per
// starting sector.
func findValleys(r *Ring, h Histogram, width int, threshold float64) []Valley {
	var valleys []Valley
	for start := 1; start <= r.Len(); start++ {
		run := make([]int, width)
		ok := true
		for k := range run {
			id := r.Offset(start, k)
			if h.Value(id) >= threshold {
				ok = false
				break
			}
			run[k] = id
		}
		if ok {
			valleys = append(valleys, Valley{Sectors: run})
		}
	}
	return valleys
}

// closestValley picks the valley whose target sector's central bearing is
// angularly nearest to the target bearing. Ties keep the earliest valley.
func closestValley(r *Ring, valleys []Valley, targetDeg float64) (Valley, float64, bool) {
	var best Valley
	minDiff := math.Inf(1)
	for _, v := range valleys {
		diff := geom.AngleDiffDeg(r.Sector(v.TargetSector()).CenterDeg(), targetDeg)
		if diff < minDiff {
			minDiff = diff
			best = v
		}
	}
	return best, minDiff, len(valleys) > 0
}

package telemetry

import "math"

// Collector accumulates tick records within fixed windows and produces WindowStats.
type Collector struct {
	runID       string
	windowTicks int
	dt          float64

	// Current window tracking
	windowStart int

	ticks         int
	plans         int
	holds         int
	speedSum      float64
	freeSum       float64
	targetDistSum float64
	clearances    []float64
	minClearance  float64
}

// NewCollector creates a collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(runID string, windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	c := &Collector{
		runID:       runID,
		windowTicks: ticksPerWindow,
		dt:          dt,
	}
	c.reset(0)
	return c
}

// StartAt begins a fresh window at the given tick, for episodes resumed
// from a snapshot.
func (c *Collector) StartAt(tick int) {
	c.reset(tick)
}

// Record adds one tick to the current window.
func (c *Collector) Record(r TickRecord) {
	c.ticks++
	if r.Planned {
		c.plans++
	}
	if r.Held {
		c.holds++
	}
	c.speedSum += math.Abs(r.Speed())
	c.freeSum += float64(r.FreeSectors)
	c.targetDistSum += r.TargetDistance
	if !math.IsInf(r.Clearance, 0) {
		c.clearances = append(c.clearances, r.Clearance)
		c.minClearance = math.Min(c.minClearance, r.Clearance)
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStart >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int) WindowStats {
	stats := WindowStats{
		RunID:       c.runID,
		WindowStart: c.windowStart,
		WindowEnd:   currentTick,
		SimTime:     float64(currentTick) * c.dt,
		Ticks:       c.ticks,
		Plans:       c.plans,
		Holds:       c.holds,
	}

	if c.ticks > 0 {
		n := float64(c.ticks)
		stats.HoldRate = float64(c.holds) / n
		stats.MeanSpeed = c.speedSum / n
		stats.MeanFreeSectors = c.freeSum / n
		stats.MeanTargetDistance = c.targetDistSum / n
	}
	if len(c.clearances) > 0 {
		stats.MinClearance = c.minClearance
		stats.ClearanceP10, stats.ClearanceP50, _ = Quantiles(c.clearances)
	}

	c.reset(currentTick)
	return stats
}

// Pending reports whether any ticks were recorded since the last flush.
func (c *Collector) Pending() bool {
	return c.ticks > 0
}

func (c *Collector) reset(tick int) {
	c.windowStart = tick
	c.ticks = 0
	c.plans = 0
	c.holds = 0
	c.speedSum = 0
	c.freeSum = 0
	c.targetDistSum = 0
	c.clearances = c.clearances[:0]
	c.minClearance = math.Inf(1)
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowTicks
}

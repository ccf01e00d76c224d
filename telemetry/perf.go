package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Step phases, in the order Sim.Step runs them.
const (
	PhaseSense     = "sense"
	PhasePlan      = "plan"
	PhaseControl   = "control"
	PhaseIntegrate = "integrate"
	PhaseBodies    = "bodies"
	PhaseTelemetry = "telemetry"
)

// Phases lists the step phases in execution order.
var Phases = []string{PhaseSense, PhasePlan, PhaseControl, PhaseIntegrate, PhaseBodies, PhaseTelemetry}

const (
	numPhases = 6
	noPhase   = -1
)

func phaseIndex(name string) int {
	return slices.Index(Phases, name)
}

// tickTiming is one step's wall time split by phase. Unknown phase names
// are counted in total only.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps wall-clock timings for the last N steps. It is owned
// by one Sim and is not safe for concurrent use.
type PerfCollector struct {
	ring   []tickTiming
	next   int
	filled bool

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      int
	open       bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector keeps the last window ticks; window < 1 means 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTiming, window), phase: noPhase}
}

// StartTick opens a new step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickTiming{}
	p.phase = noPhase
	p.open = true
}

// StartPhase closes the running phase, if any, and opens name.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseIndex(name)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != noPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the step and pushes it into the ring.
func (p *PerfCollector) EndTick() {
	if !p.open {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)
	p.open = false
	p.phase = noPhase

	p.ring[p.next] = p.cur
	p.next++
	if p.next == len(p.ring) {
		p.next = 0
		p.filled = true
	}
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

func (p *PerfCollector) samples() []tickTiming {
	if p.filled {
		return p.ring
	}
	return p.ring[:p.next]
}

// PerfStats summarises the collector's window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Mean wall time per phase and its share of the mean step.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Zero in headless runs.
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(Phases)),
		PhasePct:      make(map[string]float64, len(Phases)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}

	ticks := p.samples()
	if len(ticks) == 0 {
		return out
	}

	totals := make([]float64, len(ticks))
	var sums [numPhases]time.Duration
	for i, t := range ticks {
		totals[i] = float64(t.total)
		for j, d := range t.phases {
			sums[j] += d
		}
	}
	slices.Sort(totals)

	out.MinTickDuration = time.Duration(totals[0])
	out.MaxTickDuration = time.Duration(totals[len(totals)-1])
	out.AvgTickDuration = time.Duration(stat.Mean(totals, nil))
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}

	n := time.Duration(len(ticks))
	for j, name := range Phases {
		avg := sums[j] / n
		out.PhaseAvg[name] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[name] = 100 * float64(avg) / float64(out.AvgTickDuration)
		}
	}
	return out
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 6+len(Phases))
	attrs = append(attrs,
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	)
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, name := range Phases {
		if pct := s.PhasePct[name]; pct > 0 {
			attrs = append(attrs, slog.Float64(name+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	RunID        string  `csv:"run_id"`
	WindowEnd    int     `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SensePct     float64 `csv:"sense_pct"`
	PlanPct      float64 `csv:"plan_pct"`
	ControlPct   float64 `csv:"control_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	BodiesPct    float64 `csv:"bodies_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s for perf.csv, stamped with the window's last tick.
func (s PerfStats) ToCSV(runID string, windowEnd int) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		RunID:        runID,
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SensePct:     pct[PhaseSense],
		PlanPct:      pct[PhasePlan],
		ControlPct:   pct[PhaseControl],
		IntegratePct: pct[PhaseIntegrate],
		BodiesPct:    pct[PhaseBodies],
		TelemetryPct: pct[PhaseTelemetry],
	}
}

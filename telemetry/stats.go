package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	RunID       string  `csv:"run_id"`
	WindowStart int     `csv:"-"`
	WindowEnd   int     `csv:"window_end"`
	SimTime     float64 `csv:"sim_time"`

	Ticks    int     `csv:"ticks"`
	Plans    int     `csv:"plans"`
	Holds    int     `csv:"holds"`
	HoldRate float64 `csv:"hold_rate"`

	MeanSpeed       float64 `csv:"mean_speed"`
	MeanFreeSectors float64 `csv:"mean_free_sectors"`

	// Clearance distribution over the window
	MinClearance float64 `csv:"min_clearance"`
	ClearanceP10 float64 `csv:"clearance_p10"`
	ClearanceP50 float64 `csv:"clearance_p50"`

	MeanTargetDistance float64 `csv:"mean_target_distance"`
}

// Quantiles returns the empirical p10, p50 and p90 of values.
// Returns zeros for an empty slice.
func Quantiles(values []float64) (p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("plans", s.Plans),
		slog.Int("holds", s.Holds),
		slog.Float64("hold_rate", s.HoldRate),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("mean_free_sectors", s.MeanFreeSectors),
		slog.Float64("min_clearance", s.MinClearance),
		slog.Float64("clearance_p10", s.ClearanceP10),
		slog.Float64("clearance_p50", s.ClearanceP50),
		slog.Float64("mean_target_distance", s.MeanTargetDistance),
	)
}

// Summary aggregates a batch of episodes.
type Summary struct {
	Episodes    int
	Intercepted int
	Collided    int
	TimedOut    int
	SuccessRate float64

	// Time to intercept over successful episodes (sim seconds)
	MeanTime float64
	StdTime  float64
	P50Time  float64
	P90Time  float64

	MeanPathLength   float64
	MeanMinClearance float64
	MeanHolds        float64
}

// Summarize computes batch statistics. Cancelled episodes count as timeouts.
func Summarize(episodes []EpisodeRecord) Summary {
	s := Summary{Episodes: len(episodes)}
	if len(episodes) == 0 {
		return s
	}

	var times, paths, clearances, holds []float64
	for _, e := range episodes {
		switch {
		case e.Intercepted:
			s.Intercepted++
			times = append(times, e.SimTime)
		case e.Outcome == OutcomeCollided:
			s.Collided++
		default:
			s.TimedOut++
		}
		paths = append(paths, e.PathLength)
		if !math.IsInf(e.MinClearance, 0) {
			clearances = append(clearances, e.MinClearance)
		}
		holds = append(holds, float64(e.Holds))
	}

	s.SuccessRate = float64(s.Intercepted) / float64(s.Episodes)
	if len(times) > 0 {
		s.MeanTime, s.StdTime = stat.MeanStdDev(times, nil)
		if len(times) == 1 {
			s.StdTime = 0
		}
		_, s.P50Time, s.P90Time = Quantiles(times)
	}
	s.MeanPathLength = stat.Mean(paths, nil)
	if len(clearances) > 0 {
		s.MeanMinClearance = stat.Mean(clearances, nil)
	}
	s.MeanHolds = stat.Mean(holds, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("episodes", s.Episodes),
		slog.Int("intercepted", s.Intercepted),
		slog.Int("collided", s.Collided),
		slog.Int("timed_out", s.TimedOut),
		slog.Float64("success_rate", s.SuccessRate),
		slog.Float64("mean_time", s.MeanTime),
		slog.Float64("std_time", s.StdTime),
		slog.Float64("p50_time", s.P50Time),
		slog.Float64("p90_time", s.P90Time),
		slog.Float64("mean_path_length", s.MeanPathLength),
		slog.Float64("mean_min_clearance", s.MeanMinClearance),
		slog.Float64("mean_holds", s.MeanHolds),
	)
}

// Package telemetry records per-tick traces, episode outcomes and run
// statistics for the interception simulation.
package telemetry

import "log/slog"

// TickRecord is one row of ticks.csv.
type TickRecord struct {
	RunID   string  `csv:"run_id"`
	Tick    int     `csv:"tick"`
	SimTime float64 `csv:"sim_time"`

	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	Heading float64 `csv:"heading"`

	WheelLeft  float64 `csv:"wheel_left"`
	WheelRight float64 `csv:"wheel_right"`
	Regime     string  `csv:"regime"`

	WaypointX float64 `csv:"waypoint_x"`
	WaypointY float64 `csv:"waypoint_y"`
	TargetX   float64 `csv:"target_x"`
	TargetY   float64 `csv:"target_y"`

	Planned      bool   `csv:"planned"` // Planner ran this tick
	Held         bool   `csv:"held"`
	Reason       string `csv:"reason"` // Why the robot held, empty otherwise
	TargetSector int    `csv:"target_sector"`
	ChosenSector int    `csv:"chosen_sector"`
	FreeSectors  int    `csv:"free_sectors"`

	Clearance      float64 `csv:"clearance"` // Surface distance to the closest obstacle
	TargetDistance float64 `csv:"target_distance"`
}

// Speed returns the mean wheel speed.
func (r TickRecord) Speed() float64 {
	return (r.WheelLeft + r.WheelRight) / 2
}

// Episode outcomes as written to episodes.csv.
const (
	OutcomeIntercepted = "intercepted"
	OutcomeCollided    = "collided"
	OutcomeTimedOut    = "timed_out"
	OutcomeCancelled   = "cancelled"
)

// EpisodeRecord is one row of episodes.csv.
type EpisodeRecord struct {
	RunID        string  `csv:"run_id"`
	Seed         int64   `csv:"seed"`
	Outcome      string  `csv:"outcome"`
	Intercepted  bool    `csv:"intercepted"`
	Ticks        int     `csv:"ticks"`
	SimTime      float64 `csv:"sim_time"`
	PathLength   float64 `csv:"path_length"`
	MinClearance float64 `csv:"min_clearance"`
	Holds        int     `csv:"holds"`
	Plans        int     `csv:"plans"`
	WallMillis   int64   `csv:"wall_ms"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e EpisodeRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", e.RunID),
		slog.Int64("seed", e.Seed),
		slog.String("outcome", e.Outcome),
		slog.Int("ticks", e.Ticks),
		slog.Float64("sim_time", e.SimTime),
		slog.Float64("path_length", e.PathLength),
		slog.Float64("min_clearance", e.MinClearance),
		slog.Int("holds", e.Holds),
	)
}

// Package planner turns a snapshot of sensed positions into a steering
// waypoint using a polar occupancy histogram around the robot.
package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/kinematics"
)

var (
	// ErrTargetUnlocatable means no sector contains the target bearing.
	ErrTargetUnlocatable = errors.New("planner: target lies in no sector")
	// ErrNoValley means no run of free sectors is wide enough.
	ErrNoValley = errors.New("planner: no free valley")
)

// Snapshot is one tick of sensed world positions. Obstacles carry no identity
// across ticks.
type Snapshot struct {
	Target    geom.Point
	Obstacles []geom.Point
}

// Result is the outcome of one planning call. When Err is set the robot
// should hold position and Waypoint is the robot's own position.
type Result struct {
	Waypoint     geom.Point
	Histogram    Histogram
	TargetSector int // 0 when the target could not be located
	ChosenSector int // 0 when holding
	AngleDiffDeg float64
	Valleys      int
	Considered   int // obstacles that contributed to the histogram
	Unlocated    int
	Err          error
}

// OK reports whether a valley was chosen.
func (r Result) OK() bool {
	return r.Err == nil
}

// Hold reports whether the robot should stay where it is this tick.
func (r Result) Hold() bool {
	return r.Err != nil
}

// Chosen reports whether the sector id was selected as the heading.
func (r Result) Chosen(id int) bool {
	return r.ChosenSector != 0 && r.ChosenSector == id
}

// Planner owns the sector ring and tuning constants. It keeps no state
// between calls.
type Planner struct {
	cfg       config.PlannerConfig
	ring      *Ring
	gridCells int
	logger    *slog.Logger
}

// New builds the sector ring once. A nil logger uses slog.Default().
func New(cfg config.PlannerConfig, logger *slog.Logger) (*Planner, error) {
	if cfg.SectorWidthDeg <= 0 || cfg.SectorWidthDeg >= 180 || math.Mod(360, cfg.SectorWidthDeg) != 0 {
		return nil, fmt.Errorf("planner: sector width %v: %w", cfg.SectorWidthDeg, config.ErrInvalid)
	}
	if cfg.GridStep <= 0 || cfg.FootprintWidth <= 0 {
		return nil, fmt.Errorf("planner: grid step %v, footprint %v: %w", cfg.GridStep, cfg.FootprintWidth, config.ErrInvalid)
	}
	ring := NewRing(cfg.SectorWidthDeg, cfg.SectorOffsetDeg)
	if cfg.ValleyWidth < 1 || cfg.ValleyWidth > ring.Len() {
		return nil, fmt.Errorf("planner: valley width %d: %w", cfg.ValleyWidth, config.ErrInvalid)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		cfg:       cfg,
		ring:      ring,
		gridCells: int(math.Round(cfg.FootprintWidth/cfg.GridStep)) + 1,
		logger:    logger,
	}, nil
}

// Ring returns the planner's immutable sector ring.
func (p *Planner) Ring() *Ring {
	return p.ring
}

// Plan computes this tick's waypoint from the robot pose and the snapshot.
func (p *Planner) Plan(pose kinematics.Pose, snap Snapshot) Result {
	robot := pose.Position()

	fps, unlocated := p.footprints(robot, pose.Heading, snap.Obstacles)
	res := Result{
		Waypoint:   robot,
		Histogram:  p.buildHistogram(fps),
		Considered: len(fps),
		Unlocated:  unlocated,
	}

	target, ok := p.ring.Locate(toRobotFrame(snap.Target, robot, pose.Heading))
	if !ok {
		res.Err = ErrTargetUnlocatable
		p.logger.Warn("holding position", "reason", res.Err, "target_x", snap.Target.X, "target_y", snap.Target.Y)
		return res
	}
	res.TargetSector = target.ID

	valleys := findValleys(p.ring, res.Histogram, p.cfg.ValleyWidth, p.cfg.OccupancyThreshold)
	res.Valleys = len(valleys)

	best, diff, ok := closestValley(p.ring, valleys, target.CenterDeg())
	if !ok {
		res.Err = ErrNoValley
		p.logger.Warn("holding position", "reason", res.Err, "obstacles", len(fps))
		return res
	}

	chosen := p.ring.Sector(best.TargetSector())
	res.ChosenSector = chosen.ID
	res.AngleDiffDeg = diff

	offset := project(chosen, p.cfg.LookaheadDistance)
	if p.cfg.RotateWaypoint {
		offset = geom.Rotate(offset, -pose.Heading)
	}
	res.Waypoint = robot.Add(offset)
	return res
}

// Package sim drives one interception episode: it moves the bodies, feeds the
// planner and controller, integrates the robot and decides when the episode
// ends.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/kinematics"
	"github.com/pthm-cable/pursuit/planner"
	"github.com/pthm-cable/pursuit/telemetry"
)

// ErrNoTarget is returned when restoring a snapshot without a target body.
var ErrNoTarget = errors.New("sim: no target body")

// Outcome is the episode state.
type Outcome uint8

const (
	Running Outcome = iota
	Intercepted
	Collided
	TimedOut
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Intercepted:
		return telemetry.OutcomeIntercepted
	case Collided:
		return telemetry.OutcomeCollided
	case TimedOut:
		return telemetry.OutcomeTimedOut
	case Cancelled:
		return telemetry.OutcomeCancelled
	}
	return "unknown"
}

// Done reports whether the episode has ended.
func (o Outcome) Done() bool {
	return o != Running
}

// Options configures a new simulation.
type Options struct {
	Seed   int64
	RunID  string       // Generated when empty
	Logger *slog.Logger // nil = slog.Default()
	Sensor Sensor       // nil = chosen from the sensing config
}

// Sim is one episode. It is not safe for concurrent use; run one Sim per
// goroutine.
type Sim struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand
	seed   int64
	runID  string

	bodies     *bodies
	robot      *kinematics.Robot
	controller *kinematics.Controller
	planner    *planner.Planner
	sensor     Sensor
	perf       *telemetry.PerfCollector

	tick      int
	outcome   Outcome
	forcePlan bool // plan on the next tick regardless of cadence
	planned   bool // the planner ran this tick

	command kinematics.Command
	result  planner.Result
	sensed  planner.Snapshot
	wheels  kinematics.WheelState
	regime  kinematics.Regime
	trail   []geom.Point

	plans        int
	holds        int
	pathLength   float64
	minClearance float64
	last         telemetry.TickRecord
	history      []telemetry.TickRecord
}

// New creates an episode with a freshly generated world.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	s, err := newSim(cfg, opts)
	if err != nil {
		return nil, err
	}
	s.bodies.populate(cfg.World, s.rng)
	s.robot = kinematics.NewRobot(kinematics.Pose{
		X:       cfg.Robot.StartX,
		Y:       cfg.Robot.StartY,
		Heading: cfg.Robot.StartHeading,
	}, cfg.Control.WheelBase)
	s.pushTrail()
	return s, nil
}

// Restore creates an episode continuing from a snapshot. The noise stream is
// reseeded from the snapshot's seed and tick.
func Restore(cfg *config.Config, snap *telemetry.Snapshot, opts Options) (*Sim, error) {
	opts.Seed = snap.Seed + int64(snap.Tick)
	if opts.RunID == "" {
		opts.RunID = snap.RunID
	}
	s, err := newSim(cfg, opts)
	if err != nil {
		return nil, err
	}
	s.seed = snap.Seed
	if err := s.bodies.load(snap.Bodies); err != nil {
		return nil, fmt.Errorf("restoring bodies: %w", err)
	}
	s.robot = kinematics.NewRobot(kinematics.Pose{
		X:       snap.Robot.X,
		Y:       snap.Robot.Y,
		Heading: snap.Robot.Heading,
	}, cfg.Control.WheelBase)
	s.wheels = kinematics.WheelState{Left: snap.Robot.WheelLeft, Right: snap.Robot.WheelRight}
	s.robot.SetVelocity(s.wheels)
	s.tick = snap.Tick
	s.forcePlan = true
	s.pushTrail()
	return s, nil
}

func newSim(cfg *config.Config, opts Options) (*Sim, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger = logger.With("run_id", runID)

	p, err := planner.New(cfg.Planner, logger)
	if err != nil {
		return nil, fmt.Errorf("creating planner: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	sensor := opts.Sensor
	if sensor == nil {
		sensor = NewSensor(cfg.Sensing, rng)
	}

	return &Sim{
		cfg:          cfg,
		logger:       logger,
		rng:          rng,
		seed:         opts.Seed,
		runID:        runID,
		bodies:       newBodies(),
		controller:   kinematics.NewController(cfg.Control),
		planner:      p,
		sensor:       sensor,
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		minClearance: math.Inf(1),
	}, nil
}

// Step advances the episode by one tick and returns its record. Once the
// episode is over Step does nothing and returns the final record again.
func (s *Sim) Step() telemetry.TickRecord {
	if s.outcome.Done() {
		return s.last
	}
	dt := s.cfg.Sim.DT

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseSense)
	s.sensed = s.sensor.Sense(s.bodies.truth(s.bodies.obstacleCircles()))

	s.perf.StartPhase(telemetry.PhasePlan)
	planned := s.forcePlan || s.tick%s.cfg.Sim.ReplanEvery == 0
	s.planned = planned
	if planned {
		s.forcePlan = false
		s.result = s.planner.Plan(s.robot.Pose, s.sensed)
		s.plans++
	}

	s.perf.StartPhase(telemetry.PhaseControl)
	s.control(planned, dt)

	s.perf.StartPhase(telemetry.PhaseIntegrate)
	before := s.robot.Pose.Position()
	s.regime = s.robot.Step(dt)
	s.pathLength += geom.Distance(before, s.robot.Pose.Position())
	s.pushTrail()

	s.perf.StartPhase(telemetry.PhaseBodies)
	s.bodies.move(s.cfg.World, dt)
	s.tick++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	rec := s.terminate()
	s.perf.EndTick()
	return rec
}

// control picks the wheel command. A held plan keeps the robot still.
func (s *Sim) control(planned bool, dt float64) {
	switch {
	case s.result.Hold():
		s.wheels = kinematics.WheelState{}
		s.holds++
	case planned:
		s.command = s.controller.MoveToDot(s.robot.Pose, s.result.Waypoint)
		s.wheels = s.command.Wheels
	default:
		s.command = s.controller.MoveToDotAgain(s.command.Polar, s.robot.Pose, dt)
		s.wheels = s.command.Wheels
	}
	if s.cfg.Control.ClampWheels {
		s.wheels = kinematics.Clamp(s.wheels, s.cfg.Control.MaxWheelSpeed)
	}
	s.robot.SetVelocity(s.wheels)
}

// terminate checks the end conditions and builds the tick record.
func (s *Sim) terminate() telemetry.TickRecord {
	pose := s.robot.Pose
	target := s.bodies.targetCircle()
	clearance := Clearance(pose.Position(), s.cfg.Robot.Radius, s.bodies.obstacleCircles())
	targetDist := geom.Distance(pose.Position(), target.Center)
	s.minClearance = math.Min(s.minClearance, clearance)

	switch {
	case clearance < s.cfg.Sim.CollisionEpsilon:
		s.outcome = Collided
	case targetDist < s.cfg.Robot.Radius+target.Radius:
		s.outcome = Intercepted
	case s.cfg.Sim.MaxTicks > 0 && s.tick >= s.cfg.Sim.MaxTicks:
		s.outcome = TimedOut
	}

	rec := telemetry.TickRecord{
		RunID:          s.runID,
		Tick:           s.tick,
		SimTime:        s.SimTime(),
		X:              pose.X,
		Y:              pose.Y,
		Heading:        pose.Heading,
		WheelLeft:      s.wheels.Left,
		WheelRight:     s.wheels.Right,
		Regime:         s.regime.String(),
		WaypointX:      s.result.Waypoint.X,
		WaypointY:      s.result.Waypoint.Y,
		TargetX:        target.Center.X,
		TargetY:        target.Center.Y,
		Planned:        s.planned,
		Held:           s.result.Hold(),
		TargetSector:   s.result.TargetSector,
		ChosenSector:   s.result.ChosenSector,
		FreeSectors:    s.result.Histogram.EmptyCount(),
		Clearance:      clearance,
		TargetDistance: targetDist,
	}
	if rec.Held {
		rec.Reason = s.result.Err.Error()
	}
	s.last = rec
	if s.cfg.Telemetry.Plot {
		s.history = append(s.history, rec)
	}
	return rec
}

func (s *Sim) pushTrail() {
	s.trail = append(s.trail, s.robot.Pose.Position())
	if limit := s.cfg.Robot.TrailLength; limit > 0 && len(s.trail) > limit {
		s.trail = s.trail[len(s.trail)-limit:]
	}
}

// Cancel ends a running episode.
func (s *Sim) Cancel() {
	if !s.outcome.Done() {
		s.outcome = Cancelled
	}
}

// Tick returns the number of completed ticks.
func (s *Sim) Tick() int { return s.tick }

// SimTime returns the simulated time in seconds.
func (s *Sim) SimTime() float64 { return float64(s.tick) * s.cfg.Sim.DT }

// Outcome returns the episode state.
func (s *Sim) Outcome() Outcome { return s.outcome }

// RunID returns the identifier stamped on every record.
func (s *Sim) RunID() string { return s.runID }

// Seed returns the seed the world was generated from.
func (s *Sim) Seed() int64 { return s.seed }

// Pose returns the robot pose.
func (s *Sim) Pose() kinematics.Pose { return s.robot.Pose }

// Perf returns the phase timing collector.
func (s *Sim) Perf() *telemetry.PerfCollector { return s.perf }

// History returns the tick records kept for plotting.
func (s *Sim) History() []telemetry.TickRecord { return s.history }

// Target returns the true target body.
func (s *Sim) Target() Circle { return s.bodies.targetCircle() }

// Obstacles returns the true obstacle bodies.
func (s *Sim) Obstacles() []Circle { return s.bodies.obstacleCircles() }

// GoalAngle returns the target bearing relative to the robot heading.
func (s *Sim) GoalAngle() float64 {
	return GoalAngle(s.robot.Pose, s.Target().Center)
}

// ClosestObstacleDistance returns the current clearance to the closest obstacle.
func (s *Sim) ClosestObstacleDistance() float64 {
	return Clearance(s.robot.Pose.Position(), s.cfg.Robot.Radius, s.Obstacles())
}

// MinRange returns the clearance to the closest obstacle in a robot-relative cone.
func (s *Sim) MinRange(from, to float64) float64 {
	return MinRange(s.robot.Pose, s.cfg.Robot.Radius, s.Obstacles(), from, to)
}

// Episode summarizes the episode so far.
func (s *Sim) Episode() telemetry.EpisodeRecord {
	return telemetry.EpisodeRecord{
		RunID:        s.runID,
		Seed:         s.seed,
		Outcome:      s.outcome.String(),
		Intercepted:  s.outcome == Intercepted,
		Ticks:        s.tick,
		SimTime:      s.SimTime(),
		PathLength:   s.pathLength,
		MinClearance: s.minClearance,
		Holds:        s.holds,
		Plans:        s.plans,
	}
}

// Snapshot captures the state needed to resume the episode.
func (s *Sim) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	pose := s.robot.Pose
	return &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RunID:   s.runID,
		Seed:    s.seed,
		Tick:    s.tick,
		SimTime: s.SimTime(),
		Robot: telemetry.RobotState{
			X:          pose.X,
			Y:          pose.Y,
			Heading:    pose.Heading,
			WheelLeft:  s.wheels.Left,
			WheelRight: s.wheels.Right,
		},
		Bodies:   s.bodies.states(),
		Bookmark: bookmark,
	}
}

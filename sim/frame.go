package sim

import (
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/kinematics"
	"github.com/pthm-cable/pursuit/planner"
)

// Frame is a read-only view of one tick for display.
type Frame struct {
	Tick    int
	Time    float64
	Outcome Outcome

	Pose                  kinematics.Pose
	Wheels                kinematics.WheelState
	Regime                kinematics.Regime
	LeftWheel, RightWheel geom.Point
	RobotRadius           float64
	Trail                 []geom.Point

	Ring    *planner.Ring
	Result  planner.Result
	Planned bool
	Sensed  planner.Snapshot

	Target    Circle
	Obstacles []Circle
	GoalAngle float64
	Clearance float64
}

// Frame captures the current state. Slices are copies.
func (s *Sim) Frame() Frame {
	left, right := s.robot.WheelPositions()
	obstacles := s.Obstacles()
	sensed := planner.Snapshot{
		Target:    s.sensed.Target,
		Obstacles: append([]geom.Point(nil), s.sensed.Obstacles...),
	}
	return Frame{
		Tick:        s.tick,
		Time:        s.SimTime(),
		Outcome:     s.outcome,
		Pose:        s.robot.Pose,
		Wheels:      s.wheels,
		Regime:      s.regime,
		LeftWheel:   left,
		RightWheel:  right,
		RobotRadius: s.cfg.Robot.Radius,
		Trail:       append([]geom.Point(nil), s.trail...),
		Ring:        s.planner.Ring(),
		Result:      s.result,
		Planned:     s.planned,
		Sensed:      sensed,
		Target:      s.Target(),
		Obstacles:   obstacles,
		GoalAngle:   s.GoalAngle(),
		Clearance:   Clearance(s.robot.Pose.Position(), s.cfg.Robot.Radius, obstacles),
	}
}

// Package kinematics integrates a differential-drive robot's pose and converts
// steering targets into wheel velocities.
package kinematics

import (
	"fmt"
	"math"

	"github.com/pthm-cable/pursuit/geom"
)

// Pose is the robot's world position and heading (radians, wrapped to (-Pi, Pi]).
type Pose struct {
	X, Y    float64
	Heading float64
}

// Position returns the pose's world position.
func (p Pose) Position() geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3frad)", p.X, p.Y, p.Heading)
}

// WheelState holds the left and right wheel linear velocities (m/s).
type WheelState struct {
	Left, Right float64
}

// Regime is the motion case selected from the wheel velocities.
type Regime uint8

const (
	Straight Regime = iota // equal wheel speeds
	Rotation               // opposite wheel speeds, turning in place
	Arc                    // general circular arc
)

func (r Regime) String() string {
	switch r {
	case Straight:
		return "straight"
	case Rotation:
		return "rotation"
	case Arc:
		return "arc"
	}
	return "unknown"
}

// round3 rounds to 3 decimal places.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Classify picks the motion regime. Speeds are compared at 3 decimals so the
// arc formula never divides by a near-zero speed difference.
func Classify(w WheelState) Regime {
	l, r := round3(w.Left), round3(w.Right)
	switch {
	case l == r:
		return Straight
	case l == -r:
		return Rotation
	}
	return Arc
}

// Integrate advances the pose by dt under constant wheel velocities.
func Integrate(p Pose, w WheelState, wheelBase, dt float64) (Pose, Regime) {
	regime := Classify(w)
	next := p

	switch regime {
	case Straight:
		next.X = p.X + w.Left*dt*math.Cos(p.Heading)
		next.Y = p.Y + w.Left*dt*math.Sin(p.Heading)

	case Rotation:
		next.Heading = p.Heading + (w.Right-w.Left)*dt/wheelBase

	case Arc:
		radius := wheelBase / 2 * (w.Right + w.Left) / (w.Right - w.Left)
		dTheta := (w.Right - w.Left) * dt / wheelBase
		next.X = p.X + radius*(math.Sin(p.Heading+dTheta)-math.Sin(p.Heading))
		next.Y = p.Y - radius*(math.Cos(p.Heading+dTheta)-math.Cos(p.Heading))
		next.Heading = p.Heading + dTheta
	}

	next.Heading = geom.WrapAngle(next.Heading)
	return next, regime
}

// Robot is the differential-drive robot: its pose and current wheel command.
type Robot struct {
	Pose      Pose
	Wheels    WheelState
	WheelBase float64
}

// NewRobot creates a stationary robot at the given pose.
func NewRobot(pose Pose, wheelBase float64) *Robot {
	pose.Heading = geom.WrapAngle(pose.Heading)
	return &Robot{Pose: pose, WheelBase: wheelBase}
}

// SetVelocity sets the wheel command used by the next Step.
func (r *Robot) SetVelocity(w WheelState) {
	r.Wheels = w
}

// Step integrates the pose forward by dt and returns the regime used.
func (r *Robot) Step(dt float64) Regime {
	var regime Regime
	r.Pose, regime = Integrate(r.Pose, r.Wheels, r.WheelBase, dt)
	return regime
}

// WheelPositions returns the world positions of the left and right wheels.
func (r *Robot) WheelPositions() (left, right geom.Point) {
	half := r.WheelBase / 2
	sin, cos := math.Sincos(r.Pose.Heading)
	left = geom.Point{X: r.Pose.X - half*sin, Y: r.Pose.Y + half*cos}
	right = geom.Point{X: r.Pose.X + half*sin, Y: r.Pose.Y - half*cos}
	return left, right
}

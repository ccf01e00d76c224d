package kinematics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/geom"
)

// PolarState is the polar control-law state: range to the waypoint, bearing
// error and final-heading error.
type PolarState struct {
	Rho, Alpha, Beta float64
}

// Command is one controller output.
type Command struct {
	Wheels WheelState
	Polar  PolarState
	V      float64 // linear velocity
	Omega  float64 // angular velocity
}

// Controller implements the polar-coordinates motion law for a
// differential-drive base.
type Controller struct {
	cfg config.ControlConfig
	mix *mat.Dense // twist-to-wheel mapping, scaled by 1/wheel radius
}

// NewController creates a controller with fixed gains and wheel geometry.
func NewController(cfg config.ControlConfig) *Controller {
	l := -cfg.WheelBase / 2
	mix := mat.NewDense(3, 3, []float64{
		1, 0, l,
		1, 0, -l,
		0, 1, 0,
	})
	mix.Scale(1/cfg.WheelRadius, mix)
	return &Controller{cfg: cfg, mix: mix}
}

// MoveToDot computes a fresh polar state towards waypoint and the wheel
// velocities that follow from it. No clamping is applied.
func (c *Controller) MoveToDot(pose Pose, waypoint geom.Point) Command {
	dx := waypoint.X - pose.X
	dy := waypoint.Y - pose.Y

	rho := math.Hypot(dx, dy)
	alpha := -pose.Heading + math.Atan2(dy, dx)
	beta := -pose.Heading - alpha

	return c.command(PolarState{Rho: rho, Alpha: alpha, Beta: beta}, pose.Heading)
}

// MoveToDotAgain advances a previous polar state by one Euler step of its
// continuous-time dynamics instead of recomputing it from the pose.
func (c *Controller) MoveToDotAgain(s PolarState, pose Pose, dt float64) Command {
	kr, ka, kb := c.cfg.KRho, c.cfg.KAlpha, c.cfg.KBeta
	sinA, cosA := math.Sincos(s.Alpha)

	next := PolarState{
		Rho:   s.Rho + (-kr*s.Rho*cosA)*dt,
		Alpha: s.Alpha + (kr*sinA-ka*s.Alpha-kb*s.Beta)*dt,
		Beta:  s.Beta + (-kr*sinA)*dt,
	}
	return c.command(next, pose.Heading)
}

func (c *Controller) command(s PolarState, heading float64) Command {
	v := c.cfg.KRho * s.Rho
	omega := c.cfg.KAlpha*s.Alpha + c.cfg.KBeta*s.Beta
	return Command{
		Wheels: c.Wheels(v, omega, heading),
		Polar:  s,
		V:      v,
		Omega:  omega,
	}
}

// Wheels converts a unicycle command (v, omega) at the given heading into
// left and right wheel velocities. The heading enters through the world-frame
// twist and cancels in the robot frame.
func (c *Controller) Wheels(v, omega, heading float64) WheelState {
	sin, cos := math.Sincos(heading)

	unicycle := mat.NewDense(3, 2, []float64{
		cos, 0,
		sin, 0,
		0, 1,
	})
	var twist mat.VecDense
	twist.MulVec(unicycle, mat.NewVecDense(2, []float64{v, omega}))

	toRobot := mat.NewDense(3, 3, []float64{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	})
	var m mat.Dense
	m.Mul(c.mix, toRobot)

	var phi mat.VecDense
	phi.MulVec(&m, &twist)
	return WheelState{Left: phi.AtVec(0), Right: phi.AtVec(1)}
}

// Clamp scales both wheels by the same factor so neither exceeds limit in
// magnitude, preserving the turning ratio.
func Clamp(w WheelState, limit float64) WheelState {
	peak := math.Max(math.Abs(w.Left), math.Abs(w.Right))
	if peak <= limit {
		return w
	}
	scale := limit / peak
	return WheelState{Left: w.Left * scale, Right: w.Right * scale}
}

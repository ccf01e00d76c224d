package sim

import (
	"math"

	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/kinematics"
)

// Circle is a round body in world coordinates.
type Circle struct {
	Center geom.Point
	Radius float64
}

// Clearance returns the surface-to-surface distance between a robot of the
// given radius and the closest obstacle, or +Inf when there are none.
func Clearance(robot geom.Point, robotRadius float64, obstacles []Circle) float64 {
	closest := math.Inf(1)
	for _, o := range obstacles {
		d := geom.Distance(robot, o.Center) - o.Radius - robotRadius
		closest = math.Min(closest, d)
	}
	return closest
}

// GoalAngle returns the bearing of target relative to the robot heading,
// wrapped to (-Pi, Pi].
func GoalAngle(pose kinematics.Pose, target geom.Point) float64 {
	bearing := math.Atan2(target.Y-pose.Y, target.X-pose.X)
	return geom.WrapAngle(bearing - pose.Heading)
}

// MinRange returns the smallest clearance to an obstacle whose centre lies
// in the cone swept counter-clockwise from the robot-relative angle from to
// the angle to. The cone may straddle the robot's back. Returns +Inf when
// the cone is empty.
func MinRange(pose kinematics.Pose, robotRadius float64, obstacles []Circle, from, to float64) float64 {
	span := positiveAngle(to - from)
	closest := math.Inf(1)
	for _, o := range obstacles {
		rel := GoalAngle(pose, o.Center)
		if positiveAngle(rel-from) > span {
			continue
		}
		d := geom.Distance(pose.Position(), o.Center) - o.Radius - robotRadius
		closest = math.Min(closest, d)
	}
	return closest
}

// positiveAngle maps a to [0, 2Pi).
func positiveAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

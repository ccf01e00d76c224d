package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pursuit/camera"
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/sim"
)

// RobotRenderer draws the robot body, its wheels and its trail.
type RobotRenderer struct {
	Body  rl.Color
	Wheel rl.Color
	Trail rl.Color
}

// NewRobotRenderer creates a robot renderer with the default palette.
func NewRobotRenderer() *RobotRenderer {
	return &RobotRenderer{
		Body:  rl.Color{R: 40, G: 90, B: 200, A: 255},
		Wheel: rl.Color{R: 20, G: 20, B: 20, A: 255},
		Trail: rl.Color{R: 40, G: 90, B: 200, A: 120},
	}
}

// DrawTrail renders the recent path as a polyline.
func (r *RobotRenderer) DrawTrail(cam *camera.Camera, f sim.Frame) {
	for i := 1; i < len(f.Trail); i++ {
		ax, ay := cam.WorldToScreen(f.Trail[i-1].X, f.Trail[i-1].Y)
		bx, by := cam.WorldToScreen(f.Trail[i].X, f.Trail[i].Y)
		rl.DrawLineV(rl.NewVector2(ax, ay), rl.NewVector2(bx, by), r.Trail)
	}
}

// Draw renders the robot with a heading tick and both wheels.
func (r *RobotRenderer) Draw(cam *camera.Camera, f sim.Frame) {
	cx, cy := cam.WorldToScreen(f.Pose.X, f.Pose.Y)
	radius := cam.Length(f.RobotRadius)
	rl.DrawCircleLinesV(rl.NewVector2(cx, cy), radius, r.Body)

	sin, cos := math.Sincos(f.Pose.Heading)
	hx, hy := cam.WorldToScreen(f.Pose.X+f.RobotRadius*cos, f.Pose.Y+f.RobotRadius*sin)
	rl.DrawLineEx(rl.NewVector2(cx, cy), rl.NewVector2(hx, hy), 2, r.Body)

	wheel := float32(math.Max(2, float64(radius)/4))
	for _, w := range [2]geom.Point{f.LeftWheel, f.RightWheel} {
		wx, wy := cam.WorldToScreen(w.X, w.Y)
		rl.DrawCircleV(rl.NewVector2(wx, wy), wheel, r.Wheel)
	}
}

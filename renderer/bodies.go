package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pursuit/camera"
	"github.com/pthm-cable/pursuit/sim"
)

// BodyRenderer draws obstacles, the target and the sensed positions.
type BodyRenderer struct {
	Obstacle rl.Color
	Target   rl.Color
	Sensed   rl.Color
}

// NewBodyRenderer creates a body renderer with the default palette.
func NewBodyRenderer() *BodyRenderer {
	return &BodyRenderer{
		Obstacle: rl.Color{R: 60, G: 60, B: 70, A: 255},
		Target:   rl.Color{R: 230, G: 120, B: 30, A: 255},
		Sensed:   rl.Color{R: 30, G: 140, B: 220, A: 200},
	}
}

// Draw renders the true bodies.
func (b *BodyRenderer) Draw(cam *camera.Camera, f sim.Frame) {
	for _, o := range f.Obstacles {
		drawCircle(cam, o, b.Obstacle)
	}
	drawCircle(cam, f.Target, b.Target)
}

// DrawSensed renders the positions the planner saw as rings.
func (b *BodyRenderer) DrawSensed(cam *camera.Camera, f sim.Frame) {
	r := cam.Length(f.Target.Radius)
	for _, p := range f.Sensed.Obstacles {
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		rl.DrawCircleLinesV(rl.NewVector2(sx, sy), r, b.Sensed)
	}
	sx, sy := cam.WorldToScreen(f.Sensed.Target.X, f.Sensed.Target.Y)
	rl.DrawCircleLinesV(rl.NewVector2(sx, sy), r, b.Sensed)
}

func drawCircle(cam *camera.Camera, c sim.Circle, color rl.Color) {
	if !cam.IsVisible(c.Center.X, c.Center.Y, c.Radius) {
		return
	}
	sx, sy := cam.WorldToScreen(c.Center.X, c.Center.Y)
	rl.DrawCircleV(rl.NewVector2(sx, sy), cam.Length(c.Radius), color)
}

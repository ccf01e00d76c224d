package game

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pursuit/ui"
)

const controlsLegend = "Space: pause | .: step | +/-: speed | R: reset | H: overlays | Arrows: pan | Wheel: zoom | Home: camera"

// Draw renders the current frame.
func (g *Game) Draw() {
	s := g.session.Sim()
	f := s.Frame()

	rl.BeginDrawing()
	g.background.Draw(g.camera)

	if g.overlays.IsEnabled(ui.OverlayTrail) {
		g.robot.DrawTrail(g.camera, f)
	}
	if g.overlays.IsEnabled(ui.OverlaySectors) {
		g.sectors.Draw(g.camera, f)
	}
	g.bodies.Draw(g.camera, f)
	if g.overlays.IsEnabled(ui.OverlaySensed) {
		g.bodies.DrawSensed(g.camera, f)
	}
	g.robot.Draw(g.camera, f)
	if g.overlays.IsEnabled(ui.OverlayWaypoint) {
		g.sectors.DrawWaypoint(g.camera, f)
	}

	g.hud.Draw(ui.HUDData{
		Title:   "Pursuit",
		RunID:   s.RunID(),
		Seed:    s.Seed(),
		Tick:    f.Tick,
		Time:    f.Time,
		Speed:   g.speed,
		FPS:     rl.GetFPS(),
		Paused:  g.paused,
		Outcome: f.Outcome,
	})

	y := g.controls.Draw(g.overlays)
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(10, y+10)
		g.perfPanel.Draw(s.Perf().Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayPanel) {
		g.state.Draw(f)
	}

	g.drawToolbar()
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	rl.EndDrawing()
	s.Perf().RecordFrame()
}

// drawToolbar draws the pause/reset buttons and the speed slider.
func (g *Game) drawToolbar() {
	x := g.screenWidth - 330
	y := g.screenHeight - 40

	label := "Pause"
	if g.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 70, Height: 24}, label) {
		g.paused = !g.paused
	}
	if gui.Button(rl.Rectangle{X: x + 80, Y: y, Width: 70, Height: 24}, "Reset") {
		if err := g.Reset(); err != nil {
			g.logger.Error("reset failed", "error", err)
		}
	}

	speed := gui.SliderBar(
		rl.Rectangle{X: x + 190, Y: y + 2, Width: 100, Height: 20},
		"1x", fmt.Sprintf("%dx", MaxSpeed),
		float32(g.speed), MinSpeed, MaxSpeed,
	)
	g.SetSpeed(int(math.Round(float64(speed))))
}

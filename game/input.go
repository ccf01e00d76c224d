package game

import rl "github.com/gen2brain/raylib-go/raylib"

// binding runs action when any of keys is pressed this frame.
type binding struct {
	keys   []int32
	action func(g *Game)
}

var bindings = []binding{
	{[]int32{rl.KeyF11}, func(*Game) { rl.ToggleFullscreen() }},
	{[]int32{rl.KeySpace}, func(g *Game) { g.paused = !g.paused }},
	{[]int32{rl.KeyPeriod}, func(g *Game) { g.stepOnce = g.paused }},
	{[]int32{rl.KeyEqual, rl.KeyKpAdd}, func(g *Game) { g.SetSpeed(g.speed + 1) }},
	{[]int32{rl.KeyMinus, rl.KeyKpSubtract}, func(g *Game) { g.SetSpeed(g.speed - 1) }},
	{[]int32{rl.KeyR}, func(g *Game) {
		if err := g.Reset(); err != nil {
			g.logger.Error("reset failed", "error", err)
		}
	}},
	{[]int32{rl.KeyH}, func(g *Game) { g.controls.Toggle() }},
	{[]int32{rl.KeyHome}, func(g *Game) { g.camera.Reset() }},
}

func anyPressed(keys []int32) bool {
	for _, k := range keys {
		if rl.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// handleInput applies one frame of keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	for _, b := range bindings {
		if anyPressed(b.keys) {
			b.action(g)
		}
	}
	for _, key := range g.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			g.overlays.HandleKeyPress(key)
		}
	}

	g.pollCamera()
}

func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth, g.screenHeight = w, h
	g.camera.Resize(w, h)
	g.state.SetPosition(int32(w)-230, 10)
}

// pollCamera pans with the arrow keys, at a screen-constant rate, and
// zooms with the wheel.
func (g *Game) pollCamera() {
	step := 8 / g.camera.Zoom
	var dx, dy float32
	if rl.IsKeyDown(rl.KeyRight) {
		dx += step
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= step
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += step
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= step
	}
	if dx != 0 || dy != 0 {
		g.camera.Pan(dx, dy)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
}

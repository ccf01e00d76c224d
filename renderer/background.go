// Package renderer draws the simulation frame with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pursuit/camera"
)

// BackgroundRenderer draws the playfield bounds and a metre grid.
type BackgroundRenderer struct {
	minX, minY, maxX, maxY float64

	Fill   rl.Color
	Grid   rl.Color
	Border rl.Color
}

// NewBackgroundRenderer creates a renderer for the given world bounds.
func NewBackgroundRenderer(minX, minY, maxX, maxY float64) *BackgroundRenderer {
	return &BackgroundRenderer{
		minX:   minX,
		minY:   minY,
		maxX:   maxX,
		maxY:   maxY,
		Fill:   rl.Color{R: 245, G: 245, B: 240, A: 255},
		Grid:   rl.Color{R: 225, G: 225, B: 220, A: 255},
		Border: rl.DarkGray,
	}
}

// Draw renders the background.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(rl.Color{R: 30, G: 32, B: 36, A: 255})

	x0, y0 := cam.WorldToScreen(b.minX, b.maxY)
	x1, y1 := cam.WorldToScreen(b.maxX, b.minY)
	field := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	rl.DrawRectangleRec(field, b.Fill)

	for x := math.Ceil(b.minX); x <= b.maxX; x++ {
		sx, top := cam.WorldToScreen(x, b.maxY)
		_, bottom := cam.WorldToScreen(x, b.minY)
		rl.DrawLineV(rl.NewVector2(sx, top), rl.NewVector2(sx, bottom), b.Grid)
	}
	for y := math.Ceil(b.minY); y <= b.maxY; y++ {
		left, sy := cam.WorldToScreen(b.minX, y)
		right, _ := cam.WorldToScreen(b.maxX, y)
		rl.DrawLineV(rl.NewVector2(left, sy), rl.NewVector2(right, sy), b.Grid)
	}

	rl.DrawRectangleLinesEx(field, 2, b.Border)
}

package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pursuit/camera"
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/planner"
	"github.com/pthm-cable/pursuit/sim"
)

// Sector line colors.
var (
	SectorEmpty    = rl.Color{R: 170, G: 170, B: 170, A: 160}
	SectorOccupied = rl.Color{R: 220, G: 50, B: 50, A: 220}
	SectorChosen   = rl.Color{R: 150, G: 60, B: 200, A: 255}
	WaypointColor  = rl.Color{R: 40, G: 160, B: 80, A: 255}
)

// SectorColor returns the line color for a sector in the last plan.
// Occupancy wins over selection: a chosen sector below the valley
// threshold but not empty still draws as occupied.
func SectorColor(res planner.Result, id int) rl.Color {
	switch {
	case res.Histogram.Len() >= id && !res.Histogram.Empty(id):
		return SectorOccupied
	case res.Chosen(id):
		return SectorChosen
	}
	return SectorEmpty
}

// SectorRenderer draws the sector center lines around the robot and the
// current waypoint.
type SectorRenderer struct {
	Length float64 // Line length in metres
}

// NewSectorRenderer creates a renderer whose lines reach the awareness radius.
func NewSectorRenderer(length float64) *SectorRenderer {
	return &SectorRenderer{Length: length}
}

// Draw renders the ring for the frame.
func (s *SectorRenderer) Draw(cam *camera.Camera, f sim.Frame) {
	if f.Ring == nil {
		return
	}
	origin := f.Pose.Position()
	ox, oy := cam.WorldToScreen(origin.X, origin.Y)

	for _, sec := range f.Ring.Sectors() {
		bearing := f.Pose.Heading + geom.Radians(sec.CenterDeg())
		sin, cos := math.Sincos(bearing)
		ex, ey := cam.WorldToScreen(origin.X+s.Length*cos, origin.Y+s.Length*sin)

		thick := float32(1)
		if f.Result.Chosen(sec.ID) {
			thick = 2.5
		}
		rl.DrawLineEx(rl.NewVector2(ox, oy), rl.NewVector2(ex, ey), thick, SectorColor(f.Result, sec.ID))
	}
}

// DrawWaypoint marks the waypoint of the last successful plan.
func (s *SectorRenderer) DrawWaypoint(cam *camera.Camera, f sim.Frame) {
	if !f.Result.OK() || f.Result.Histogram.Len() == 0 {
		return
	}
	wx, wy := cam.WorldToScreen(f.Result.Waypoint.X, f.Result.Waypoint.Y)
	rl.DrawCircleV(rl.NewVector2(wx, wy), 4, WaypointColor)
}

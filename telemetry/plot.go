package telemetry

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoTicks is returned when there is nothing to plot.
var ErrNoTicks = errors.New("no tick records")

var (
	robotColor    = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	targetColor   = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	waypointColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	holdColor     = color.RGBA{R: 160, G: 60, B: 200, A: 255}
)

// PlotTrajectory renders the robot and target paths of one episode to a PNG.
// Waypoints are drawn as small dots and held ticks are highlighted.
func PlotTrajectory(file string, ticks []TickRecord, title string) error {
	if len(ticks) == 0 {
		return ErrNoTicks
	}

	robotPts := make(plotter.XYs, 0, len(ticks))
	targetPts := make(plotter.XYs, 0, len(ticks))
	waypointPts := make(plotter.XYs, 0, len(ticks))
	var holdPts plotter.XYs
	for _, r := range ticks {
		robotPts = append(robotPts, plotter.XY{X: r.X, Y: r.Y})
		targetPts = append(targetPts, plotter.XY{X: r.TargetX, Y: r.TargetY})
		if r.Planned && !r.Held {
			waypointPts = append(waypointPts, plotter.XY{X: r.WaypointX, Y: r.WaypointY})
		}
		if r.Held {
			holdPts = append(holdPts, plotter.XY{X: r.X, Y: r.Y})
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	robotLine, err := plotter.NewLine(robotPts)
	if err != nil {
		return fmt.Errorf("robot path: %w", err)
	}
	robotLine.Color = robotColor
	robotLine.Width = vg.Points(1.5)
	p.Add(robotLine)
	p.Legend.Add("robot", robotLine)

	targetLine, err := plotter.NewLine(targetPts)
	if err != nil {
		return fmt.Errorf("target path: %w", err)
	}
	targetLine.Color = targetColor
	targetLine.Width = vg.Points(1)
	targetLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(targetLine)
	p.Legend.Add("target", targetLine)

	if len(waypointPts) > 0 {
		wp, err := plotter.NewScatter(waypointPts)
		if err != nil {
			return fmt.Errorf("waypoints: %w", err)
		}
		wp.GlyphStyle.Color = waypointColor
		wp.GlyphStyle.Radius = vg.Points(1)
		p.Add(wp)
		p.Legend.Add("waypoint", wp)
	}

	if len(holdPts) > 0 {
		hp, err := plotter.NewScatter(holdPts)
		if err != nil {
			return fmt.Errorf("holds: %w", err)
		}
		hp.GlyphStyle.Color = holdColor
		hp.GlyphStyle.Radius = vg.Points(3)
		p.Add(hp)
		p.Legend.Add("hold", hp)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(8*vg.Inch, 5*vg.Inch, file); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

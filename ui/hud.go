package ui

import (
	"fmt"
	"math"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/sim"
	"github.com/pthm-cable/pursuit/telemetry"
)

// HUDData holds the data needed to render the status lines.
type HUDData struct {
	Title   string
	RunID   string
	Seed    int64
	Tick    int
	Time    float64
	Speed   int
	FPS     int32
	Paused  bool
	Outcome sim.Outcome
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the status lines in the top left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Seed: %d | Run: %s", data.Seed, shortID(data.RunID)), 10, 35, 16, rl.LightGray)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.Time, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	status, color := "Running", rl.Yellow
	switch {
	case data.Outcome.Done():
		status, color = outcomeLabel(data.Outcome), outcomeColor(data.Outcome)
	case data.Paused:
		status = "PAUSED"
	}
	rl.DrawText(status, 10, 75, 16, color)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func outcomeLabel(o sim.Outcome) string {
	switch o {
	case sim.Intercepted:
		return "INTERCEPTED"
	case sim.Collided:
		return "COLLIDED"
	case sim.TimedOut:
		return "TIMED OUT"
	case sim.Cancelled:
		return "CANCELLED"
	}
	return o.String()
}

func outcomeColor(o sim.Outcome) rl.Color {
	switch o {
	case sim.Intercepted:
		return rl.Green
	case sim.Collided:
		return rl.Red
	}
	return rl.Orange
}

// StatePanelSections describes the robot and planner fields shown for a sim.Frame.
func StatePanelSections(wheelLimit float64) []SectionDescriptor {
	frame := func(d any) sim.Frame { return d.(sim.Frame) }
	return []SectionDescriptor{
		{
			Title: "Robot",
			Fields: []FieldDescriptor{
				{Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
					p := frame(d).Pose
					return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
				}},
				{Label: "Heading", Widget: WidgetText, Format: "%.1f°", Getter: func(d any) float32 {
					return float32(geom.Degrees(frame(d).Pose.Heading))
				}},
				{Label: "Regime", Widget: WidgetText, TextGetter: func(d any) string {
					return frame(d).Regime.String()
				}},
				{Label: "Left", Widget: WidgetCenteredBar, Range: FieldRange{Max: float32(wheelLimit)}, Getter: func(d any) float32 {
					return float32(frame(d).Wheels.Left)
				}},
				{Label: "Right", Widget: WidgetCenteredBar, Range: FieldRange{Max: float32(wheelLimit)}, Getter: func(d any) float32 {
					return float32(frame(d).Wheels.Right)
				}},
			},
		},
		{
			Title: "Planner",
			Fields: []FieldDescriptor{
				{Label: "Status", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
					if frame(d).Result.Hold() {
						return rl.Red
					}
					return rl.Green
				}},
				{Label: "Target", Widget: WidgetText, Format: "#%.0f", Getter: func(d any) float32 {
					return float32(frame(d).Result.TargetSector)
				}},
				{Label: "Chosen", Widget: WidgetText, Format: "#%.0f", Getter: func(d any) float32 {
					return float32(frame(d).Result.ChosenSector)
				}},
				{Label: "Free", Widget: WidgetBar, Range: FieldRange{Max: 1}, Getter: func(d any) float32 {
					h := frame(d).Result.Histogram
					if h.Len() == 0 {
						return 0
					}
					return float32(h.EmptyCount()) / float32(h.Len())
				}},
				{Label: "Valleys", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
					return float32(frame(d).Result.Valleys)
				}},
				{Label: "Reason", Widget: WidgetText,
					Visible: func(d any) bool { return frame(d).Result.Err != nil },
					TextGetter: func(d any) string {
						return frame(d).Result.Err.Error()
					}},
			},
		},
		{
			Title: "Goal",
			Fields: []FieldDescriptor{
				{Label: "Bearing", Widget: WidgetText, Format: "%.1f°", Getter: func(d any) float32 {
					return float32(geom.Degrees(frame(d).GoalAngle))
				}},
				{Label: "Clearance", Widget: WidgetText, TextGetter: func(d any) string {
					c := frame(d).Clearance
					if math.IsInf(c, 1) {
						return "-"
					}
					return fmt.Sprintf("%.2f m", c)
				}},
			},
		},
	}
}

// StatePanel renders robot and planner state from a frame.
type StatePanel struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewStatePanel creates a state panel whose wheel bars span ±wheelLimit.
func NewStatePanel(x, y, width int32, wheelLimit float64) *StatePanel {
	return &StatePanel{
		renderer: NewRenderer(),
		sections: StatePanelSections(wheelLimit),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *StatePanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the panel.
func (p *StatePanel) Draw(f sim.Frame) {
	r := p.renderer
	height := r.Theme.Padding * 2
	for _, sd := range p.sections {
		height += r.SectionHeight(sd, f)
	}
	r.DrawPanel(p.x, p.y, p.width, height)

	y := p.y + r.Theme.Padding
	for _, sd := range p.sections {
		y = r.DrawSection(p.x+r.Theme.Padding, y, sd, f, p.width-r.Theme.Padding*2)
	}
}

// PerfPanel renders the per-phase timing panel.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow)
	y += 16

	phases := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		phases = append(phases, name)
	}
	sort.Slice(phases, func(i, j int) bool {
		return stats.PhaseAvg[phases[i]] > stats.PhaseAvg[phases[j]]
	})

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

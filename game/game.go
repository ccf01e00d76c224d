// Package game runs an interceptor episode in a raylib window.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/pursuit/camera"
	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/renderer"
	"github.com/pthm-cable/pursuit/sim"
	"github.com/pthm-cable/pursuit/telemetry"
	"github.com/pthm-cable/pursuit/ui"
)

// Simulation speed bounds in ticks per frame.
const (
	MinSpeed = 1
	MaxSpeed = 10
)

// Options configures a viewer.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Recorder sim.Recorder
	Seed     int64
	Snapshot *telemetry.Snapshot // Resume from this state instead of a fresh world
}

// Game holds the viewer state around one recorded episode at a time.
type Game struct {
	cfg      *config.Config
	logger   *slog.Logger
	rec      sim.Recorder
	seed     int64
	snapshot *telemetry.Snapshot
	session  *sim.Session
	episodes int

	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	sectors    *renderer.SectorRenderer
	bodies     *renderer.BodyRenderer
	robot      *renderer.RobotRenderer

	hud       *ui.HUD
	state     *ui.StatePanel
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	overlays  *ui.OverlayRegistry

	paused   bool
	stepOnce bool
	speed    int

	screenWidth, screenHeight float32
}

// New creates a viewer and starts its first episode.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, h := float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	wc := cfg.World
	g := &Game{
		cfg:          cfg,
		logger:       logger,
		rec:          opts.Recorder,
		seed:         opts.Seed,
		snapshot:     opts.Snapshot,
		camera:       camera.New(w, h, float32(cfg.Screen.PixelsPerMetre), wc.MinX, wc.MinY, wc.MaxX, wc.MaxY),
		background:   renderer.NewBackgroundRenderer(wc.MinX, wc.MinY, wc.MaxX, wc.MaxY),
		sectors:      renderer.NewSectorRenderer(cfg.Planner.AwarenessRadius),
		bodies:       renderer.NewBodyRenderer(),
		robot:        renderer.NewRobotRenderer(),
		hud:          ui.NewHUD(),
		state:        ui.NewStatePanel(int32(w)-230, 10, 220, cfg.Control.MaxWheelSpeed),
		perfPanel:    ui.NewPerfPanel(10, 100),
		controls:     ui.NewControlsPanel(10, 100, 200),
		overlays:     ui.NewOverlayRegistry(),
		speed:        MinSpeed,
		screenWidth:  w,
		screenHeight: h,
	}
	if err := g.start(); err != nil {
		return nil, err
	}
	return g, nil
}

// start opens a session on a new or restored episode.
func (g *Game) start() error {
	opts := sim.Options{Seed: g.seed, Logger: g.logger}

	var (
		s   *sim.Sim
		err error
	)
	if g.snapshot != nil {
		s, err = sim.Restore(g.cfg, g.snapshot, opts)
	} else {
		s, err = sim.New(g.cfg, opts)
	}
	if err != nil {
		return fmt.Errorf("starting episode %d: %w", g.episodes+1, err)
	}

	g.session = s.Record(g.rec)
	g.episodes++
	return nil
}

// Reset finishes the current episode and starts a fresh world on the
// episode's seed plus one.
func (g *Game) Reset() error {
	g.session.Finish()
	g.seed = g.session.Sim().Seed() + 1
	g.snapshot = nil
	g.paused = false
	return g.start()
}

// Update handles input and advances the episode by the current speed.
func (g *Game) Update() {
	g.handleInput()
	g.advance(g.stepsThisFrame())
}

// stepsThisFrame returns how many ticks to run and consumes a pending single step.
func (g *Game) stepsThisFrame() int {
	if !g.paused {
		return g.speed
	}
	if g.stepOnce {
		g.stepOnce = false
		return 1
	}
	return 0
}

// advance steps the episode up to n ticks and finishes the session when it ends.
func (g *Game) advance(n int) {
	s := g.session.Sim()
	for i := 0; i < n && !s.Outcome().Done(); i++ {
		g.session.Step()
	}
	if s.Outcome().Done() {
		g.session.Finish()
	}
}

// SetSpeed sets the ticks per frame, clamped to [MinSpeed, MaxSpeed].
func (g *Game) SetSpeed(speed int) {
	g.speed = max(MinSpeed, min(MaxSpeed, speed))
}

// Speed returns the ticks per frame.
func (g *Game) Speed() int { return g.speed }

// Sim returns the current episode.
func (g *Game) Sim() *sim.Sim { return g.session.Sim() }

// Tick returns the current episode's tick.
func (g *Game) Tick() int { return g.session.Sim().Tick() }

// Episodes returns how many episodes this viewer has started.
func (g *Game) Episodes() int { return g.episodes }

// Close finishes the running episode and returns any telemetry write errors.
func (g *Game) Close() error {
	g.session.Finish()
	return g.session.Err()
}

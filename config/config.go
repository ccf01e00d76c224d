// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid value")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Robot     RobotConfig     `yaml:"robot"`
	Planner   PlannerConfig   `yaml:"planner"`
	Control   ControlConfig   `yaml:"control"`
	Sensing   SensingConfig   `yaml:"sensing"`
	Sim       SimConfig       `yaml:"sim"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	TargetFPS      int     `yaml:"target_fps"`
	PixelsPerMetre float64 `yaml:"pixels_per_metre"`
}

// WorldConfig holds the playfield bounds and obstacle population.
type WorldConfig struct {
	MinX                  float64 `yaml:"min_x"`
	MinY                  float64 `yaml:"min_y"`
	MaxX                  float64 `yaml:"max_x"`
	MaxY                  float64 `yaml:"max_y"`
	Obstacles             int     `yaml:"obstacles"`
	UnitRadius            float64 `yaml:"unit_radius"`             // Radius of obstacles and target
	ObstacleVelocitySigma float64 `yaml:"obstacle_velocity_sigma"` // Std dev of obstacle velocity components (m/s)
	TargetMoves           bool    `yaml:"target_moves"`
}

// RobotConfig holds the robot's starting pose and display parameters.
type RobotConfig struct {
	StartX       float64 `yaml:"start_x"`
	StartY       float64 `yaml:"start_y"`
	StartHeading float64 `yaml:"start_heading"`
	Radius       float64 `yaml:"radius"`
	TrailLength  int     `yaml:"trail_length"` // Pose history kept for display
}

// PlannerConfig holds the polar-histogram planner tuning constants.
type PlannerConfig struct {
	SectorWidthDeg     float64 `yaml:"sector_width_deg"`
	SectorOffsetDeg    float64 `yaml:"sector_offset_deg"` // Bearing of the first sector's lower boundary
	AwarenessRadius    float64 `yaml:"awareness_radius"`  // Obstacles farther than this are ignored
	OccupancyThreshold float64 `yaml:"occupancy_threshold"`
	ValleyWidth        int     `yaml:"valley_width"` // Sectors per valley
	LookaheadDistance  float64 `yaml:"lookahead_distance"`
	GridStep           float64 `yaml:"grid_step"`       // Footprint rasterization step (m)
	FootprintWidth     float64 `yaml:"footprint_width"` // Obstacle footprint side (m)
	RotateWaypoint     bool    `yaml:"rotate_waypoint"` // Rotate the look-ahead offset back into the world frame
}

// ControlConfig holds the polar controller gains and wheel geometry.
type ControlConfig struct {
	KRho          float64 `yaml:"k_rho"`
	KAlpha        float64 `yaml:"k_alpha"`
	KBeta         float64 `yaml:"k_beta"`
	WheelBase     float64 `yaml:"wheel_base"`   // Separation between the wheels (m)
	WheelRadius   float64 `yaml:"wheel_radius"` // Scale of the twist-to-wheel mapping
	MaxWheelSpeed float64 `yaml:"max_wheel_speed"`
	ClampWheels   bool    `yaml:"clamp_wheels"`
}

// SensingConfig holds position sensing parameters.
type SensingConfig struct {
	NoiseSigma float64 `yaml:"noise_sigma"` // 0 = ground truth
}

// SimConfig holds driver loop parameters.
type SimConfig struct {
	DT               float64 `yaml:"dt"`
	ReplanEvery      int     `yaml:"replan_every"` // Ticks between planner calls
	CollisionEpsilon float64 `yaml:"collision_epsilon"`
	MaxTicks         int     `yaml:"max_ticks"` // 0 = unlimited
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	RecordTicks         bool    `yaml:"record_ticks"`
	Plot                bool    `yaml:"plot"`
	WindowSec           float64 `yaml:"window_sec"`         // Simulated seconds per windows.csv row
	NearMissDistance    float64 `yaml:"near_miss_distance"` // Clearance that triggers a near_miss bookmark
	HoldStreak          int     `yaml:"hold_streak"`        // Consecutive held ticks that trigger a bookmark
	Snapshots           bool    `yaml:"snapshots"`          // Save a state snapshot for every bookmark
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NumSectors  int     // 360 / Planner.SectorWidthDeg
	WorldWidth  float64 // MaxX - MinX
	WorldHeight float64 // MaxY - MinY
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the values the planner and controller cannot work without.
func (c *Config) Validate() error {
	p := c.Planner
	switch {
	case p.SectorWidthDeg <= 0:
		return fmt.Errorf("planner.sector_width_deg: %w: %v", ErrInvalid, p.SectorWidthDeg)
	case p.SectorWidthDeg >= 180:
		return fmt.Errorf("planner.sector_width_deg: %w: %v is not below a half turn", ErrInvalid, p.SectorWidthDeg)
	case !divides(p.SectorWidthDeg, 360):
		return fmt.Errorf("planner.sector_width_deg: %w: %v does not divide 360", ErrInvalid, p.SectorWidthDeg)
	case p.ValleyWidth < 1 || float64(p.ValleyWidth) > 360/p.SectorWidthDeg:
		return fmt.Errorf("planner.valley_width: %w: %d", ErrInvalid, p.ValleyWidth)
	case p.GridStep <= 0:
		return fmt.Errorf("planner.grid_step: %w: %v", ErrInvalid, p.GridStep)
	case p.FootprintWidth <= 0:
		return fmt.Errorf("planner.footprint_width: %w: %v", ErrInvalid, p.FootprintWidth)
	case p.LookaheadDistance <= 0:
		return fmt.Errorf("planner.lookahead_distance: %w: %v", ErrInvalid, p.LookaheadDistance)
	}

	ctl := c.Control
	switch {
	case ctl.WheelBase <= 0:
		return fmt.Errorf("control.wheel_base: %w: %v", ErrInvalid, ctl.WheelBase)
	case ctl.WheelRadius <= 0:
		return fmt.Errorf("control.wheel_radius: %w: %v", ErrInvalid, ctl.WheelRadius)
	case ctl.ClampWheels && ctl.MaxWheelSpeed <= 0:
		return fmt.Errorf("control.max_wheel_speed: %w: %v", ErrInvalid, ctl.MaxWheelSpeed)
	}

	if c.Sim.DT <= 0 {
		return fmt.Errorf("sim.dt: %w: %v", ErrInvalid, c.Sim.DT)
	}
	if c.World.MaxX <= c.World.MinX || c.World.MaxY <= c.World.MinY {
		return fmt.Errorf("world bounds: %w: empty playfield", ErrInvalid)
	}
	return nil
}

func divides(step, total float64) bool {
	n := total / step
	return n == float64(int(n))
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.NumSectors = int(360 / c.Planner.SectorWidthDeg)
	c.Derived.WorldWidth = c.World.MaxX - c.World.MinX
	c.Derived.WorldHeight = c.World.MaxY - c.World.MinY

	if c.Sim.ReplanEvery < 1 {
		c.Sim.ReplanEvery = 1
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 60
	}
	if c.Telemetry.WindowSec <= 0 {
		c.Telemetry.WindowSec = 10
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	want := PlannerConfig{
		SectorWidthDeg:     9,
		SectorOffsetDeg:    1,
		AwarenessRadius:    1.25,
		OccupancyThreshold: 0.005,
		ValleyWidth:        3,
		LookaheadDistance:  0.5,
		GridStep:           0.04,
		FootprintWidth:     0.2,
	}
	if diff := cmp.Diff(want, cfg.Planner); diff != "" {
		t.Errorf("planner defaults mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 40, cfg.Derived.NumSectors)
	assert.InDelta(t, 8.0, cfg.Derived.WorldWidth, 1e-9)
	assert.InDelta(t, 5.0, cfg.Derived.WorldHeight, 1e-9)
	assert.Equal(t, 0.2, cfg.Control.WheelBase)
	assert.Equal(t, 1, cfg.Sim.ReplanEvery)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner:\n  valley_width: 5\ncontrol:\n  k_alpha: 3\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Planner.ValleyWidth)
	assert.Equal(t, 3.0, cfg.Control.KAlpha)
	// Untouched values keep their defaults
	assert.Equal(t, 9.0, cfg.Planner.SectorWidthDeg)
	assert.Equal(t, 0.5, cfg.Control.KRho)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sector width", func(c *Config) { c.Planner.SectorWidthDeg = 0 }},
		{"sector width not dividing 360", func(c *Config) { c.Planner.SectorWidthDeg = 7 }},
		{"single sector", func(c *Config) { c.Planner.SectorWidthDeg = 360; c.Planner.ValleyWidth = 1 }},
		{"two half-turn sectors", func(c *Config) { c.Planner.SectorWidthDeg = 180; c.Planner.ValleyWidth = 1 }},
		{"valley wider than ring", func(c *Config) { c.Planner.ValleyWidth = 41 }},
		{"zero valley", func(c *Config) { c.Planner.ValleyWidth = 0 }},
		{"zero grid step", func(c *Config) { c.Planner.GridStep = 0 }},
		{"zero wheel base", func(c *Config) { c.Control.WheelBase = 0 }},
		{"negative wheel radius", func(c *Config) { c.Control.WheelRadius = -1 }},
		{"clamp without max speed", func(c *Config) { c.Control.ClampWheels = true; c.Control.MaxWheelSpeed = 0 }},
		{"zero dt", func(c *Config) { c.Sim.DT = 0 }},
		{"empty world", func(c *Config) { c.World.MaxX = c.World.MinX }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}

	require.NoError(t, Default().Validate())

	// Any offset is accepted; the ring tiles the circle for every layout.
	for _, layout := range [][2]float64{{9, 0}, {10, 5}, {90, 45}, {120, 0}} {
		cfg := Default()
		cfg.Planner.SectorWidthDeg, cfg.Planner.SectorOffsetDeg = layout[0], layout[1]
		cfg.Planner.ValleyWidth = 1
		require.NoError(t, cfg.Validate(), "layout %v", layout)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Planner.ValleyWidth = 4
	cfg.Sim.ReplanEvery = 5

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	assert.Panics(t, func() { Cfg() })
	require.NoError(t, Init(""))
	assert.NotNil(t, Cfg())
}

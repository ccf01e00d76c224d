package main

import (
	"github.com/pthm-cable/pursuit/config"
)

// ParamSpec is one searched gain. The optimizer works in the unit cube;
// Lo and Hi map it back to config units.
type ParamSpec struct {
	Name    string
	Path    string
	Lo, Hi  float64
	Default float64
	set     func(*config.Config, float64)
}

func (s ParamSpec) toUnit(v float64) float64   { return (v - s.Lo) / (s.Hi - s.Lo) }
func (s ParamSpec) fromUnit(u float64) float64 { return s.Lo + u*(s.Hi-s.Lo) }
func (s ParamSpec) clamp(v float64) float64    { return min(s.Hi, max(s.Lo, v)) }

// ParamVector is the ordered set of gains searched by the tuner.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector covers the polar controller gains only; planner
// constants stay as configured.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{Name: "k_rho", Path: "control.k_rho", Lo: 0.1, Hi: 2.0, Default: 0.5,
			set: func(c *config.Config, v float64) { c.Control.KRho = v }},
		{Name: "k_alpha", Path: "control.k_alpha", Lo: 0.5, Hi: 10.0, Default: 5.0,
			set: func(c *config.Config, v float64) { c.Control.KAlpha = v }},
		{Name: "k_beta", Path: "control.k_beta", Lo: -2.0, Hi: 2.0, Default: 1.0,
			set: func(c *config.Config, v float64) { c.Control.KBeta = v }},
	}}
}

func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// each maps f over the specs paired with v.
func (pv *ParamVector) each(v []float64, f func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = f(s, v[i])
	}
	return out
}

func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(make([]float64, len(pv.Specs)), func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps config-unit gains into the unit cube.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, ParamSpec.toUnit)
}

// Denormalize maps unit-cube coordinates to config units. It does not clamp.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.each(unit, ParamSpec.fromUnit)
}

// Clamp limits every gain to its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(v, ParamSpec.clamp)
}

// ApplyToConfig writes the clamped gains into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

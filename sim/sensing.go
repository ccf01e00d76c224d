package sim

import (
	"math/rand"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/planner"
)

// Sensor turns the true body positions into what the planner gets to see.
type Sensor interface {
	Sense(truth planner.Snapshot) planner.Snapshot
}

// GroundTruth passes positions through unchanged.
type GroundTruth struct{}

// Sense returns truth.
func (GroundTruth) Sense(truth planner.Snapshot) planner.Snapshot {
	return truth
}

// NoisySensor adds independent Gaussian noise to every coordinate.
type NoisySensor struct {
	Sigma float64
	rng   *rand.Rand
}

// NewNoisySensor creates a sensor drawing its noise from rng.
func NewNoisySensor(sigma float64, rng *rand.Rand) *NoisySensor {
	return &NoisySensor{Sigma: sigma, rng: rng}
}

// Sense returns a perturbed copy of truth. The input is not modified.
func (s *NoisySensor) Sense(truth planner.Snapshot) planner.Snapshot {
	out := planner.Snapshot{
		Target:    s.perturb(truth.Target),
		Obstacles: make([]geom.Point, len(truth.Obstacles)),
	}
	for i, p := range truth.Obstacles {
		out.Obstacles[i] = s.perturb(p)
	}
	return out
}

func (s *NoisySensor) perturb(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X + s.rng.NormFloat64()*s.Sigma,
		Y: p.Y + s.rng.NormFloat64()*s.Sigma,
	}
}

// NewSensor picks ground truth when noise is disabled.
func NewSensor(cfg config.SensingConfig, rng *rand.Rand) Sensor {
	if cfg.NoiseSigma <= 0 {
		return GroundTruth{}
	}
	return NewNoisySensor(cfg.NoiseSigma, rng)
}

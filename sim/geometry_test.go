package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/geom"
	"github.com/pthm-cable/pursuit/kinematics"
	"github.com/pthm-cable/pursuit/planner"
)

func TestClearance(t *testing.T) {
	assert.True(t, math.IsInf(Clearance(geom.Point{}, 0.1, nil), 1))

	obstacles := []Circle{
		{Center: geom.Point{X: 2}, Radius: 0.1},
		{Center: geom.Point{Y: -1}, Radius: 0.2},
	}
	assert.InDelta(t, 0.7, Clearance(geom.Point{}, 0.1, obstacles), 1e-12)
}

func TestGoalAngle(t *testing.T) {
	tests := []struct {
		name   string
		pose   kinematics.Pose
		target geom.Point
		want   float64
	}{
		{"ahead", kinematics.Pose{}, geom.Point{X: 1}, 0},
		{"left", kinematics.Pose{}, geom.Point{Y: 1}, math.Pi / 2},
		{"right of north-facing robot", kinematics.Pose{Heading: math.Pi / 2}, geom.Point{X: 1}, -math.Pi / 2},
		{"wraps behind", kinematics.Pose{Heading: 3}, geom.Point{X: 1, Y: -0.2}, geom.WrapAngle(math.Atan2(-0.2, 1) - 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GoalAngle(tt.pose, tt.target)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.LessOrEqual(t, math.Abs(got), math.Pi)
		})
	}
}

func TestMinRange(t *testing.T) {
	obstacles := []Circle{
		{Center: geom.Point{X: 1}, Radius: 0.1},
		{Center: geom.Point{X: -1}, Radius: 0.1},
		{Center: geom.Point{Y: 2}, Radius: 0.1},
	}
	origin := kinematics.Pose{}

	tests := []struct {
		name     string
		pose     kinematics.Pose
		from, to float64
		want     float64
	}{
		{"front cone", origin, -math.Pi / 4, math.Pi / 4, 0.8},
		{"cone across the back", origin, 3 * math.Pi / 4, -3 * math.Pi / 4, 0.8},
		{"left cone", origin, math.Pi / 4, 3 * math.Pi / 4, 1.8},
		{"front of a north-facing robot", kinematics.Pose{Heading: math.Pi / 2}, -0.1, 0.1, 1.8},
		{"empty cone", origin, -3 * math.Pi / 4, -math.Pi / 4, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinRange(tt.pose, 0.1, obstacles, tt.from, tt.to)
			if math.IsInf(tt.want, 1) {
				assert.True(t, math.IsInf(got, 1), "got %v", got)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestNewSensor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.IsType(t, GroundTruth{}, NewSensor(config.SensingConfig{}, rng))
	assert.IsType(t, &NoisySensor{}, NewSensor(config.SensingConfig{NoiseSigma: 0.01}, rng))
}

func TestNoisySensorPerturbsCopy(t *testing.T) {
	truth := planner.Snapshot{
		Target:    geom.Point{X: 1, Y: 1},
		Obstacles: []geom.Point{{X: 0.5}, {Y: -0.5}},
	}
	s := NewNoisySensor(0.01, rand.New(rand.NewSource(1)))

	got := s.Sense(truth)
	assert.Equal(t, geom.Point{X: 0.5}, truth.Obstacles[0], "input must not change")
	assert.Len(t, got.Obstacles, 2)
	assert.NotEqual(t, truth.Target, got.Target)
	assert.InDelta(t, 1, got.Target.X, 0.1)
	for i := range got.Obstacles {
		assert.InDelta(t, 0, geom.Distance(truth.Obstacles[i], got.Obstacles[i]), 0.1)
	}
}

func TestGroundTruthIsIdentity(t *testing.T) {
	truth := planner.Snapshot{Target: geom.Point{X: 2}, Obstacles: []geom.Point{{X: 1}}}
	assert.Equal(t, truth, GroundTruth{}.Sense(truth))
}
